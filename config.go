package fluxplan

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/afs"
	"github.com/viant/fluxplan/policy"
	"github.com/viant/fluxplan/service/meta"
	"github.com/viant/fluxplan/service/report"
)

// Store kinds.
const (
	StoreMemory = "memory"
	StoreFS     = "fs"
)

// Config is a serialisable representation of the service configuration. It
// can be loaded from YAML or JSON with LoadConfig. The zero value of every
// nested field inherits the package default.
type Config struct {
	Processor ProcessorConfig `json:"processor" yaml:"processor"`
	Plans     PlansConfig     `json:"plans" yaml:"plans"`
	Report    ReportConfig    `json:"report" yaml:"report"`
	Store     StoreConfig     `json:"store" yaml:"store"`
	Tracing   TracingConfig   `json:"tracing" yaml:"tracing"`
	// Stagger is the gap between staggered plan starts, e.g. "5s".
	Stagger string `json:"stagger,omitempty" yaml:"stagger,omitempty"`
}

type ProcessorConfig struct {
	WorkerCount int `json:"workers" yaml:"workers"`
}

type PlansConfig struct {
	BaseURL       string `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
	DefaultPolicy string `json:"defaultPolicy,omitempty" yaml:"defaultPolicy,omitempty"`
	Retries       int    `json:"retries" yaml:"retries"`
}

type ReportConfig struct {
	// Format is text, json or none.
	Format string `json:"format" yaml:"format"`
	// Events publishes every marker on the in-memory event queue.
	Events bool `json:"events,omitempty" yaml:"events,omitempty"`
}

type StoreConfig struct {
	Kind    string `json:"kind" yaml:"kind"`
	BaseURL string `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
}

type TracingConfig struct {
	Enabled    bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Service    string `json:"service,omitempty" yaml:"service,omitempty"`
	Version    string `json:"version,omitempty" yaml:"version,omitempty"`
	OutputFile string `json:"outputFile,omitempty" yaml:"outputFile,omitempty"`
}

// DefaultConfig returns the configuration New uses when no option overrides it.
func DefaultConfig() *Config {
	return &Config{
		Processor: ProcessorConfig{WorkerCount: 4},
		Plans: PlansConfig{
			DefaultPolicy: string(policy.Sequential),
			Retries:       meta.DefaultRetries,
		},
		Report: ReportConfig{Format: string(report.FormatText)},
		Store:  StoreConfig{Kind: StoreMemory},
	}
}

// Validate returns the first invalid setting or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Processor.WorkerCount <= 0 {
		return fmt.Errorf("processor.workers must be > 0")
	}
	if c.Plans.DefaultPolicy != "" {
		if _, err := policy.Parse(c.Plans.DefaultPolicy); err != nil {
			return fmt.Errorf("plans.defaultPolicy: %w", err)
		}
	}
	if c.Plans.Retries < 0 {
		return fmt.Errorf("plans.retries must be >= 0")
	}
	switch c.Report.Format {
	case "", string(report.FormatText), string(report.FormatJSON), "none":
	default:
		return fmt.Errorf("report.format: unsupported format %q", c.Report.Format)
	}
	switch c.Store.Kind {
	case "", StoreMemory:
	case StoreFS:
		if c.Store.BaseURL == "" {
			return fmt.Errorf("store.baseURL is required for %s store", StoreFS)
		}
	default:
		return fmt.Errorf("store.kind: unsupported kind %q", c.Store.Kind)
	}
	if c.Tracing.Enabled && c.Tracing.Service == "" {
		return fmt.Errorf("tracing.service is required when tracing is enabled")
	}
	if _, err := c.StaggerGap(); err != nil {
		return err
	}
	return nil
}

// StaggerGap returns the parsed Stagger value; zero when unset.
func (c *Config) StaggerGap() (time.Duration, error) {
	if c.Stagger == "" {
		return 0, nil
	}
	gap, err := time.ParseDuration(c.Stagger)
	if err != nil {
		return 0, fmt.Errorf("stagger: %w", err)
	}
	if gap < 0 {
		return 0, fmt.Errorf("stagger must be >= 0")
	}
	return gap, nil
}

// LoadConfig reads a YAML or JSON configuration on top of DefaultConfig.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	ret := DefaultConfig()
	if err := meta.New(afs.New(), "").Load(ctx, URL, ret); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}
