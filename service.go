package fluxplan

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/fluxplan/policy"
	"github.com/viant/fluxplan/progress"
	"github.com/viant/fluxplan/runtime/orchestrator"
	"github.com/viant/fluxplan/service/dao/plan"
	rmemory "github.com/viant/fluxplan/service/dao/run/memory"
	"github.com/viant/fluxplan/service/event"
	"github.com/viant/fluxplan/service/messaging"
	mmemory "github.com/viant/fluxplan/service/messaging/memory"
	"github.com/viant/fluxplan/service/meta"
	"github.com/viant/fluxplan/service/processor"
	"github.com/viant/fluxplan/service/report"
	"github.com/viant/fluxplan/tracing"

	rfs "github.com/viant/fluxplan/service/dao/run/fs"
)

// Service builds and owns a Runtime.
type Service struct {
	runtime          *Runtime
	metaService      *meta.Service
	metaBaseURL      string
	metaFsOptions    []storage.Option
	defaultPolicy    policy.Mode
	reporters        []report.Reporter
	progressListener func(progress.Progress)
	eventQueue       messaging.Queue[event.Event[report.Marker]]
	publishTimeout   time.Duration
	queue            messaging.Queue[processor.Request]
	processorWorkers int
}

func (s *Service) init(options []Option) {
	for _, option := range options {
		option(s)
	}
	s.ensureBaseSetup()
	reporters := append([]report.Reporter{tracing.Reporter{}}, s.reporters...)
	if s.eventQueue != nil {
		publisher := event.NewPublisher[report.Marker](s.eventQueue)
		s.runtime.listener = event.NewListener[report.Marker](publisher)
		s.runtime.listener.Start(context.Background())
		reporters = append(reporters, report.NewPublisher(publisher, s.publishTimeout))
	}
	s.runtime.orchestrator = orchestrator.New(
		orchestrator.WithReporter(reporters...),
		orchestrator.WithProgressListener(s.progressListener),
	)
	s.runtime.processor, _ = processor.New(
		processor.WithMessageQueue(s.queue),
		processor.WithRunner(s.runtime),
		processor.WithWorkers(s.processorWorkers))
}

// Runtime returns the entry point for loading and running plans.
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

func (s *Service) ensureBaseSetup() {
	if s.metaService == nil {
		s.metaService = meta.New(afs.New(), s.metaBaseURL, s.metaFsOptions...)
	}
	if s.defaultPolicy == "" {
		s.defaultPolicy = policy.Sequential
	}
	if s.runtime.planDAO == nil {
		s.runtime.planDAO = plan.New(plan.WithMetaService(s.metaService), plan.WithDefaultPolicy(s.defaultPolicy))
	}
	if s.queue == nil {
		s.queue = mmemory.NewQueue[processor.Request](mmemory.DefaultConfig())
	}
	if s.processorWorkers <= 0 {
		s.processorWorkers = DefaultConfig().Processor.WorkerCount
	}
	if s.runtime.runDAO == nil {
		s.runtime.runDAO = rmemory.New()
	}
}

// New creates a service. Without options plans are loaded from the local file
// system and runs are kept in memory. With an event queue configured, a
// background dispatcher drains it until Runtime.Shutdown.
func New(options ...Option) *Service {
	ret := &Service{runtime: &Runtime{}}
	ret.init(options)
	return ret
}

// NewFromConfig builds a service from cfg; options are applied after the
// configuration and take precedence.
func NewFromConfig(cfg *Config, options ...Option) (*Service, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	configured := []Option{WithProcessorWorkers(cfg.Processor.WorkerCount)}
	if cfg.Plans.BaseURL != "" {
		configured = append(configured, WithMetaBaseURL(cfg.Plans.BaseURL))
	}
	if cfg.Plans.DefaultPolicy != "" {
		mode, _ := policy.Parse(cfg.Plans.DefaultPolicy)
		configured = append(configured, WithDefaultPolicy(mode))
	}
	if format := cfg.Report.Format; format != "none" {
		configured = append(configured, WithPrinter(reportWriter, report.Format(format)))
	}
	if cfg.Report.Events {
		configured = append(configured, WithEventQueue(mmemory.NewQueue[event.Event[report.Marker]](mmemory.DefaultConfig())))
	}
	if cfg.Store.Kind == StoreFS {
		store, err := rfs.New(cfg.Store.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create run store: %w", err)
		}
		configured = append(configured, WithRunDAO(store))
	}
	if cfg.Tracing.Enabled {
		if err := tracing.Init(cfg.Tracing.Service, cfg.Tracing.Version, cfg.Tracing.OutputFile); err != nil {
			return nil, fmt.Errorf("failed to init tracing: %w", err)
		}
	}
	ret := New(append(configured, options...)...)
	ret.metaService.Retries = uint64(cfg.Plans.Retries)
	gap, _ := cfg.StaggerGap()
	ret.runtime.staggerGap = gap
	return ret, nil
}

// reportWriter receives printed markers of config built services.
var reportWriter io.Writer = os.Stdout
