package meta

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a resource does not exist.
var ErrNotFound = errors.New("meta: resource not found")

// DefaultRetries is the number of download retries for transient failures.
const DefaultRetries = 3

// Service loads YAML or JSON resources from any afs supported location.
// ${env.KEY} expressions are expanded before decoding.
type Service struct {
	fs      afs.Service
	baseURL string
	options []storage.Option
	Retries uint64
}

// URL resolves location against the base URL; absolute locations are kept.
func (s *Service) URL(location string) string {
	if s.baseURL == "" || !url.IsRelative(location) {
		return location
	}
	return url.Join(s.baseURL, location)
}

// Exists reports whether location resolves to an existing resource.
func (s *Service) Exists(ctx context.Context, location string) (bool, error) {
	return s.fs.Exists(ctx, s.URL(location), s.options...)
}

// Download returns the raw resource content with env expressions expanded.
func (s *Service) Download(ctx context.Context, location string) ([]byte, error) {
	URL := s.URL(location)
	var data []byte
	operation := func() error {
		ok, err := s.fs.Exists(ctx, URL, s.options...)
		if err != nil {
			return err
		}
		if !ok {
			return backoff.Permanent(fmt.Errorf("%w: %s", ErrNotFound, URL))
		}
		data, err = s.fs.DownloadWithURL(ctx, URL, s.options...)
		return err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), s.Retries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return []byte(expandEnv(string(data))), nil
}

// Load decodes the resource at location into target. JSON is accepted as it
// is a subset of YAML.
func (s *Service) Load(ctx context.Context, location string, target interface{}) error {
	data, err := s.Download(ctx, location)
	if err != nil {
		return err
	}
	if err = yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to decode %s: %w", s.URL(location), err)
	}
	return nil
}

// Upload stores data at location, creating parent folders when needed.
func (s *Service) Upload(ctx context.Context, location string, data []byte) error {
	return s.fs.Upload(ctx, s.URL(location), file.DefaultFileOsMode, bytes.NewReader(data), s.options...)
}

// New creates a meta service. An empty baseURL leaves locations unresolved.
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	if fs == nil {
		fs = afs.New()
	}
	return &Service{fs: fs, baseURL: baseURL, options: options, Retries: DefaultRetries}
}
