package plan

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/fluxplan/model"
	"github.com/viant/fluxplan/policy"
	"github.com/viant/fluxplan/service/meta"
	"gopkg.in/yaml.v3"
)

// Service loads plan definitions and caches them by URL.
type Service struct {
	metaService   *meta.Service
	defaultPolicy policy.Mode

	mu    sync.RWMutex
	plans map[string]*model.Plan
}

// DecodeYAML decodes and validates a plan document.
func (s *Service) DecodeYAML(encoded []byte) (*model.Plan, error) {
	ret := &model.Plan{}
	if err := yaml.Unmarshal(encoded, ret); err != nil {
		return nil, fmt.Errorf("failed to decode plan: %w", err)
	}
	return s.init("", ret)
}

// Load returns the plan stored at URL; ".yaml" is appended when URL has no
// extension. Loaded plans are cached until Refresh.
func (s *Service) Load(ctx context.Context, URL string) (*model.Plan, error) {
	if filepath.Ext(URL) == "" {
		URL += ".yaml"
	}
	s.mu.RLock()
	cached, ok := s.plans[URL]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	ret := &model.Plan{}
	if err := s.metaService.Load(ctx, URL, ret); err != nil {
		return nil, fmt.Errorf("failed to load plan from %s: %w", URL, err)
	}
	if _, err := s.init(URL, ret); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.plans[URL] = ret
	s.mu.Unlock()
	return ret, nil
}

// Upsert stores plan in the cache under location, replacing any cached copy.
func (s *Service) Upsert(location string, plan *model.Plan) {
	if filepath.Ext(location) == "" {
		location += ".yaml"
	}
	s.mu.Lock()
	s.plans[location] = plan
	s.mu.Unlock()
}

// Refresh drops cached plans; with no URL every entry is dropped.
func (s *Service) Refresh(URLs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(URLs) == 0 {
		s.plans = map[string]*model.Plan{}
		return
	}
	for _, URL := range URLs {
		if filepath.Ext(URL) == "" {
			URL += ".yaml"
		}
		delete(s.plans, URL)
	}
}

func (s *Service) init(URL string, plan *model.Plan) (*model.Plan, error) {
	if URL != "" {
		plan.Source = &model.Source{URL: URL}
		if plan.Name == "" {
			plan.Name = planNameFromURL(URL)
		}
	}
	if plan.Policy == "" {
		plan.Policy = s.defaultPolicy
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

func planNameFromURL(URL string) string {
	base := filepath.Base(URL)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func New(opts ...Option) *Service {
	ret := &Service{
		metaService:   meta.New(afs.New(), ""),
		defaultPolicy: policy.Sequential,
		plans:         map[string]*model.Plan{},
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
