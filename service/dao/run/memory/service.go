package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/viant/fluxplan/model"
	"github.com/viant/fluxplan/service/dao"
	"github.com/viant/fluxplan/service/dao/criteria"
)

// Service keeps run records in memory. Stored and returned records are
// clones, so callers may mutate what they receive.
type Service struct {
	runs map[string]*model.Run
	mux  sync.RWMutex
}

var _ dao.Service[string, model.Run] = (*Service)(nil)

func (s *Service) Save(_ context.Context, run *model.Run) error {
	if run == nil {
		return dao.ErrNilEntity
	}
	if run.ID == "" {
		return dao.ErrInvalidID
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	s.runs[run.ID] = run.Clone()
	return nil
}

func (s *Service) Load(_ context.Context, id string) (*model.Run, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	s.mux.RLock()
	run, ok := s.runs[id]
	s.mux.RUnlock()
	if !ok {
		return nil, dao.ErrNotFound
	}
	return run.Clone(), nil
}

func (s *Service) Delete(_ context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	if _, ok := s.runs[id]; !ok {
		return dao.ErrNotFound
	}
	delete(s.runs, id)
	return nil
}

// List returns matching runs ordered by start time.
func (s *Service) List(_ context.Context, parameters ...*dao.Parameter) ([]*model.Run, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	out := make([]*model.Run, 0, len(s.runs))
	for _, run := range s.runs {
		if criteria.MatchRun(run, parameters) {
			out = append(out, run.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out, nil
}

func New() *Service {
	return &Service{runs: map[string]*model.Run{}}
}
