package fluxplan

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/viant/fluxplan/internal/clock"
	"github.com/viant/fluxplan/model"
	"github.com/viant/fluxplan/policy"
	"github.com/viant/fluxplan/runtime/orchestrator"
	"github.com/viant/fluxplan/service/dao"
	"github.com/viant/fluxplan/service/dao/plan"
	"github.com/viant/fluxplan/service/event"
	"github.com/viant/fluxplan/service/processor"
	"github.com/viant/fluxplan/service/report"
)

// ErrEventsDisabled is returned by Subscribe when no event queue was configured.
var ErrEventsDisabled = errors.New("fluxplan: marker events are not enabled")

// Runtime loads, runs and records plans. It is safe for concurrent use.
type Runtime struct {
	orchestrator *orchestrator.Orchestrator
	planDAO      *plan.Service
	runDAO       dao.Service[string, model.Run]
	listener     *event.Listener[report.Marker]
	processor    *processor.Service
	staggerGap   time.Duration
}

// LoadPlan loads a plan definition
func (r *Runtime) LoadPlan(ctx context.Context, location string) (*model.Plan, error) {
	return r.planDAO.Load(ctx, location)
}

// DecodeYAMLPlan decodes a plan definition
func (r *Runtime) DecodeYAMLPlan(data []byte) (*model.Plan, error) {
	return r.planDAO.DecodeYAML(data)
}

// RefreshPlan discards the cached copy of the plan at location; the next
// LoadPlan reads it again.
func (r *Runtime) RefreshPlan(location string) {
	r.planDAO.Refresh(location)
}

// UpsertDefinition decodes data and caches the plan under location. A nil data
// falls back to RefreshPlan.
func (r *Runtime) UpsertDefinition(location string, data []byte) error {
	if data == nil {
		r.RefreshPlan(location)
		return nil
	}
	aPlan, err := r.planDAO.DecodeYAML(data)
	if err != nil {
		return fmt.Errorf("failed to decode plan YAML: %w", err)
	}
	aPlan.Source = &model.Source{URL: location}
	r.planDAO.Upsert(location, aPlan)
	return nil
}

// Run executes aPlan under its policy and records the run. The run record is
// returned even when the run failed; it is nil only for invalid plans.
func (r *Runtime) Run(ctx context.Context, aPlan *model.Plan) (*model.Run, error) {
	run, err := r.orchestrator.Run(ctx, aPlan)
	if run != nil {
		if saveErr := r.runDAO.Save(context.WithoutCancel(ctx), run); saveErr != nil {
			log.Printf("failed to save run %s: %v", run.ID, saveErr)
		}
	}
	return run, err
}

// RunWith executes aPlan under mode regardless of the policy it declares.
func (r *Runtime) RunWith(ctx context.Context, aPlan *model.Plan, mode policy.Mode) (*model.Run, error) {
	if aPlan == nil {
		return r.Run(ctx, nil)
	}
	return r.Run(ctx, aPlan.WithPolicy(mode))
}

// RunLocation loads the plan at location and executes it.
func (r *Runtime) RunLocation(ctx context.Context, location string) (*model.Run, error) {
	aPlan, err := r.LoadPlan(ctx, location)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, aPlan)
}

// Stagger starts plan i at i*gap after the call and waits for all of them.
// A zero gap falls back to the configured stagger gap. Runs are returned in
// plan order; failures are joined.
func (r *Runtime) Stagger(ctx context.Context, gap time.Duration, plans ...*model.Plan) ([]*model.Run, error) {
	if gap <= 0 {
		gap = r.staggerGap
	}
	runs := make([]*model.Run, len(plans))
	errs := make([]error, len(plans))
	var wg sync.WaitGroup
	for i, aPlan := range plans {
		wg.Add(1)
		start := make(chan struct{})
		timer := clock.AfterFunc(time.Duration(i)*gap, func() { close(start) })
		go func(i int, aPlan *model.Plan) {
			defer wg.Done()
			select {
			case <-start:
			case <-ctx.Done():
				timer.Stop()
				errs[i] = ctx.Err()
				return
			}
			runs[i], errs[i] = r.Run(ctx, aPlan)
		}(i, aPlan)
	}
	wg.Wait()
	return runs, errors.Join(errs...)
}

// LoadRun returns a recorded run
func (r *Runtime) LoadRun(ctx context.Context, id string) (*model.Run, error) {
	return r.runDAO.Load(ctx, id)
}

// Runs returns recorded runs matching parameters
func (r *Runtime) Runs(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Run, error) {
	return r.runDAO.List(ctx, parameters...)
}

// Subscribe hands every marker event published after the call to handler
// until the returned stop function is called, ctx is done or Shutdown. Each
// subscriber receives every event; handlers run on one dispatch goroutine.
func (r *Runtime) Subscribe(ctx context.Context, handler func(*event.Event[report.Marker])) (func(), error) {
	if r.listener == nil {
		return nil, ErrEventsDisabled
	}
	remove := r.listener.Add(handler)
	stopWatch := context.AfterFunc(ctx, remove)
	return func() {
		stopWatch()
		remove()
	}, nil
}

// Start starts the workers running submitted plans.
func (r *Runtime) Start(ctx context.Context) error {
	return r.processor.Start(ctx)
}

// Submit queues aPlan for a background worker; the returned function waits
// for the run. Start must have been called.
func (r *Runtime) Submit(ctx context.Context, aPlan *model.Plan) (processor.Wait, error) {
	return r.processor.Submit(ctx, aPlan)
}

// Shutdown stops the workers and every subscription.
func (r *Runtime) Shutdown(_ context.Context) error {
	r.processor.Shutdown()
	if r.listener != nil {
		r.listener.Stop()
	}
	return nil
}
