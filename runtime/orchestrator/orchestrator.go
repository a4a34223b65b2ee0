package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/viant/fluxplan/internal/clock"
	"github.com/viant/fluxplan/internal/idgen"
	"github.com/viant/fluxplan/model"
	"github.com/viant/fluxplan/policy"
	"github.com/viant/fluxplan/progress"
	"github.com/viant/fluxplan/runtime/correlation"
	"github.com/viant/fluxplan/runtime/execution"
	"github.com/viant/fluxplan/service/report"
	"github.com/viant/fluxplan/tracing"
)

// Orchestrator executes plans under a selectable concurrency policy. It holds
// no per-run state and can run several plans at once.
type Orchestrator struct {
	reporter   report.Reporter
	onProgress func(progress.Progress)
}

// New creates an orchestrator; without options markers are discarded.
func New(options ...Option) *Orchestrator {
	ret := &Orchestrator{reporter: report.Nop}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Run executes plan under plan.Policy.
func (o *Orchestrator) Run(ctx context.Context, plan *model.Plan) (*model.Run, error) {
	if plan == nil {
		return nil, &model.ConfigurationError{Reason: "plan is nil"}
	}
	switch plan.Policy {
	case policy.Sequential:
		return o.RunSequential(ctx, plan)
	case policy.ConcurrentAwaited:
		return o.RunConcurrentAwaited(ctx, plan)
	case policy.JointAll:
		return o.RunJointAll(ctx, plan)
	case policy.IndependentObservers:
		return o.RunIndependentObservers(ctx, plan)
	case "":
		return nil, &model.ConfigurationError{Plan: plan.Name, Reason: "policy is not set"}
	}
	return nil, &model.ConfigurationError{Plan: plan.Name, Reason: fmt.Sprintf("unsupported policy %q", plan.Policy)}
}

// RunSequential starts and observes tasks one at a time in declaration order.
// Total elapsed time is the sum of all durations. A failure stops the chain;
// later tasks are never started.
func (o *Orchestrator) RunSequential(ctx context.Context, plan *model.Plan) (*model.Run, error) {
	ctx, r, err := o.begin(ctx, plan, policy.Sequential)
	if err != nil {
		return nil, err
	}
	for _, task := range r.tasks {
		r.start(ctx, task)
		outcome, err := r.observe(ctx, task)
		r.append(outcome)
		if err != nil {
			return o.finish(ctx, r, err)
		}
		r.elapsed(ctx)
		r.result(ctx, task, outcome)
	}
	return o.finish(ctx, r, nil)
}

// RunConcurrentAwaited starts every task, then observes them in declaration
// order. Observing task i blocks until it is ready even when a later task
// settled earlier; an already ready task is fetched without further delay.
func (o *Orchestrator) RunConcurrentAwaited(ctx context.Context, plan *model.Plan) (*model.Run, error) {
	ctx, r, err := o.begin(ctx, plan, policy.ConcurrentAwaited)
	if err != nil {
		return nil, err
	}
	for _, task := range r.tasks {
		r.start(ctx, task)
	}
	for _, task := range r.tasks {
		outcome, err := r.observe(ctx, task)
		r.append(outcome)
		if err != nil {
			return o.finish(ctx, r, err)
		}
		r.result(ctx, task, outcome)
	}
	r.elapsed(ctx)
	return o.finish(ctx, r, nil)
}

// RunJointAll starts every task and waits until all are ready, yielding
// results in declaration order. The first failure fails the whole wait with
// that task's TaskFailure.
func (o *Orchestrator) RunJointAll(ctx context.Context, plan *model.Plan) (*model.Run, error) {
	ctx, r, err := o.begin(ctx, plan, policy.JointAll)
	if err != nil {
		return nil, err
	}
	group := correlation.NewGroup(r.record.ID, len(r.tasks))
	join := func(task *execution.Task) {
		value, _, err := task.Peek()
		group.MarkDone(task.Index, value, err)
	}
	for _, task := range r.tasks {
		r.start(ctx, task, join)
	}
	select {
	case <-group.Done():
	case <-ctx.Done():
		return o.finish(ctx, r, ctx.Err())
	}
	if index, err := group.Failure(); err != nil {
		failed := r.tasks[index]
		r.append(&model.Outcome{TaskID: failed.ID, Index: index, Elapsed: clock.Since(r.startedAt), Error: err.Error(), Failure: err})
		marker := r.marker(report.KindFailure, failed)
		marker.Error = err.Error()
		r.emit(ctx, marker)
		return o.finish(ctx, r, err)
	}
	for _, task := range r.tasks {
		outcome, err := r.observe(ctx, task)
		r.append(outcome)
		if err != nil {
			return o.finish(ctx, r, err)
		}
		r.result(ctx, task, outcome)
	}
	r.elapsed(ctx)
	return o.finish(ctx, r, nil)
}

// RunIndependentObservers wraps each task in its own observer that reports
// the task as soon as it is ready. Outcomes are recorded in completion order.
// A failed observer does not affect the others; all failures are joined into
// the returned error once every observer finished.
func (o *Orchestrator) RunIndependentObservers(ctx context.Context, plan *model.Plan) (*model.Run, error) {
	ctx, r, err := o.begin(ctx, plan, policy.IndependentObservers)
	if err != nil {
		return nil, err
	}
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []error
	)
	for _, task := range r.tasks {
		r.start(ctx, task)
		wg.Add(1)
		go func(task *execution.Task) {
			defer wg.Done()
			outcome, err := r.observe(ctx, task)
			if err != nil {
				r.append(outcome)
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
				return
			}
			// elapsed and result of one observer are reported back to back
			mu.Lock()
			r.append(outcome)
			r.elapsed(ctx)
			r.result(ctx, task, outcome)
			mu.Unlock()
		}(task)
	}
	wg.Wait()
	return o.finish(ctx, r, errors.Join(failures...))
}

func (o *Orchestrator) begin(ctx context.Context, plan *model.Plan, mode policy.Mode) (context.Context, *run, error) {
	if err := plan.Validate(); err != nil {
		return ctx, nil, err
	}
	startedAt := clock.Now()
	record := model.NewRun(idgen.New(), plan, startedAt)
	record.Policy = mode

	ctx, span := tracing.StartSpan(ctx, fmt.Sprintf("orchestrator.%s %s", mode, plan.Name))
	span.WithAttributes(map[string]string{
		"plan.name":   plan.Name,
		"plan.policy": string(mode),
		"plan.tasks":  strconv.Itoa(len(plan.Tasks)),
		"run.id":      record.ID,
	})
	ctx, _ = progress.WithNewTracker(ctx, record.ID, plan.Name, o.onProgress)
	progress.UpdateCtx(ctx, progress.Delta{Total: len(plan.Tasks), Pending: len(plan.Tasks)})

	r := &run{
		record:    record,
		plan:      plan,
		startedAt: startedAt,
		tasks:     execution.NewTasks(plan),
		reporter:  o.reporter,
		span:      span,
	}
	r.emit(ctx, r.marker(report.KindPlanStarted, nil))
	return ctx, r, nil
}

func (o *Orchestrator) finish(_ context.Context, r *run, err error) (*model.Run, error) {
	r.close()
	r.mu.Lock()
	r.record.Complete(clock.Now(), err)
	r.mu.Unlock()
	tracing.EndSpan(r.span, err)
	return r.record, err
}
