package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/viant/fluxplan/internal/clock"
	"github.com/viant/fluxplan/model"
	"github.com/viant/fluxplan/progress"
	"github.com/viant/fluxplan/runtime/execution"
	"github.com/viant/fluxplan/service/report"
	"github.com/viant/fluxplan/tracing"
)

// run holds the state of one plan execution. The start reading is taken once
// and threaded through every marker and outcome of this run.
type run struct {
	record    *model.Run
	plan      *model.Plan
	startedAt time.Time
	tasks     []*execution.Task
	reporter  report.Reporter
	span      *tracing.Span

	mu sync.Mutex // guards record.Outcomes

	emitMu sync.Mutex // serialises reporters and guards closed
	closed bool
}

func (r *run) marker(kind report.Kind, task *execution.Task) *report.Marker {
	now := clock.Now()
	ret := &report.Marker{
		Kind:    kind,
		RunID:   r.record.ID,
		Plan:    r.record.Plan,
		Policy:  r.record.Policy,
		Index:   -1,
		Seconds: clock.ElapsedSeconds(r.startedAt, now),
		Elapsed: now.Sub(r.startedAt),
		At:      now,
	}
	if task != nil {
		ret.TaskID = task.ID
		ret.Index = task.Index
	}
	return ret
}

// emit reports marker unless the run already finished; a finished run
// produces no further markers.
func (r *run) emit(ctx context.Context, marker *report.Marker) {
	r.emitMu.Lock()
	defer r.emitMu.Unlock()
	if r.closed {
		return
	}
	r.reporter.Report(ctx, marker)
}

// start begins the task timer and wires the completion marker.
func (r *run) start(ctx context.Context, task *execution.Task, listeners ...execution.Listener) {
	settled := func(task *execution.Task) {
		marker := r.marker(report.KindTaskCompleted, task)
		if err := task.Err(); err != nil {
			marker.Error = err.Error()
			progress.UpdateCtx(ctx, progress.Delta{Pending: -1, Failed: 1})
		} else {
			progress.UpdateCtx(ctx, progress.Delta{Pending: -1, Ready: 1})
		}
		r.emit(ctx, marker)
	}
	r.emit(ctx, r.marker(report.KindTaskStarted, task))
	task.Start(append([]execution.Listener{settled}, listeners...)...)
}

// observe waits for task and converts the result into an outcome. A failed
// observation still yields an outcome carrying the error.
func (r *run) observe(ctx context.Context, task *execution.Task) (*model.Outcome, error) {
	value, err := task.Observe(ctx)
	outcome := &model.Outcome{
		TaskID:  task.ID,
		Index:   task.Index,
		Result:  value,
		Elapsed: clock.Since(r.startedAt),
	}
	if err != nil {
		outcome.Error = err.Error()
		outcome.Failure = err
		marker := r.marker(report.KindFailure, task)
		marker.Error = err.Error()
		r.emit(ctx, marker)
		return outcome, err
	}
	progress.UpdateCtx(ctx, progress.Delta{Ready: -1, Observed: 1})
	return outcome, nil
}

func (r *run) elapsed(ctx context.Context) {
	r.emit(ctx, r.marker(report.KindElapsed, nil))
}

func (r *run) result(ctx context.Context, task *execution.Task, outcome *model.Outcome) {
	marker := r.marker(report.KindResult, task)
	marker.Result = outcome.Result
	r.emit(ctx, marker)
}

func (r *run) append(outcome *model.Outcome) {
	r.mu.Lock()
	r.record.Outcomes = append(r.record.Outcomes, outcome)
	r.mu.Unlock()
}

func (r *run) close() {
	r.emitMu.Lock()
	r.closed = true
	r.emitMu.Unlock()
}
