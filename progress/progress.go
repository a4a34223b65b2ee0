// Package progress keeps aggregated task counters (total, pending, ready,
// observed, failed) for a single plan run. The tracker lives in the run
// context so every component that receives the context can update it via
// UpdateCtx without requiring a global registry.

package progress

import (
	"context"
	"sync"
	"time"

	"github.com/viant/fluxplan/internal/clock"
)

// Delta represents an incremental counter change. The fields are signed and
// therefore can be either positive (increment) or negative (decrement).
type Delta struct {
	Total    int
	Pending  int
	Ready    int
	Observed int
	Failed   int
}

// Progress keeps aggregated task counters for one run. It is safe for
// concurrent use.
type Progress struct {
	RunID     string
	Plan      string
	StartedAt time.Time

	TotalTasks    int
	PendingTasks  int
	ReadyTasks    int
	ObservedTasks int
	FailedTasks   int

	sync.Mutex
	onChange func(Progress)
}

// Update applies the supplied delta. If an onChange callback has been
// registered it is invoked with a copy of the tracker outside the critical
// section.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.Lock()
	p.TotalTasks += d.Total
	p.PendingTasks += d.Pending
	p.ReadyTasks += d.Ready
	p.ObservedTasks += d.Observed
	p.FailedTasks += d.Failed
	snapshot := p.copyLocked()
	cb := p.onChange
	p.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the tracker suitable for read-only inspection.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.Lock()
	defer p.Unlock()
	return p.copyLocked()
}

func (p *Progress) copyLocked() Progress {
	return Progress{
		RunID:         p.RunID,
		Plan:          p.Plan,
		StartedAt:     p.StartedAt,
		TotalTasks:    p.TotalTasks,
		PendingTasks:  p.PendingTasks,
		ReadyTasks:    p.ReadyTasks,
		ObservedTasks: p.ObservedTasks,
		FailedTasks:   p.FailedTasks,
	}
}

// OnChange registers a callback invoked after every Update. Passing nil
// disables it.
func (p *Progress) OnChange(cb func(Progress)) {
	if p == nil {
		return
	}
	p.Lock()
	p.onChange = cb
	p.Unlock()
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker creates a tracker, embeds it in a derived context and
// returns both.
func WithNewTracker(ctx context.Context, runID, plan string, onChange func(Progress)) (context.Context, *Progress) {
	if ctx == nil {
		ctx = context.Background()
	}
	tr := &Progress{
		RunID:     runID,
		Plan:      plan,
		StartedAt: clock.Now(),
		onChange:  onChange,
	}
	return context.WithValue(ctx, trackerKey, tr), tr
}

// FromContext extracts the tracker from ctx.
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Progress)
	return tr, ok
}

// GetSnapshot combines FromContext and Snapshot.
func GetSnapshot(ctx context.Context) (Progress, bool) {
	if tr, ok := FromContext(ctx); ok {
		return tr.Snapshot(), true
	}
	return Progress{}, false
}

// UpdateCtx looks up the tracker in ctx (if any) and applies the delta.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}
