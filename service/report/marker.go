package report

import (
	"context"
	"time"

	"github.com/viant/fluxplan/policy"
)

// Kind identifies a marker.
type Kind string

const (
	KindPlanStarted   Kind = "planStarted"
	KindTaskStarted   Kind = "taskStarted"
	KindTaskCompleted Kind = "taskCompleted"
	KindElapsed       Kind = "elapsed"
	KindResult        Kind = "result"
	KindFailure       Kind = "failure"
)

// Marker is a single observable event of a plan run.
type Marker struct {
	Kind   Kind        `json:"kind"`
	RunID  string      `json:"runId"`
	Plan   string      `json:"plan"`
	Policy policy.Mode `json:"policy"`
	TaskID string      `json:"taskId,omitempty"`
	Index  int         `json:"index"`
	Result interface{} `json:"result,omitempty"`
	// Seconds holds the rounded whole seconds since plan start.
	Seconds int           `json:"seconds"`
	Elapsed time.Duration `json:"elapsed"`
	Error   string        `json:"error,omitempty"`
	At      time.Time     `json:"at"`
}

// Reporter receives markers. Implementations must be safe for concurrent use:
// completion markers are emitted from timer goroutines.
type Reporter interface {
	Report(ctx context.Context, marker *Marker)
}

// Func adapts a function to Reporter.
type Func func(ctx context.Context, marker *Marker)

func (f Func) Report(ctx context.Context, marker *Marker) { f(ctx, marker) }

// Nop discards every marker.
var Nop Reporter = Func(func(context.Context, *Marker) {})

// Multi fans markers out to every reporter in order.
type Multi []Reporter

func (m Multi) Report(ctx context.Context, marker *Marker) {
	for _, reporter := range m {
		if reporter != nil {
			reporter.Report(ctx, marker)
		}
	}
}
