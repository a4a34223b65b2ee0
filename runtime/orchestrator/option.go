package orchestrator

import (
	"github.com/viant/fluxplan/progress"
	"github.com/viant/fluxplan/service/report"
)

type Option func(o *Orchestrator)

// WithReporter sets the reporters receiving run markers. Multiple reporters
// are called in order.
func WithReporter(reporters ...report.Reporter) Option {
	return func(o *Orchestrator) {
		switch len(reporters) {
		case 0:
			o.reporter = report.Nop
		case 1:
			o.reporter = reporters[0]
		default:
			o.reporter = report.Multi(reporters)
		}
	}
}

// WithProgressListener registers a callback invoked after every counter change of a run.
func WithProgressListener(fn func(progress.Progress)) Option {
	return func(o *Orchestrator) {
		o.onProgress = fn
	}
}
