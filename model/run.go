package model

import (
	"time"

	"github.com/viant/fluxplan/policy"
)

// RunState represents the lifecycle of a plan execution.
type RunState string

const (
	RunStateRunning   RunState = "running"
	RunStateCompleted RunState = "completed"
	RunStateFailed    RunState = "failed"
)

// Run is the record of one plan execution.
type Run struct {
	ID          string      `json:"id"`
	Plan        string      `json:"plan"`
	Policy      policy.Mode `json:"policy"`
	State       RunState    `json:"state"`
	StartedAt   time.Time   `json:"startedAt"`
	CompletedAt *time.Time  `json:"completedAt,omitempty"`
	Outcomes    []*Outcome  `json:"outcomes,omitempty"`
	Error       string      `json:"error,omitempty"`
}

// Outcome is the observed result of a single task.
type Outcome struct {
	TaskID string      `json:"taskId"`
	Index  int         `json:"index"`
	Result interface{} `json:"result,omitempty"`
	// Elapsed is measured from the plan start reading to the observation.
	Elapsed time.Duration `json:"elapsed"`
	Error   string        `json:"error,omitempty"`
	Failure error         `json:"-"`
}

// NewRun creates a running record for plan started at startedAt.
func NewRun(id string, plan *Plan, startedAt time.Time) *Run {
	return &Run{
		ID:        id,
		Plan:      plan.Name,
		Policy:    plan.Policy,
		State:     RunStateRunning,
		StartedAt: startedAt,
	}
}

// Complete finalises the run; a non-nil err marks it failed.
func (r *Run) Complete(at time.Time, err error) {
	r.CompletedAt = &at
	if err != nil {
		r.State = RunStateFailed
		r.Error = err.Error()
		return
	}
	r.State = RunStateCompleted
}

// Results returns the outcome results in the run's reporting order.
func (r *Run) Results() []interface{} {
	ret := make([]interface{}, 0, len(r.Outcomes))
	for _, outcome := range r.Outcomes {
		ret = append(ret, outcome.Result)
	}
	return ret
}

// TaskIDs returns the outcome task ids in the run's reporting order.
func (r *Run) TaskIDs() []string {
	ret := make([]string, 0, len(r.Outcomes))
	for _, outcome := range r.Outcomes {
		ret = append(ret, outcome.TaskID)
	}
	return ret
}

// Clone returns a copy safe to mutate; outcome results are shared.
func (r *Run) Clone() *Run {
	if r == nil {
		return nil
	}
	clone := *r
	if r.CompletedAt != nil {
		at := *r.CompletedAt
		clone.CompletedAt = &at
	}
	if r.Outcomes != nil {
		clone.Outcomes = make([]*Outcome, len(r.Outcomes))
		for i, outcome := range r.Outcomes {
			copied := *outcome
			clone.Outcomes[i] = &copied
		}
	}
	return &clone
}
