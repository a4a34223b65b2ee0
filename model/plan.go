package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/viant/fluxplan/policy"
)

// TaskDefinition describes one delayed task of a plan.
type TaskDefinition struct {
	ID string `json:"id,omitempty" yaml:"id,omitempty"`
	// Duration is a Go duration ("1.5s", "300ms") or a plain integer number
	// of milliseconds ("3000").
	Duration string      `json:"duration" yaml:"duration"`
	Result   interface{} `json:"result,omitempty" yaml:"result,omitempty"`
	// Error, when not empty, makes the task fail with this message once its
	// duration elapses.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	delay time.Duration
}

// Delay returns the parsed duration. It is only meaningful after the owning
// plan has been validated.
func (d *TaskDefinition) Delay() time.Duration { return d.delay }

// NewTask returns a task definition with the supplied duration and result.
func NewTask(id string, duration time.Duration, result interface{}) *TaskDefinition {
	return &TaskDefinition{ID: id, Duration: duration.String(), Result: result, delay: duration}
}

// WithError marks the task as failing with message once ready.
func (d *TaskDefinition) WithError(message string) *TaskDefinition {
	d.Error = message
	return d
}

// Source describes where a plan definition was loaded from.
type Source struct {
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Plan is an ordered collection of tasks to be run under one policy.
type Plan struct {
	Source *Source           `json:"source,omitempty" yaml:"-"`
	Name   string            `json:"name" yaml:"name"`
	Policy policy.Mode       `json:"policy,omitempty" yaml:"policy,omitempty"`
	Tasks  []*TaskDefinition `json:"tasks" yaml:"tasks"`
}

// NewPlan builds and validates a plan.
func NewPlan(name string, mode policy.Mode, tasks ...*TaskDefinition) (*Plan, error) {
	ret := &Plan{Name: name, Policy: mode, Tasks: tasks}
	if err := ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}

// WithPolicy returns a copy of the plan bound to another policy. Task
// definitions are copied too, so validating the copy never writes to p.
func (p *Plan) WithPolicy(mode policy.Mode) *Plan {
	clone := *p
	clone.Policy = mode
	clone.Tasks = make([]*TaskDefinition, len(p.Tasks))
	for i, task := range p.Tasks {
		if task == nil {
			continue
		}
		definition := *task
		clone.Tasks[i] = &definition
	}
	return &clone
}

// Validate checks plan parameters, assigns missing task ids and parses
// durations. It returns a *ConfigurationError on the first problem found.
// Validating an already valid plan writes nothing, so a validated plan may be
// shared by concurrent runs.
func (p *Plan) Validate() error {
	if p == nil {
		return invalidf("", "", "plan is nil")
	}
	if p.Policy != "" && !p.Policy.IsValid() {
		return invalidf(p.Name, "", "unsupported policy %q", p.Policy)
	}
	if len(p.Tasks) == 0 {
		return invalidf(p.Name, "", "plan has no tasks")
	}
	seen := make(map[string]bool, len(p.Tasks))
	for i, task := range p.Tasks {
		if task == nil {
			return invalidf(p.Name, strconv.Itoa(i), "task definition is nil")
		}
		if task.ID == "" {
			task.ID = fmt.Sprintf("task%d", i+1)
		}
		if seen[task.ID] {
			return invalidf(p.Name, task.ID, "duplicate task id")
		}
		seen[task.ID] = true
		delay, err := parseDuration(task.Duration)
		if err != nil {
			return invalidf(p.Name, task.ID, "%v", err)
		}
		if task.delay != delay {
			task.delay = delay
		}
	}
	return nil
}

// TotalDuration returns the sum of all task durations.
func (p *Plan) TotalDuration() time.Duration {
	var total time.Duration
	for _, task := range p.Tasks {
		total += task.delay
	}
	return total
}

// MaxDuration returns the longest task duration.
func (p *Plan) MaxDuration() time.Duration {
	var longest time.Duration
	for _, task := range p.Tasks {
		if task.delay > longest {
			longest = task.delay
		}
	}
	return longest
}

func parseDuration(text string) (time.Duration, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, fmt.Errorf("duration is missing")
	}
	var (
		delay time.Duration
		err   error
	)
	if ms, convErr := strconv.ParseInt(text, 10, 64); convErr == nil {
		delay = time.Duration(ms) * time.Millisecond
	} else if delay, err = time.ParseDuration(text); err != nil {
		return 0, fmt.Errorf("invalid duration %q", text)
	}
	if delay < 0 {
		return 0, fmt.Errorf("negative duration %s", delay)
	}
	return delay, nil
}
