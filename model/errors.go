package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is the kind of every ConfigurationError.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrTaskFailed is the kind of every TaskFailure.
	ErrTaskFailed = errors.New("task failed")
)

// ConfigurationError reports invalid plan or task parameters. It is raised
// while a plan is constructed or validated, never while it executes.
type ConfigurationError struct {
	Plan   string
	TaskID string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.TaskID != "":
		return fmt.Sprintf("%s: plan %q task %q: %s", ErrInvalidConfiguration, e.Plan, e.TaskID, e.Reason)
	case e.Plan != "":
		return fmt.Sprintf("%s: plan %q: %s", ErrInvalidConfiguration, e.Plan, e.Reason)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidConfiguration, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrInvalidConfiguration }

func invalidf(plan, taskID, format string, args ...any) error {
	return &ConfigurationError{Plan: plan, TaskID: taskID, Reason: fmt.Sprintf(format, args...)}
}

// TaskFailure reports that a task signalled failure instead of producing a result.
type TaskFailure struct {
	TaskID string
	Index  int
	Err    error
}

// NewTaskFailure wraps cause as a failure of the given task.
func NewTaskFailure(taskID string, index int, cause error) *TaskFailure {
	return &TaskFailure{TaskID: taskID, Index: index, Err: cause}
}

func (e *TaskFailure) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("task %s failed", e.TaskID)
	}
	return fmt.Sprintf("task %s failed: %v", e.TaskID, e.Err)
}

func (e *TaskFailure) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTaskFailed}
	}
	return []error{ErrTaskFailed, e.Err}
}
