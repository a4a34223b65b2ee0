package execution

// TaskState represents the current state of a delayed task
type TaskState string

const (
	TaskStatePending  TaskState = "pending"
	TaskStateReady    TaskState = "ready"
	TaskStateFailed   TaskState = "failed"
	TaskStateObserved TaskState = "observed"
)

// IsSettled reports whether the task has produced a result or a failure.
func (t TaskState) IsSettled() bool {
	return t != TaskStatePending
}
