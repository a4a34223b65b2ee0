package execution

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/viant/fluxplan/internal/clock"
	"github.com/viant/fluxplan/model"
)

// ErrNotStarted is returned when a task is observed before it was started.
var ErrNotStarted = errors.New("task not started")

// Listener is notified once a task settles, before any observer receives
// its result.
type Listener func(task *Task)

// Task is a delayed task owned by a single plan execution.
type Task struct {
	ID       string
	Index    int
	Duration time.Duration

	result  interface{}
	failure error

	mu        sync.Mutex
	state     TaskState
	started   bool
	startedAt time.Time
	settledAt time.Time
	value     interface{}
	err       error
	listeners []Listener
	done      chan struct{}
}

// NewTask creates a pending task from a validated definition.
func NewTask(index int, definition *model.TaskDefinition) *Task {
	ret := &Task{
		ID:       definition.ID,
		Index:    index,
		Duration: definition.Delay(),
		result:   definition.Result,
		state:    TaskStatePending,
		done:     make(chan struct{}),
	}
	if definition.Error != "" {
		ret.failure = errors.New(definition.Error)
	}
	return ret
}

// NewTasks creates one task per plan definition, preserving declaration order.
func NewTasks(plan *model.Plan) []*Task {
	ret := make([]*Task, len(plan.Tasks))
	for i, definition := range plan.Tasks {
		ret[i] = NewTask(i, definition)
	}
	return ret
}

// Start begins the task timer and returns immediately. Listeners are called
// once the task settles. Start returns false if the task was already started.
//
// The task never settles inside Start, even with a zero duration: settlement
// always happens on the timer.
func (t *Task) Start(listeners ...Listener) bool {
	t.mu.Lock()
	if t.started {
		t.mu.Unlock()
		return false
	}
	t.started = true
	t.startedAt = clock.Now()
	t.listeners = append(t.listeners, listeners...)
	clock.AfterFunc(t.Duration, t.settle)
	t.mu.Unlock()
	return true
}

func (t *Task) settle() {
	t.mu.Lock()
	if t.state != TaskStatePending {
		t.mu.Unlock()
		return
	}
	t.settledAt = clock.Now()
	if t.failure != nil {
		t.err = model.NewTaskFailure(t.ID, t.Index, t.failure)
		t.state = TaskStateFailed
	} else {
		t.value = t.result
		t.state = TaskStateReady
	}
	listeners := t.listeners
	t.mu.Unlock()

	for _, listener := range listeners {
		listener(t)
	}
	close(t.done)
}

// Observe blocks until the task settles or ctx is done, then returns its
// result. Observing a settled task again returns the same value without
// restarting it. Cancelling ctx aborts the wait only; the task keeps running.
func (t *Task) Observe(ctx context.Context) (interface{}, error) {
	t.mu.Lock()
	started := t.started
	t.mu.Unlock()
	if !started {
		return nil, fmt.Errorf("%w: %s", ErrNotStarted, t.ID)
	}
	select {
	case <-t.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return nil, t.err
	}
	t.state = TaskStateObserved
	return t.value, nil
}

// Peek returns the settled value without blocking or changing the task
// state. settled is false while the task is pending.
func (t *Task) Peek() (value interface{}, settled bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == TaskStatePending {
		return nil, false, nil
	}
	return t.value, true, t.err
}

// Done is closed once the task has settled and its listeners returned.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// State returns the current task state.
func (t *Task) State() TaskState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Err returns the failure of a settled task, or nil.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// StartedAt returns the instant the timer began; zero until started.
func (t *Task) StartedAt() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.startedAt
}

// SettledAt returns the instant the task became ready or failed; zero until then.
func (t *Task) SettledAt() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.settledAt
}
