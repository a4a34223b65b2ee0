package execution

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/fluxplan/internal/clock"
	"github.com/viant/fluxplan/model"
)

type manualTimer struct {
	mu    sync.Mutex
	fired []func()
	delay []time.Duration
}

func (m *manualTimer) Stop() bool { return false }

func (m *manualTimer) install(t *testing.T) {
	prev := clock.AfterFuncFunc
	clock.AfterFuncFunc = func(d time.Duration, f func()) clock.Stopper {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.fired = append(m.fired, f)
		m.delay = append(m.delay, d)
		return m
	}
	t.Cleanup(func() { clock.AfterFuncFunc = prev })
}

func (m *manualTimer) fire(i int) {
	m.mu.Lock()
	f := m.fired[i]
	m.mu.Unlock()
	f()
}

func newTask(t *testing.T, definition *model.TaskDefinition) *Task {
	plan := &model.Plan{Name: "test", Tasks: []*model.TaskDefinition{definition}}
	require.NoError(t, plan.Validate())
	return NewTask(0, definition)
}

func TestTask_ZeroDurationRequiresSuspension(t *testing.T) {
	timer := &manualTimer{}
	timer.install(t)

	task := newTask(t, model.NewTask("zero", 0, "value"))
	require.True(t, task.Start())
	assert.Equal(t, TaskStatePending, task.State())
	select {
	case <-task.Done():
		t.Fatal("zero duration task settled synchronously")
	default:
	}

	timer.fire(0)
	assert.Equal(t, TaskStateReady, task.State())
	value, err := task.Observe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "value", value)
	assert.Equal(t, TaskStateObserved, task.State())
	assert.Equal(t, []time.Duration{0}, timer.delay)
}

func TestTask_ObserveIsIdempotent(t *testing.T) {
	timer := &manualTimer{}
	timer.install(t)

	task := newTask(t, model.NewTask("once", 5*time.Millisecond, "resolved"))
	var notified int
	task.Start(func(*Task) { notified++ })
	assert.False(t, task.Start(), "second start must be a no-op")
	timer.fire(0)

	first, err := task.Observe(context.Background())
	require.NoError(t, err)
	second, err := task.Observe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, notified)
	assert.Len(t, timer.fired, 1, "observing must not restart the timer")
}

func TestTask_ListenerPrecedesObservation(t *testing.T) {
	task := newTask(t, model.NewTask("fast", 5*time.Millisecond, "fast"))
	var mu sync.Mutex
	var events []string
	task.Start(func(*Task) {
		mu.Lock()
		events = append(events, "ready")
		mu.Unlock()
	})
	_, err := task.Observe(context.Background())
	require.NoError(t, err)
	mu.Lock()
	events = append(events, "observed")
	mu.Unlock()
	assert.Equal(t, []string{"ready", "observed"}, events)
}

func TestTask_Failure(t *testing.T) {
	task := newTask(t, model.NewTask("broken", time.Millisecond, nil).WithError("boom"))
	task.Start()
	_, err := task.Observe(context.Background())
	require.Error(t, err)
	var failure *model.TaskFailure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, "broken", failure.TaskID)
	assert.Equal(t, TaskStateFailed, task.State())
	assert.Equal(t, err, task.Err())
}

func TestTask_ObserveBeforeStart(t *testing.T) {
	task := newTask(t, model.NewTask("idle", time.Millisecond, nil))
	_, err := task.Observe(context.Background())
	assert.True(t, errors.Is(err, ErrNotStarted))
}

func TestTask_ObserveHonoursContext(t *testing.T) {
	timer := &manualTimer{}
	timer.install(t)

	task := newTask(t, model.NewTask("slow", time.Hour, "late"))
	task.Start()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := task.Observe(ctx)
	assert.True(t, errors.Is(err, context.Canceled))

	timer.fire(0)
	value, err := task.Observe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "late", value)
}

func TestTask_Peek(t *testing.T) {
	timer := &manualTimer{}
	timer.install(t)

	task := newTask(t, model.NewTask("peek", time.Millisecond, 42))
	var peeked interface{}
	task.Start(func(task *Task) {
		peeked, _, _ = task.Peek()
	})
	_, settled, _ := task.Peek()
	assert.False(t, settled)
	timer.fire(0)
	assert.Equal(t, 42, peeked)
	assert.Equal(t, TaskStateReady, task.State(), "peek must not mark the task observed")
}
