package correlation

import (
	"sync"
	"time"

	"github.com/viant/fluxplan/internal/clock"
)

// Group represents a rendez-vous for a fixed set of tasks. Outputs are kept
// at the index each task was declared with. The group completes once every
// member reported success, or as soon as the first member reports failure.
type Group struct {
	ID       string
	Expected int

	mu        sync.Mutex
	completed int
	outputs   []interface{}
	failure   error
	failedAt  int
	DoneAt    *time.Time
	done      chan struct{}
}

// NewGroup creates a group expecting the given number of members.
func NewGroup(id string, expected int) *Group {
	ret := &Group{
		ID:       id,
		Expected: expected,
		outputs:  make([]interface{}, expected),
		failedAt: -1,
		done:     make(chan struct{}),
	}
	if expected == 0 {
		ret.finish()
	}
	return ret
}

// MarkDone registers the settlement of the member at index and returns true
// when this call completed the group. Reports arriving after completion are
// ignored.
func (g *Group) MarkDone(index int, output interface{}, err error) (groupComplete bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.DoneAt != nil {
		return false
	}
	g.completed++
	if err != nil {
		g.failure = err
		g.failedAt = index
		g.finish()
		return true
	}
	if index >= 0 && index < len(g.outputs) {
		g.outputs[index] = output
	}
	if g.completed >= g.Expected {
		g.finish()
		return true
	}
	return false
}

func (g *Group) finish() {
	now := clock.Now()
	g.DoneAt = &now
	close(g.done)
}

// Done is closed once the group completed.
func (g *Group) Done() <-chan struct{} {
	return g.done
}

// Failure returns the index of the first failed member and its error, or (-1, nil).
func (g *Group) Failure() (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.failedAt, g.failure
}

// Outputs returns a copy of the collected outputs in declaration order.
func (g *Group) Outputs() []interface{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]interface{}(nil), g.outputs...)
}

// Pending returns how many members have not reported yet.
func (g *Group) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Expected - g.completed
}
