package correlation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroup_CompletesInIndexOrder(t *testing.T) {
	g := NewGroup("g1", 2)
	assert.False(t, g.MarkDone(1, "fast", nil))
	assert.Equal(t, 1, g.Pending())
	assert.True(t, g.MarkDone(0, "slow", nil))

	select {
	case <-g.Done():
	default:
		t.Fatal("group should be done")
	}
	assert.Equal(t, []interface{}{"slow", "fast"}, g.Outputs())
	index, err := g.Failure()
	assert.NoError(t, err)
	assert.Equal(t, -1, index)
}

func TestGroup_FirstFailureWins(t *testing.T) {
	g := NewGroup("g2", 3)
	first := errors.New("first")
	assert.False(t, g.MarkDone(0, "ok", nil))
	assert.True(t, g.MarkDone(2, nil, first))
	assert.False(t, g.MarkDone(1, nil, errors.New("second")))

	index, err := g.Failure()
	assert.Equal(t, first, err)
	assert.Equal(t, 2, index)
	assert.NotNil(t, g.DoneAt)
}

func TestGroup_Empty(t *testing.T) {
	g := NewGroup("g3", 0)
	select {
	case <-g.Done():
	default:
		t.Fatal("empty group should be done")
	}
}
