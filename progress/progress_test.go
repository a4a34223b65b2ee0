package progress

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgress_UpdateCtx(t *testing.T) {
	var changes []Progress
	ctx, tracker := WithNewTracker(context.Background(), "run-1", "demo", func(p Progress) {
		changes = append(changes, p)
	})
	UpdateCtx(ctx, Delta{Total: 2, Pending: 2})
	UpdateCtx(ctx, Delta{Pending: -1, Ready: 1})
	UpdateCtx(ctx, Delta{Ready: -1, Observed: 1})

	snapshot, ok := GetSnapshot(ctx)
	require.True(t, ok)
	assert.Equal(t, 2, snapshot.TotalTasks)
	assert.Equal(t, 1, snapshot.PendingTasks)
	assert.Equal(t, 0, snapshot.ReadyTasks)
	assert.Equal(t, 1, snapshot.ObservedTasks)
	assert.Equal(t, "run-1", tracker.RunID)
	assert.Len(t, changes, 3)
	assert.Equal(t, 2, changes[0].PendingTasks)
}

func TestProgress_Concurrent(t *testing.T) {
	tracker := &Progress{}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Update(Delta{Total: 1, Failed: 1})
		}()
	}
	wg.Wait()
	snapshot := tracker.Snapshot()
	assert.Equal(t, 50, snapshot.TotalTasks)
	assert.Equal(t, 50, snapshot.FailedTasks)
}

func TestProgress_NoTracker(t *testing.T) {
	UpdateCtx(context.Background(), Delta{Total: 1})
	_, ok := GetSnapshot(context.Background())
	assert.False(t, ok)
	var nilTracker *Progress
	nilTracker.Update(Delta{Total: 1})
	assert.Equal(t, 0, nilTracker.Snapshot().TotalTasks)
}
