package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/fluxplan/model"
	"github.com/viant/fluxplan/policy"
	"github.com/viant/fluxplan/service/dao"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	baseDir := filepath.Join(t.TempDir(), "runs")
	srv, err := New(baseDir)
	require.NoError(t, err)

	started := time.Now().UTC().Truncate(time.Millisecond)
	run := &model.Run{
		ID:        "r1",
		Plan:      "demo",
		Policy:    policy.IndependentObservers,
		State:     model.RunStateCompleted,
		StartedAt: started,
		Outcomes:  []*model.Outcome{{TaskID: "a", Index: 0, Result: "A", Elapsed: 2 * time.Second}},
	}
	require.NoError(t, srv.Save(ctx, run))
	require.NoError(t, srv.Save(ctx, &model.Run{ID: "r2", Plan: "other", State: model.RunStateFailed, StartedAt: started.Add(time.Second)}))
	_, err = os.Stat(filepath.Join(baseDir, "r1.json"))
	require.NoError(t, err)

	loaded, err := srv.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, run.Plan, loaded.Plan)
	assert.Equal(t, run.Policy, loaded.Policy)
	assert.True(t, run.StartedAt.Equal(loaded.StartedAt))
	require.Len(t, loaded.Outcomes, 1)
	assert.Equal(t, "A", loaded.Outcomes[0].Result)
	assert.Equal(t, 2*time.Second, loaded.Outcomes[0].Elapsed)

	_, err = srv.Load(ctx, "missing")
	assert.ErrorIs(t, err, dao.ErrNotFound)

	runs, err := srv.List(ctx, dao.NewParameter(dao.ParamPlan, "demo"))
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "r1", runs[0].ID)

	require.NoError(t, srv.Delete(ctx, "r1"))
	assert.ErrorIs(t, srv.Delete(ctx, "r1"), dao.ErrNotFound)

	_, err = New("")
	assert.Error(t, err)
}
