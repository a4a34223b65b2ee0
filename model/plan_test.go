package model

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/fluxplan/policy"
)

func TestPlan_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		plan      *Plan
		expectErr string
		expectIDs []string
		expectMax time.Duration
	}{
		{
			name: "valid",
			plan: &Plan{Name: "demo", Policy: policy.JointAll, Tasks: []*TaskDefinition{
				{ID: "slow", Duration: "3s"},
				{ID: "fast", Duration: "1000"},
			}},
			expectIDs: []string{"slow", "fast"},
			expectMax: 3 * time.Second,
		},
		{
			name: "ids assigned",
			plan: &Plan{Name: "demo", Tasks: []*TaskDefinition{
				{Duration: "10ms"},
				{Duration: "0"},
			}},
			expectIDs: []string{"task1", "task2"},
			expectMax: 10 * time.Millisecond,
		},
		{
			name:      "negative duration",
			plan:      &Plan{Name: "demo", Tasks: []*TaskDefinition{{ID: "a", Duration: "-1s"}}},
			expectErr: `invalid configuration: plan "demo" task "a": negative duration -1s`,
		},
		{
			name:      "missing duration",
			plan:      &Plan{Name: "demo", Tasks: []*TaskDefinition{{ID: "a"}}},
			expectErr: `invalid configuration: plan "demo" task "a": duration is missing`,
		},
		{
			name:      "malformed duration",
			plan:      &Plan{Name: "demo", Tasks: []*TaskDefinition{{ID: "a", Duration: "soon"}}},
			expectErr: `invalid configuration: plan "demo" task "a": invalid duration "soon"`,
		},
		{
			name: "duplicate id",
			plan: &Plan{Name: "demo", Tasks: []*TaskDefinition{
				{ID: "a", Duration: "1s"},
				{ID: "a", Duration: "2s"},
			}},
			expectErr: `invalid configuration: plan "demo" task "a": duplicate task id`,
		},
		{
			name:      "empty",
			plan:      &Plan{Name: "demo"},
			expectErr: `invalid configuration: plan "demo": plan has no tasks`,
		},
		{
			name:      "bad policy",
			plan:      &Plan{Name: "demo", Policy: "race", Tasks: []*TaskDefinition{{ID: "a", Duration: "1s"}}},
			expectErr: `invalid configuration: plan "demo": unsupported policy "race"`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.plan.Validate()
			if tc.expectErr != "" {
				require.Error(t, err)
				assert.EqualError(t, err, tc.expectErr)
				assert.True(t, errors.Is(err, ErrInvalidConfiguration))
				var cfgErr *ConfigurationError
				assert.True(t, errors.As(err, &cfgErr))
				return
			}
			require.NoError(t, err)
			var ids []string
			for _, task := range tc.plan.Tasks {
				ids = append(ids, task.ID)
			}
			assert.Equal(t, tc.expectIDs, ids)
			assert.Equal(t, tc.expectMax, tc.plan.MaxDuration())
		})
	}
}

func TestNewPlan(t *testing.T) {
	plan, err := NewPlan("demo", policy.Sequential,
		NewTask("slow", 3*time.Second, "resolved value: Slow"),
		NewTask("fast", time.Second, "resolved value: Fast"),
	)
	require.NoError(t, err)
	assert.Equal(t, 4*time.Second, plan.TotalDuration())
	assert.Equal(t, 3*time.Second, plan.MaxDuration())

	joint := plan.WithPolicy(policy.JointAll)
	assert.Equal(t, policy.JointAll, joint.Policy)
	assert.Equal(t, policy.Sequential, plan.Policy)

	_, err = NewPlan("demo", policy.Sequential, NewTask("neg", -time.Millisecond, nil))
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))
}

func TestTaskFailure(t *testing.T) {
	cause := errors.New("boom")
	err := error(NewTaskFailure("fast", 1, cause))
	assert.EqualError(t, err, "task fast failed: boom")
	assert.True(t, errors.Is(err, ErrTaskFailed))
	assert.True(t, errors.Is(err, cause))
	var failure *TaskFailure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, "fast", failure.TaskID)
}

func TestRun_Complete(t *testing.T) {
	plan, err := NewPlan("demo", policy.JointAll, NewTask("a", time.Millisecond, 1))
	require.NoError(t, err)
	started := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	run := NewRun("r1", plan, started)
	run.Outcomes = append(run.Outcomes, &Outcome{TaskID: "a", Result: 1})
	clone := run.Clone()
	run.Complete(started.Add(time.Second), errors.New("stopped"))
	assert.Equal(t, RunStateFailed, run.State)
	assert.Equal(t, "stopped", run.Error)
	assert.Equal(t, RunStateRunning, clone.State)
	assert.Nil(t, clone.CompletedAt)
	assert.Equal(t, []string{"a"}, run.TaskIDs())
	assert.Equal(t, []interface{}{1}, run.Results())
}

func TestPlan_WithPolicy(t *testing.T) {
	original := &Plan{Name: "manual", Policy: policy.Sequential, Tasks: []*TaskDefinition{
		{Duration: "30ms", Result: "a"},
		{Duration: "10ms", Result: "b"},
	}}

	var wg sync.WaitGroup
	copies := make([]*Plan, 4)
	for i := range copies {
		copies[i] = original.WithPolicy(policy.JointAll)
		wg.Add(1)
		go func(aPlan *Plan) {
			defer wg.Done()
			assert.NoError(t, aPlan.Validate())
		}(copies[i])
	}
	wg.Wait()

	assert.Equal(t, policy.Sequential, original.Policy)
	assert.Empty(t, original.Tasks[0].ID)
	assert.Zero(t, original.Tasks[0].Delay())
	for _, aPlan := range copies {
		assert.Equal(t, policy.JointAll, aPlan.Policy)
		assert.Equal(t, "task1", aPlan.Tasks[0].ID)
		assert.Equal(t, 30*time.Millisecond, aPlan.Tasks[0].Delay())
		assert.NotSame(t, original.Tasks[0], aPlan.Tasks[0])
	}
}
