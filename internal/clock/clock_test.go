package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestElapsedSeconds(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	testCases := []struct {
		name    string
		elapsed time.Duration
		expect  int
	}{
		{name: "zero", elapsed: 0, expect: 0},
		{name: "below half", elapsed: 499 * time.Millisecond, expect: 0},
		{name: "half rounds up", elapsed: 500 * time.Millisecond, expect: 1},
		{name: "slow", elapsed: 3004 * time.Millisecond, expect: 3},
		{name: "sequential", elapsed: 4010 * time.Millisecond, expect: 4},
		{name: "just under", elapsed: 2999 * time.Millisecond, expect: 3},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, ElapsedSeconds(start, start.Add(tc.elapsed)))
		})
	}
}

func TestSince(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	prev := NowFunc
	defer func() { NowFunc = prev }()
	NowFunc = func() time.Time { return start.Add(1500 * time.Millisecond) }
	assert.Equal(t, 1500*time.Millisecond, Since(start))
}
