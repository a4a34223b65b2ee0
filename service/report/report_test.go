package report

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/fluxplan/policy"
	"github.com/viant/fluxplan/service/event"
	"github.com/viant/fluxplan/service/messaging/memory"
)

func TestText(t *testing.T) {
	testCases := []struct {
		name   string
		marker *Marker
		expect string
	}{
		{name: "start", marker: &Marker{Kind: KindPlanStarted, Plan: "demo", Policy: policy.Sequential}, expect: "==demo (sequential)==\nExecution Started. Elapsed Time = 0\n"},
		{name: "task start", marker: &Marker{Kind: KindTaskStarted, TaskID: "slow"}, expect: "starting slow\n"},
		{name: "done", marker: &Marker{Kind: KindTaskCompleted, TaskID: "slow"}, expect: "slow is done\n"},
		{name: "failed", marker: &Marker{Kind: KindTaskCompleted, TaskID: "slow", Error: "boom"}, expect: "slow failed\n"},
		{name: "elapsed", marker: &Marker{Kind: KindElapsed, Seconds: 3}, expect: "Elapsed Time: 3 seconds\n"},
		{name: "result", marker: &Marker{Kind: KindResult, Result: "resolved value: Slow"}, expect: "resolved value: Slow\n"},
		{name: "failure", marker: &Marker{Kind: KindFailure, Error: "task slow failed: boom"}, expect: "error: task slow failed: boom\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, Text(tc.marker))
		})
	}
}

func TestPrinter_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	printer := NewPrinter(buf, FormatJSON)
	printer.Report(context.Background(), &Marker{Kind: KindResult, TaskID: "fast", Result: "ok"})
	var decoded Marker
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, KindResult, decoded.Kind)
	assert.Equal(t, "fast", decoded.TaskID)
}

func TestRecorderAndMulti(t *testing.T) {
	first, second := NewRecorder(), NewRecorder()
	reporter := Multi{first, nil, second}
	reporter.Report(context.Background(), &Marker{Kind: KindPlanStarted})
	reporter.Report(context.Background(), &Marker{Kind: KindTaskStarted, TaskID: "a"})
	assert.Equal(t, []string{"planStarted", "taskStarted:a"}, first.Sequence())
	assert.Equal(t, first.Sequence(), second.Sequence())
	assert.Len(t, first.Of(KindTaskStarted), 1)
}

func TestPublisher(t *testing.T) {
	queue := memory.NewQueue[event.Event[Marker]](memory.DefaultConfig())
	publisher := event.NewPublisher[Marker](queue)
	NewPublisher(publisher, 0).Report(context.Background(), &Marker{Kind: KindElapsed, RunID: "r1", Seconds: 1})

	received, err := publisher.Consume(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "elapsed", received.Context.EventType)
	assert.Equal(t, 1, received.Data.Seconds)
}

func TestPublisher_FullQueue(t *testing.T) {
	queue := memory.NewQueue[event.Event[Marker]](memory.Config{QueueBuffer: 1})
	publisher := NewPublisher(event.NewPublisher[Marker](queue), 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 5; i++ {
			publisher.Report(context.Background(), &Marker{Kind: KindTaskStarted, RunID: "r1", Index: i})
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Report blocked on a full queue")
	}
	assert.Equal(t, 1, queue.Size())
}
