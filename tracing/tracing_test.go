package tracing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/fluxplan/service/report"
)

func TestTracingFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "span_test.txt")
	require.NoError(t, Init("fluxplan", "0.0.1", fname))

	ctx, span := StartSpan(context.Background(), "orchestrator.run demo")
	span.WithAttributes(map[string]string{"plan.name": "demo"})
	Reporter{}.Report(ctx, &report.Marker{Kind: report.KindResult, RunID: "r1", TaskID: "fast", Result: "ok"})
	EndSpan(span, nil)

	data, err := os.ReadFile(fname)
	require.NoError(t, err)
	assert.Contains(t, string(data), "orchestrator.run demo")
	assert.Contains(t, string(data), "task.id")
}

func TestSpan_NilSafe(t *testing.T) {
	var span *Span
	assert.Nil(t, span.WithAttributes(map[string]string{"k": "v"}))
	span.AddEvent("noop", nil)
	span.SetStatus(errors.New("ignored"))
	EndSpan(nil, nil)
}
