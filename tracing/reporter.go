package tracing

import (
	"context"
	"fmt"
	"strconv"

	"github.com/viant/fluxplan/service/report"
)

// Reporter attaches every marker to the span carried by the marker's context.
type Reporter struct{}

func (Reporter) Report(ctx context.Context, marker *report.Marker) {
	attrs := map[string]string{
		"run.id":  marker.RunID,
		"seconds": strconv.Itoa(marker.Seconds),
	}
	if marker.TaskID != "" {
		attrs["task.id"] = marker.TaskID
	}
	if marker.Result != nil {
		attrs["result"] = fmt.Sprint(marker.Result)
	}
	if marker.Error != "" {
		attrs["error"] = marker.Error
	}
	SpanFromContext(ctx).AddEvent(string(marker.Kind), attrs)
}
