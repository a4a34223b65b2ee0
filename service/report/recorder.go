package report

import (
	"context"
	"sync"
)

// Recorder keeps every marker in memory.
type Recorder struct {
	mu      sync.Mutex
	markers []*Marker
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Report(_ context.Context, marker *Marker) {
	copied := *marker
	r.mu.Lock()
	r.markers = append(r.markers, &copied)
	r.mu.Unlock()
}

// Markers returns the recorded markers in emission order.
func (r *Recorder) Markers() []*Marker {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Marker(nil), r.markers...)
}

// Of returns the recorded markers of the given kind.
func (r *Recorder) Of(kind Kind) []*Marker {
	var ret []*Marker
	for _, marker := range r.Markers() {
		if marker.Kind == kind {
			ret = append(ret, marker)
		}
	}
	return ret
}

// Sequence renders every marker as "kind:taskID" (or just "kind" when the
// marker has no task).
func (r *Recorder) Sequence() []string {
	markers := r.Markers()
	ret := make([]string, 0, len(markers))
	for _, marker := range markers {
		entry := string(marker.Kind)
		if marker.TaskID != "" {
			entry += ":" + marker.TaskID
		}
		ret = append(ret, entry)
	}
	return ret
}
