package report

import (
	"context"
	"log"
	"time"

	"github.com/viant/fluxplan/service/event"
)

// DefaultPublishTimeout bounds how long Report waits for room on a full queue.
const DefaultPublishTimeout = 100 * time.Millisecond

// Publisher forwards markers as events on a queue. A marker that cannot be
// queued within the timeout is dropped and logged; the run is never held up.
type Publisher struct {
	publisher *event.Publisher[Marker]
	timeout   time.Duration
}

// NewPublisher creates a publisher; a non positive timeout selects
// DefaultPublishTimeout.
func NewPublisher(publisher *event.Publisher[Marker], timeout time.Duration) *Publisher {
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	return &Publisher{publisher: publisher, timeout: timeout}
}

func (p *Publisher) Report(ctx context.Context, marker *Marker) {
	eCtx := &event.Context{
		RunID:     marker.RunID,
		Plan:      marker.Plan,
		Policy:    string(marker.Policy),
		TaskID:    marker.TaskID,
		EventType: string(marker.Kind),
		ElapsedMs: int(marker.Elapsed.Milliseconds()),
	}
	pCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()
	if err := p.publisher.Publish(pCtx, event.NewEvent(eCtx, *marker)); err != nil {
		log.Printf("dropped %s marker for run %s: %v", marker.Kind, marker.RunID, err)
	}
}
