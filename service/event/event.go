package event

import (
	"time"

	"github.com/viant/fluxplan/internal/clock"
)

// Context identifies where an event originated.
type Context struct {
	RunID     string `json:"runID"`
	Plan      string `json:"plan"`
	Policy    string `json:"policy"`
	TaskID    string `json:"taskID,omitempty"`
	EventType string `json:"eventType"`
	ElapsedMs int    `json:"elapsedMs"`
}

type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Data      T                      `json:"data"`
}

func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: clock.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
