package event

import (
	"context"
	"errors"
	"log"
	"sync"
)

// Listener drains a publisher on a single background goroutine and hands
// every event to each registered handler, in registration order.
type Listener[T any] struct {
	publisher *Publisher[T]

	mu       sync.Mutex
	handlers []handlerEntry[T]
	seq      int
	cancel   context.CancelFunc
	done     chan struct{}
}

type handlerEntry[T any] struct {
	id      int
	handler func(*Event[T])
}

func NewListener[T any](publisher *Publisher[T], handlers ...func(*Event[T])) *Listener[T] {
	ret := &Listener[T]{publisher: publisher}
	for _, handler := range handlers {
		ret.Add(handler)
	}
	return ret
}

// Add registers handler and returns a function removing it. An event already
// being dispatched when remove is called may still reach handler.
func (l *Listener[T]) Add(handler func(*Event[T])) (remove func()) {
	l.mu.Lock()
	id := l.seq
	l.seq++
	l.handlers = append(l.handlers, handlerEntry[T]{id: id, handler: handler})
	l.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			for i, entry := range l.handlers {
				if entry.id == id {
					l.handlers = append(l.handlers[:i:i], l.handlers[i+1:]...)
					return
				}
			}
		})
	}
}

// Handlers returns the number of registered handlers.
func (l *Listener[T]) Handlers() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.handlers)
}

// Stop cancels the listener and waits for its goroutine to exit.
func (l *Listener[T]) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel = nil
	l.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Start launches the dispatch goroutine; calling it on a running listener is
// a no-op. Events consumed while no handler is registered are dropped.
func (l *Listener[T]) Start(ctx context.Context) {
	l.mu.Lock()
	if l.cancel != nil {
		l.mu.Unlock()
		return
	}
	ctx, l.cancel = context.WithCancel(ctx)
	done := make(chan struct{})
	l.done = done
	l.mu.Unlock()
	go func() {
		defer close(done)
		for {
			event, err := l.publisher.Consume(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return
				}
				log.Printf("error consuming event: %v", err)
				continue
			}
			if event != nil {
				l.dispatch(event)
			}
		}
	}()
}

func (l *Listener[T]) dispatch(event *Event[T]) {
	l.mu.Lock()
	handlers := make([]func(*Event[T]), len(l.handlers))
	for i, entry := range l.handlers {
		handlers[i] = entry.handler
	}
	l.mu.Unlock()
	for _, handler := range handlers {
		handler(event)
	}
}
