package processor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/viant/fluxplan/internal/idgen"
	"github.com/viant/fluxplan/model"
	"github.com/viant/fluxplan/service/messaging"
	"github.com/viant/fluxplan/tracing"
)

// ErrShutdown is returned to waiters whose request was not processed before Shutdown.
var ErrShutdown = errors.New("processor: shut down")

// Config represents processor configuration
type Config struct {
	// WorkerCount is the number of workers running plans
	WorkerCount int
}

// DefaultConfig returns the default processor configuration
func DefaultConfig() Config {
	return Config{WorkerCount: 5}
}

// Runner executes one plan.
type Runner interface {
	Run(ctx context.Context, plan *model.Plan) (*model.Run, error)
}

// Request is a queued plan execution.
type Request struct {
	ID   string      `json:"id"`
	Plan *model.Plan `json:"plan"`
}

// Wait blocks until the submitted plan finished or ctx is done.
type Wait func(ctx context.Context) (*model.Run, error)

type result struct {
	run *model.Run
	err error
}

// Service runs queued plans on a fixed set of workers
type Service struct {
	config Config
	queue  messaging.Queue[Request]
	runner Runner

	mu      sync.Mutex
	pending map[string]chan result

	workers    []*worker
	workerWg   sync.WaitGroup
	shutdownCh chan struct{}
	stopOnce   sync.Once
}

type worker struct {
	id       int
	service  *Service
	ctx      context.Context
	cancelFn context.CancelFunc
}

// New creates a processor service
func New(options ...Option) (*Service, error) {
	s := &Service{
		config:     DefaultConfig(),
		pending:    map[string]chan result{},
		shutdownCh: make(chan struct{}),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.queue == nil {
		return nil, fmt.Errorf("message queue is required")
	}
	if s.runner == nil {
		return nil, fmt.Errorf("runner is required")
	}
	if s.config.WorkerCount <= 0 {
		return nil, fmt.Errorf("worker count must be > 0")
	}
	return s, nil
}

// Start launches the workers; they stop on Shutdown or when ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	for i := 0; i < s.config.WorkerCount; i++ {
		workerCtx, cancel := context.WithCancel(ctx)
		w := &worker{
			id:       i,
			service:  s,
			ctx:      workerCtx,
			cancelFn: cancel,
		}
		s.workers = append(s.workers, w)
		s.workerWg.Add(1)
		go w.run()
	}
	return nil
}

// Submit queues plan for execution and returns a function waiting for its run.
func (s *Service) Submit(ctx context.Context, plan *model.Plan) (Wait, error) {
	if plan == nil {
		return nil, &model.ConfigurationError{Reason: "plan is nil"}
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	request := &Request{ID: idgen.New(), Plan: plan}
	done := make(chan result, 1)
	s.mu.Lock()
	s.pending[request.ID] = done
	s.mu.Unlock()

	if err := s.queue.Publish(ctx, request); err != nil {
		s.forget(request.ID)
		return nil, fmt.Errorf("failed to submit plan %s: %w", plan.Name, err)
	}
	return func(ctx context.Context) (*model.Run, error) {
		select {
		case r := <-done:
			return r.run, r.err
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-s.shutdownCh:
			return nil, ErrShutdown
		}
	}, nil
}

// Pending returns the number of submitted plans that have not finished.
func (s *Service) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Shutdown stops all workers and waits for in-flight runs to return.
func (s *Service) Shutdown() {
	s.stopOnce.Do(func() {
		close(s.shutdownCh)
		for _, w := range s.workers {
			w.cancelFn()
		}
	})
	s.workerWg.Wait()
}

func (s *Service) forget(id string) chan result {
	s.mu.Lock()
	defer s.mu.Unlock()
	done := s.pending[id]
	delete(s.pending, id)
	return done
}

func (w *worker) run() {
	defer w.service.workerWg.Done()
	for {
		msg, err := w.service.queue.Consume(w.ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			time.Sleep(100 * time.Millisecond)
			continue
		}
		if msg == nil {
			continue
		}
		if pErr := w.service.processMessage(w.ctx, msg); pErr != nil {
			log.Printf("worker %d: failed to process message: %v", w.id, pErr)
		}
	}
}

func (s *Service) processMessage(ctx context.Context, message messaging.Message[Request]) (err error) {
	request := message.T()
	if request == nil || request.Plan == nil {
		return message.Nack(fmt.Errorf("empty request"))
	}
	ctx, span := tracing.StartSpan(ctx, fmt.Sprintf("processor.run %s", request.Plan.Name))
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"request.id": request.ID})

	run, runErr := s.runner.Run(ctx, request.Plan)
	if done := s.forget(request.ID); done != nil {
		done <- result{run: run, err: runErr}
	}
	return message.Ack()
}
