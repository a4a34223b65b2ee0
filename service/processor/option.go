package processor

import (
	"github.com/viant/fluxplan/service/messaging"
)

type Option func(*Service)

// WithMessageQueue sets the queue submissions travel through
func WithMessageQueue(queue messaging.Queue[Request]) Option {
	return func(s *Service) {
		s.queue = queue
	}
}

// WithRunner sets the plan runner used by workers
func WithRunner(runner Runner) Option {
	return func(s *Service) {
		s.runner = runner
	}
}

// WithWorkers sets the number of worker goroutines
func WithWorkers(count int) Option {
	return func(s *Service) {
		s.config.WorkerCount = count
	}
}
