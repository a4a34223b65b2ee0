package fluxplan

import (
	"io"
	"time"

	"github.com/viant/afs/storage"
	"github.com/viant/fluxplan/model"
	"github.com/viant/fluxplan/policy"
	"github.com/viant/fluxplan/progress"
	"github.com/viant/fluxplan/service/dao"
	"github.com/viant/fluxplan/service/event"
	"github.com/viant/fluxplan/service/messaging"
	"github.com/viant/fluxplan/service/meta"
	"github.com/viant/fluxplan/service/processor"
	"github.com/viant/fluxplan/service/report"
	"github.com/viant/fluxplan/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type Option func(s *Service)

// WithMetaService sets the meta service used to load plans.
func WithMetaService(service *meta.Service) Option {
	return func(s *Service) {
		s.metaService = service
	}
}

// WithMetaBaseURL sets the location relative plan locations resolve against.
func WithMetaBaseURL(url string) Option {
	return func(s *Service) {
		s.metaBaseURL = url
	}
}

// WithMetaFsOptions with meta file system options
func WithMetaFsOptions(options ...storage.Option) Option {
	return func(s *Service) {
		s.metaFsOptions = options
	}
}

// WithDefaultPolicy sets the policy of plans that do not declare one.
func WithDefaultPolicy(mode policy.Mode) Option {
	return func(s *Service) {
		s.defaultPolicy = mode
	}
}

// WithReporter adds marker reporters.
func WithReporter(reporters ...report.Reporter) Option {
	return func(s *Service) {
		s.reporters = append(s.reporters, reporters...)
	}
}

// WithPrinter reports markers to writer in the given format.
func WithPrinter(writer io.Writer, format report.Format) Option {
	return WithReporter(report.NewPrinter(writer, format))
}

// WithProgressListener sets a callback receiving run counter snapshots.
func WithProgressListener(fn func(progress.Progress)) Option {
	return func(s *Service) {
		s.progressListener = fn
	}
}

// WithRunDAO sets the run history store.
func WithRunDAO(dao dao.Service[string, model.Run]) Option {
	return func(s *Service) {
		s.runtime.runDAO = dao
	}
}

// WithEventQueue publishes every marker as an event on queue. The service
// owns consumption of queue and fans its events out to Runtime.Subscribe
// handlers.
func WithEventQueue(queue messaging.Queue[event.Event[report.Marker]]) Option {
	return func(s *Service) {
		s.eventQueue = queue
	}
}

// WithEventPublishTimeout bounds how long a marker waits for room on a full
// event queue before it is dropped.
func WithEventPublishTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		s.publishTimeout = timeout
	}
}

// WithQueue sets the queue submitted plans travel through
func WithQueue(queue messaging.Queue[processor.Request]) Option {
	return func(s *Service) {
		s.queue = queue
	}
}

// WithProcessorWorkers sets the number of workers running submitted plans
func WithProcessorWorkers(count int) Option {
	return func(s *Service) {
		s.processorWorkers = count
	}
}

// WithTracing configures OpenTelemetry tracing. If outputFile is empty the
// stdout exporter is used. The first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing with a custom exporter.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
