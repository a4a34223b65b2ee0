// Package tracing integrates OpenTelemetry with the orchestrator: every plan
// run gets a span and run markers are attached to it as span events.
// Applications that do not initialise a provider get no-op spans.
package tracing
