// Package progress defines a lightweight tracker that aggregates task
// counters for a single plan run. Callers can poll a snapshot or register a
// callback invoked after every change.
package progress
