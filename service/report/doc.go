// Package report defines the markers emitted while a plan runs and the
// reporters that render, record or publish them.
//
// A run emits, in order: one plan-started marker before any task starts,
// a task-started marker per task timer, a task-completed marker as soon as a
// task becomes ready (before its result reaches any observer), elapsed-time
// markers and result markers as dictated by the run's policy.
package report
