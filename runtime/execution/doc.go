// Package execution implements the runtime side of a delayed task: a unit of
// work whose result becomes available once its nominal duration has elapsed
// after Start. Starting a task never blocks; observing it blocks until the
// task has settled.
package execution
