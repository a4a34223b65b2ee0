// Package orchestrator runs an execution plan under one of four concurrency
// policies. Starting a task (beginning its timer) is decoupled from observing
// it (blocking until its result is available); the policies differ only in
// how they sequence those two steps:
//
//   - RunSequential starts task i+1 only after task i was observed.
//   - RunConcurrentAwaited starts every task, then observes in declaration order.
//   - RunJointAll starts every task and waits for all at one synchronisation point.
//   - RunIndependentObservers gives each task its own observer; results are
//     reported in completion order.
//
// Each run captures its own start instant; nothing is shared between runs.
package orchestrator
