// Package fluxplan runs plans of delayed tasks under a selectable concurrency
// policy and reports what happened along the way.
//
// A plan is an ordered list of tasks, each producing a value (or failing)
// after a fixed duration. The policy decides how tasks are started and
// observed:
//
//   - sequential: one task at a time, total time is the sum of durations
//   - concurrentAwaited: all started, results reported in declaration order
//   - jointAll: all started, one wait for every result
//   - independentObservers: all started, results reported as they complete
//
// Typical use goes through the Service facade:
//
//	srv := fluxplan.New()
//	rt := srv.Runtime()
//	plan, _ := rt.LoadPlan(ctx, "plans/demo.yaml")
//	run, err := rt.Run(ctx, plan)
package fluxplan
