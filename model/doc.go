// Package model contains the serialisable representation of execution plans,
// the records produced when a plan runs and the error taxonomy shared by the
// orchestrator and its callers.
//
// A plan is typically loaded from a YAML or JSON document (see
// service/dao/plan) or built programmatically with NewPlan and NewTask.
package model
