// Package correlation implements the rendez-vous used when several tasks are
// awaited at a single synchronisation point.
package correlation
