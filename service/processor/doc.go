// Package processor runs submitted plans on a pool of background workers fed
// by a message queue.
package processor
