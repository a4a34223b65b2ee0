// Package policy names the concurrency policies a plan can be executed under
// and converts them to and from their serialisable form.
package policy
