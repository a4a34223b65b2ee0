// Package meta loads declarative resources (plans, configuration) from local
// or remote storage.
package meta
