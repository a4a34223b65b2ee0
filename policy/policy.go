package policy

import (
	"fmt"
	"strings"
)

// Mode identifies how the tasks of a plan are started and observed.
type Mode string

// Concurrency policies recognised by the orchestrator.
const (
	// Sequential starts task i+1 only after task i has been observed.
	Sequential Mode = "sequential"
	// ConcurrentAwaited starts every task up front and observes them in
	// declaration order.
	ConcurrentAwaited Mode = "concurrentAwaited"
	// JointAll starts every task up front and waits for all of them at a
	// single synchronisation point.
	JointAll Mode = "jointAll"
	// IndependentObservers gives every task its own observer; results are
	// reported in completion order.
	IndependentObservers Mode = "independentObservers"
)

// Modes lists all supported policies in documentation order.
var Modes = []Mode{Sequential, ConcurrentAwaited, JointAll, IndependentObservers}

var aliases = map[string]Mode{
	"sequential":           Sequential,
	"sequence":             Sequential,
	"concurrentawaited":    ConcurrentAwaited,
	"concurrent":           ConcurrentAwaited,
	"jointall":             JointAll,
	"all":                  JointAll,
	"independentobservers": IndependentObservers,
	"independent":          IndependentObservers,
	"parallel":             IndependentObservers,
}

// Parse resolves a policy name case-insensitively. Dashes and underscores are
// ignored so "joint-all" and "joint_all" both resolve to JointAll.
func Parse(name string) (Mode, error) {
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(name))
	if mode, ok := aliases[key]; ok {
		return mode, nil
	}
	return "", fmt.Errorf("unsupported policy: %q", name)
}

// IsValid reports whether m is one of the supported policies.
func (m Mode) IsValid() bool {
	for _, candidate := range Modes {
		if m == candidate {
			return true
		}
	}
	return false
}

// StartsAll reports whether every task is started before the first observation.
func (m Mode) StartsAll() bool {
	return m != Sequential
}

// CompletionOrdered reports whether results are reported in completion order
// rather than declaration order.
func (m Mode) CompletionOrdered() bool {
	return m == IndependentObservers
}

func (m Mode) String() string { return string(m) }

// UnmarshalText implements encoding.TextUnmarshaler so that both JSON and
// YAML decoders accept any alias understood by Parse.
func (m *Mode) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*m = ""
		return nil
	}
	mode, err := Parse(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m), nil
}
