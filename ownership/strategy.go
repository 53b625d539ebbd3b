package ownership

import (
	"strings"

	"github.com/wippyai/jbi-runtime/errors"
)

// Strategy selects how the kernel reclaims allocations.
type Strategy uint8

const (
	// RefCount destroys an object synchronously when its last owner
	// releases. Cyclic graphs are never destroyed.
	RefCount Strategy = iota + 1
	// Tracing leaves reclamation to the Go collector. Release never destroys.
	Tracing
	// Combined counts owners for prompt destruction and registers a
	// collector cleanup that reclaims whatever the count cannot, such as cycles.
	Combined
)

func (s Strategy) String() string {
	switch s {
	case RefCount:
		return "refcount"
	case Tracing:
		return "tracing"
	case Combined:
		return "combined"
	default:
		return "unknown"
	}
}

// counts reports whether releases can trigger destruction.
func (s Strategy) counts() bool {
	return s == RefCount || s == Combined
}

// traces reports whether allocations are registered with the collector.
func (s Strategy) traces() bool {
	return s == Tracing || s == Combined
}

// ParseStrategy parses a strategy name as used in configuration files.
// The empty string yields DefaultStrategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return DefaultStrategy, nil
	case "refcount", "rc", "arc":
		return RefCount, nil
	case "tracing", "gc":
		return Tracing, nil
	case "combined", "hybrid":
		return Combined, nil
	default:
		return 0, errors.InvalidInput(errors.PhaseConfig, "unknown ownership strategy "+name)
	}
}
