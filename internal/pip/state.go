package pip

// State is the coordinator's position in the session lifecycle.
type State int

const (
	StateUnconfigured State = iota
	StateConfiguring
	StateReady
	StateActive
	StateFailed
)

// States lists every state in declaration order.
var States = []State{StateUnconfigured, StateConfiguring, StateReady, StateActive, StateFailed}

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "unconfigured"
	case StateConfiguring:
		return "configuring"
	case StateReady:
		return "ready"
	case StateActive:
		return "active"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// holdsResource reports whether a presentation resource must be bound in s.
func (s State) holdsResource() bool {
	return s == StateReady || s == StateActive
}

// Status is a point-in-time view of the session. Err is set only when State is StateFailed.
type Status struct {
	State State
	Err   error
}
