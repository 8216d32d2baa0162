package workflow

type State int

const (
	StateIdle State = iota
	StateCheckingPermission
	StateAcquiringLocation
	StateSubmitting
	StateReported
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCheckingPermission:
		return "checking_permission"
	case StateAcquiringLocation:
		return "acquiring_location"
	case StateSubmitting:
		return "submitting"
	case StateReported:
		return "reported"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

var transitions = map[State][]State{
	StateIdle:               {StateCheckingPermission, StateFailed},
	StateCheckingPermission: {StateAcquiringLocation, StateIdle, StateFailed},
	StateAcquiringLocation:  {StateSubmitting, StateFailed},
	StateSubmitting:         {StateReported, StateFailed},
	StateReported:           {StateIdle},
	StateFailed:             {StateIdle},
}

// CanTransition reports whether from -> to is an edge of the attempt state
// machine. Idle -> Failed is taken when clocking is blocked for the session.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
