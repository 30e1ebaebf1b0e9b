package effectchain

// EnableState is the fade state of an effect instance or of a group route.
type EnableState uint8

const (
	Disabled EnableState = iota
	Enabling
	Enabled
	Disabling
)

func (s EnableState) String() string {
	switch s {
	case Disabled:
		return "disabled"
	case Enabling:
		return "enabling"
	case Enabled:
		return "enabled"
	case Disabling:
		return "disabling"
	default:
		return "unknown"
	}
}

// Active reports whether a processor must run in state s.
func (s EnableState) Active() bool {
	return s != Disabled
}

// request returns the state after an enable or disable request and whether
// that was an edge. Enabling only starts from Disabled; disabling starts
// from any other state.
func (s EnableState) request(enable bool) (EnableState, bool) {
	switch {
	case enable && s == Disabled:
		return Enabling, true
	case !enable && s != Disabled && s != Disabling:
		return Disabling, true
	default:
		return s, false
	}
}

// advance settles a transitional state at the end of an audio cycle.
func (s EnableState) advance() EnableState {
	switch s {
	case Enabling:
		return Enabled
	case Disabling:
		return Disabled
	default:
		return s
	}
}

// Effective combines the state of an instance and of its route for one
// buffer. Disabled wins, then Disabling, then Enabling.
func Effective(instance, route EnableState) EnableState {
	switch {
	case instance == Disabled || route == Disabled:
		return Disabled
	case instance == Disabling || route == Disabling:
		return Disabling
	case instance == Enabling || route == Enabling:
		return Enabling
	default:
		return Enabled
	}
}
