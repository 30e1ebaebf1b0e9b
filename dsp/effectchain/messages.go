package effectchain

import "fmt"

// RequestType selects what a Request asks the engine to do.
type RequestType uint8

const (
	SetEffectParameters RequestType = iota + 1
	SetParameterParameters
	LoadEffect
	UnloadEffect
	SetGroupEnabled
)

var requestTypeNames = map[RequestType]string{
	SetEffectParameters:    "SET_EFFECT_PARAMETERS",
	SetParameterParameters: "SET_PARAMETER_PARAMETERS",
	LoadEffect:             "LOAD_EFFECT",
	UnloadEffect:           "UNLOAD_EFFECT",
	SetGroupEnabled:        "SET_GROUP_ENABLED",
}

func (t RequestType) String() string {
	if name, ok := requestTypeNames[t]; ok {
		return name
	}

	return fmt.Sprintf("RequestType(%d)", uint8(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t RequestType) MarshalText() ([]byte, error) {
	if _, ok := requestTypeNames[t]; !ok {
		return nil, fmt.Errorf("effectchain: unknown request type %d", uint8(t))
	}

	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *RequestType) UnmarshalText(text []byte) error {
	for k, name := range requestTypeNames {
		if name == string(text) {
			*t = k
			return nil
		}
	}

	return fmt.Errorf("effectchain: unknown request type %q", text)
}

// Status is the outcome code of a Response.
type Status uint8

const (
	StatusOK Status = iota
	StatusNoSuchParameter
	StatusNoSuchEffect
	StatusSlotOccupied
	StatusNoSuchSlot
	StatusNoSuchGroup
)

var statusNames = [...]string{
	"OK", "NO_SUCH_PARAMETER", "NO_SUCH_EFFECT", "SLOT_OCCUPIED", "NO_SUCH_SLOT", "NO_SUCH_GROUP",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}

	return fmt.Sprintf("Status(%d)", uint8(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Err maps a failure status to its control error, or nil for StatusOK.
func (s Status) Err() error {
	switch s {
	case StatusOK:
		return nil
	case StatusNoSuchParameter:
		return ErrNoSuchParameter
	case StatusNoSuchEffect:
		return ErrNoSuchEffect
	case StatusSlotOccupied:
		return ErrSlotOccupied
	case StatusNoSuchSlot:
		return ErrNoSuchSlot
	case StatusNoSuchGroup:
		return ErrNoSuchGroup
	default:
		return fmt.Errorf("effectchain: unknown status %d", uint8(s))
	}
}

// Request is a control message for the audio goroutine. Only the fields of
// the given Type are read.
type Request struct {
	ID   uint64
	Type RequestType
	Slot int

	// SetEffectParameters, SetGroupEnabled.
	Enabled bool
	// SetGroupEnabled.
	Group GroupID

	// SetParameterParameters.
	Parameter int
	Minimum   float64
	Maximum   float64
	Default   float64
	Value     float64

	// LoadEffect. Ownership moves to the engine with the request.
	effect *Effect
}

// Response answers exactly one Request.
type Response struct {
	ID      uint64
	Type    RequestType
	Slot    int
	Success bool
	Status  Status

	// Unloaded is the effect handed back by a successful UnloadEffect.
	Unloaded *Effect
}

// Diagnostic reports an audio-path failure for one effect and group.
type Diagnostic struct {
	Slot     int
	Group    GroupID
	EffectID string
	Err      error
}
