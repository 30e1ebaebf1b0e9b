package effectchain

import "errors"

// Audio-path errors. Processors return these preallocated values so the
// engine can report a broken precondition without allocating.
var (
	ErrMissingParameter      = errors.New("effectchain: missing parameter")
	ErrUnknownGroup          = errors.New("effectchain: unknown group")
	ErrUnsupportedSampleRate = errors.New("effectchain: unsupported sample rate")
	ErrBlockTooLarge         = errors.New("effectchain: block exceeds max block size")
)

// Control errors, returned by Controller for a failed request.
var (
	ErrNoSuchParameter = errors.New("effectchain: no such parameter")
	ErrNoSuchEffect    = errors.New("effectchain: no effect loaded in slot")
	ErrSlotOccupied    = errors.New("effectchain: slot occupied")
	ErrNoSuchSlot      = errors.New("effectchain: no such slot")
	ErrNoSuchGroup     = errors.New("effectchain: no such group")
)

// ErrUnknownEffect is returned when an effect type id is not registered.
var ErrUnknownEffect = errors.New("effectchain: unknown effect type")

// Registration errors.
var (
	errDuplicateEffect    = errors.New("duplicate effect type")
	errDuplicateParameter = errors.New("duplicate parameter id")
	errInvalidManifest    = errors.New("invalid manifest")
)
