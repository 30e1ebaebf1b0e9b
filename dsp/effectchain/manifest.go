package effectchain

import (
	"fmt"

	"github.com/cwbudde/algo-fxhost/dsp/core"
)

// ControlHint suggests how a parameter is presented to a user.
type ControlHint uint8

const (
	ControlUnknown ControlHint = iota
	KnobLinear
	KnobLogarithmic
	KnobStepping
	ToggleStepping
)

var controlHintNames = [...]string{"unknown", "knob_linear", "knob_logarithmic", "knob_stepping", "toggle_stepping"}

func (h ControlHint) String() string { return hintName(controlHintNames[:], int(h)) }

// MarshalText implements encoding.TextMarshaler.
func (h ControlHint) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

// SemanticHint describes what a parameter controls.
type SemanticHint uint8

const (
	SemanticUnknown SemanticHint = iota
	SemanticSamples
	SemanticNote
)

var semanticHintNames = [...]string{"unknown", "samples", "note"}

func (h SemanticHint) String() string { return hintName(semanticHintNames[:], int(h)) }

// MarshalText implements encoding.TextMarshaler.
func (h SemanticHint) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

// UnitsHint names the unit of a parameter value.
type UnitsHint uint8

const (
	UnitsUnknown UnitsHint = iota
	UnitsTime
	UnitsHertz
	UnitsSampleRate
	UnitsBeats
	UnitsDecibel
)

var unitsHintNames = [...]string{"unknown", "time", "hertz", "samplerate", "beats", "decibel"}

func (h UnitsHint) String() string { return hintName(unitsHintNames[:], int(h)) }

// MarshalText implements encoding.TextMarshaler.
func (h UnitsHint) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

// LinkType says how a parameter follows the effect rack's super knob.
type LinkType uint8

const (
	LinkNone LinkType = iota
	Linked
	LinkedLeft
	LinkedRight
	LinkedLeftRight
)

var linkTypeNames = [...]string{"none", "linked", "linked_left", "linked_right", "linked_left_right"}

func (l LinkType) String() string { return hintName(linkTypeNames[:], int(l)) }

// MarshalText implements encoding.TextMarshaler.
func (l LinkType) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

func hintName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return "unknown"
	}

	return names[i]
}

// ParameterDescriptor is the immutable description of one effect parameter,
// shared by every instance of the effect type.
type ParameterDescriptor struct {
	ID                   string       `json:"id"`
	Name                 string       `json:"name"`
	ShortName            string       `json:"shortName,omitempty"`
	Description          string       `json:"description,omitempty"`
	ControlHint          ControlHint  `json:"controlHint"`
	SemanticHint         SemanticHint `json:"semanticHint"`
	UnitsHint            UnitsHint    `json:"unitsHint"`
	Minimum              float64      `json:"minimum"`
	Default              float64      `json:"default"`
	Maximum              float64      `json:"maximum"`
	DefaultLinkType      LinkType     `json:"defaultLinkType"`
	DefaultLinkInversion bool         `json:"defaultLinkInversion"`
}

// Manifest describes an effect type.
type Manifest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Author      string `json:"author,omitempty"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`

	// EffectRampsFromDry is set by effects that fade their own wet signal
	// in and out. The engine does not crossfade those.
	EffectRampsFromDry bool `json:"effectRampsFromDry"`

	Parameters []ParameterDescriptor `json:"parameters"`
}

// ParameterIndex returns the position of the parameter with the given id,
// or -1.
func (m *Manifest) ParameterIndex(id string) int {
	for i := range m.Parameters {
		if m.Parameters[i].ID == id {
			return i
		}
	}

	return -1
}

func (m *Manifest) validate() error {
	if m.ID == "" {
		return fmt.Errorf("%w: empty effect id", errInvalidManifest)
	}

	seen := make(map[string]struct{}, len(m.Parameters))

	for i := range m.Parameters {
		p := &m.Parameters[i]
		if p.ID == "" {
			return fmt.Errorf("%w: %s: parameter %d has empty id", errInvalidManifest, m.ID, i)
		}

		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: %s: %s", errDuplicateParameter, m.ID, p.ID)
		}

		seen[p.ID] = struct{}{}

		if !core.IsFinite(p.Minimum) || !core.IsFinite(p.Maximum) || !core.IsFinite(p.Default) {
			return fmt.Errorf("%w: %s: parameter %s has non-finite bounds", errInvalidManifest, m.ID, p.ID)
		}

		if p.Minimum > p.Maximum {
			return fmt.Errorf("%w: %s: parameter %s has minimum %g > maximum %g",
				errInvalidManifest, m.ID, p.ID, p.Minimum, p.Maximum)
		}

		if p.Default < p.Minimum || p.Default > p.Maximum {
			return fmt.Errorf("%w: %s: parameter %s default %g outside [%g, %g]",
				errInvalidManifest, m.ID, p.ID, p.Default, p.Minimum, p.Maximum)
		}
	}

	return nil
}
