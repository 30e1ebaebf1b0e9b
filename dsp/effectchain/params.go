package effectchain

import "github.com/cwbudde/algo-fxhost/dsp/core"

// Parameter is the live value of one effect parameter together with the
// per-instance range it was last configured with. It is owned by the audio
// goroutine once its effect is loaded.
type Parameter struct {
	desc *ParameterDescriptor

	minimum float64
	maximum float64
	def     float64
	value   float64
}

func newParameter(desc *ParameterDescriptor) *Parameter {
	return &Parameter{
		desc:    desc,
		minimum: desc.Minimum,
		maximum: desc.Maximum,
		def:     desc.Default,
		value:   desc.Default,
	}
}

// Descriptor returns the immutable descriptor the parameter was seeded from.
func (p *Parameter) Descriptor() *ParameterDescriptor { return p.desc }

// ID returns the parameter id.
func (p *Parameter) ID() string { return p.desc.ID }

// Set writes range, default and value together. Nothing is validated here;
// out-of-range values are clamped on use.
func (p *Parameter) Set(minimum, maximum, def, value float64) {
	p.minimum = minimum
	p.maximum = maximum
	p.def = def
	p.value = value
}

// SetValue writes only the value.
func (p *Parameter) SetValue(value float64) { p.value = value }

// Value returns the raw value as last written.
func (p *Parameter) Value() float64 { return p.value }

// Clamped returns the value limited to the configured range. A non-finite
// value or range falls back to the default.
func (p *Parameter) Clamped() float64 {
	if !core.IsFinite(p.value) || !core.IsFinite(p.minimum) || !core.IsFinite(p.maximum) {
		return p.desc.Default
	}

	return core.Clamp(p.value, p.minimum, p.maximum)
}

// Minimum returns the configured minimum.
func (p *Parameter) Minimum() float64 { return p.minimum }

// Maximum returns the configured maximum.
func (p *Parameter) Maximum() float64 { return p.maximum }

// Default returns the configured default.
func (p *Parameter) Default() float64 { return p.def }

// ParameterSet holds the parameters of one effect instance in manifest order.
type ParameterSet struct {
	params []*Parameter
	byID   map[string]*Parameter
}

// NewParameterSet seeds one Parameter per descriptor of m.
func NewParameterSet(m *Manifest) *ParameterSet {
	s := &ParameterSet{
		params: make([]*Parameter, len(m.Parameters)),
		byID:   make(map[string]*Parameter, len(m.Parameters)),
	}

	for i := range m.Parameters {
		p := newParameter(&m.Parameters[i])
		s.params[i] = p
		s.byID[p.ID()] = p
	}

	return s
}

// Len returns the number of parameters.
func (s *ParameterSet) Len() int { return len(s.params) }

// At returns the parameter at index i, or nil if i is out of range.
func (s *ParameterSet) At(i int) *Parameter {
	if i < 0 || i >= len(s.params) {
		return nil
	}

	return s.params[i]
}

// ByID returns the parameter with the given id, or nil.
func (s *ParameterSet) ByID(id string) *Parameter {
	return s.byID[id]
}
