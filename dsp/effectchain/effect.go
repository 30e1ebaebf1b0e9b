package effectchain

import (
	"io"

	"github.com/cwbudde/algo-fxhost/dsp/ramp"
)

// Effect is one loaded effect instance: its manifest, live parameters,
// processor and instance enable state. It is built on the control goroutine
// and owned by the audio goroutine while it sits in an engine slot.
type Effect struct {
	manifest  *Manifest
	params    *ParameterSet
	processor Processor

	rampsFromDry bool
	state        EnableState
}

func newEffect(m *Manifest, params *ParameterSet, proc Processor) *Effect {
	return &Effect{
		manifest:     m,
		params:       params,
		processor:    proc,
		rampsFromDry: m.EffectRampsFromDry,
		state:        Disabled,
	}
}

// Manifest returns the effect type's manifest.
func (e *Effect) Manifest() *Manifest { return e.manifest }

// Parameters returns the live parameter set.
func (e *Effect) Parameters() *ParameterSet { return e.params }

// Processor returns the DSP processor.
func (e *Effect) Processor() Processor { return e.processor }

// State returns the instance enable state.
func (e *Effect) State() EnableState { return e.state }

// SetEnabled requests a fade in or out and reports whether the state
// changed. Repeated requests for the same target are no-ops.
func (e *Effect) SetEnabled(enabled bool) bool {
	next, edge := e.state.request(enabled)
	e.state = next

	return edge
}

// Process runs the processor for one group buffer. route is the state of the
// group's route through this effect. When the effective state is Disabled the
// input is copied through. When the effect does not ramp from dry itself, a
// transitional state crossfades between input and the processed output over
// the buffer. On a processor error output holds a copy of input.
func (e *Effect) Process(
	group GroupID, input, output []float64, sampleRate int,
	route EnableState, features GroupFeatures,
) error {
	n := len(output)
	if n == 0 {
		return nil
	}

	if len(input) < n {
		return ramp.ErrShortBuffer
	}

	input = input[:n]

	if ramp.Overlaps(input, output) {
		return ramp.ErrAliasedBuffers
	}

	state := Effective(e.state, route)
	if state == Disabled {
		copy(output, input)
		return nil
	}

	if err := e.processor.Process(group, input, output, sampleRate, state, features); err != nil {
		copy(output, input)
		return err
	}

	if e.rampsFromDry {
		return nil
	}

	switch state {
	case Enabling:
		return ramp.Copy2WithRampingGain(output, input, 1, 0, output, 0, 1)
	case Disabling:
		return ramp.Copy2WithRampingGain(output, input, 0, 1, output, 1, 0)
	default:
		return nil
	}
}

// EndCycle settles a transitional instance state. The engine calls it once
// per audio callback after every group has been processed.
func (e *Effect) EndCycle() {
	e.state = e.state.advance()
}

// Close releases the processor if it holds resources.
func (e *Effect) Close() error {
	if c, ok := e.processor.(io.Closer); ok {
		return c.Close()
	}

	return nil
}
