package reverb

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-fxhost/dsp/core"
)

const (
	numCombs     = 8
	numAllpasses = 4

	fixedGain       = 0.015
	allpassFeedback = 0.5
	tuningRate      = 44100

	// StereoSpread is the delay offset, in samples at 44.1 kHz, that
	// decorrelates a right channel network from the left one.
	StereoSpread = 23

	feedbackBase  = 0.7
	feedbackRange = 0.28
	dampScale     = 0.4
)

// Delay line lengths in samples at 44.1 kHz.
var (
	combTunings    = [numCombs]int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}
	allpassTunings = [numAllpasses]int{556, 441, 341, 225}
)

// ErrSampleRate is returned by Init for a rate the network was not sized for.
var ErrSampleRate = errors.New("reverb: sample rate outside supported range")

// Network is a Schroeder/Freeverb-style reverb network: eight parallel
// damped combs into four series allpasses, fed through a one-pole bandwidth
// filter. Only the wet signal is produced.
//
// All delay memory is allocated by NewNetwork for the maximum sample rate;
// Init only re-slices it, so changing the rate on the audio goroutine is
// allocation-free.
type Network struct {
	maxSampleRate int
	sampleRate    int
	spread        int

	bandwidth float64
	bwState   float64
	decay     float64
	damping   float64

	combs   [numCombs]comb
	allpass [numAllpasses]allpass
}

type comb struct {
	mem         []float64
	buffer      []float64
	index       int
	feedback    float64
	filterStore float64
	dampA       float64
	dampB       float64
}

func (c *comb) process(input float64) float64 {
	output := c.buffer[c.index]
	c.filterStore = core.FlushDenormals(output*c.dampB + c.filterStore*c.dampA)
	c.buffer[c.index] = input + c.filterStore*c.feedback

	c.index++
	if c.index >= len(c.buffer) {
		c.index = 0
	}

	return output
}

func (c *comb) reset() {
	clear(c.buffer)
	c.index = 0
	c.filterStore = 0
}

type allpass struct {
	mem    []float64
	buffer []float64
	index  int
}

func (a *allpass) process(input float64) float64 {
	bufOut := a.buffer[a.index]
	output := bufOut - input
	a.buffer[a.index] = input + bufOut*allpassFeedback

	a.index++
	if a.index >= len(a.buffer) {
		a.index = 0
	}

	return output
}

func (a *allpass) reset() {
	clear(a.buffer)
	a.index = 0
}

// NewNetwork allocates a network able to run at any rate up to
// maxSampleRate. spread offsets every delay line (see StereoSpread). The
// network starts initialised for maxSampleRate.
func NewNetwork(maxSampleRate, spread int) (*Network, error) {
	if maxSampleRate <= 0 {
		return nil, fmt.Errorf("%w: max %d", ErrSampleRate, maxSampleRate)
	}

	if spread < 0 {
		return nil, fmt.Errorf("reverb: negative spread %d", spread)
	}

	n := &Network{maxSampleRate: maxSampleRate, spread: spread}
	for i := range n.combs {
		n.combs[i].mem = make([]float64, scaledLength(combTunings[i]+spread, maxSampleRate))
	}

	for i := range n.allpass {
		n.allpass[i].mem = make([]float64, scaledLength(allpassTunings[i]+spread, maxSampleRate))
	}

	n.SetParams(1, 0.5, 0)

	if err := n.Init(maxSampleRate); err != nil {
		return nil, err
	}

	return n, nil
}

func scaledLength(tuning, sampleRate int) int {
	return max(1, (tuning*sampleRate+tuningRate/2)/tuningRate)
}

// Init sizes the delay lines for sampleRate and clears all state.
func (n *Network) Init(sampleRate int) error {
	if sampleRate <= 0 || sampleRate > n.maxSampleRate {
		return ErrSampleRate
	}

	n.sampleRate = sampleRate
	for i := range n.combs {
		size := min(scaledLength(combTunings[i]+n.spread, sampleRate), len(n.combs[i].mem))
		n.combs[i].buffer = n.combs[i].mem[:size]
	}

	for i := range n.allpass {
		size := min(scaledLength(allpassTunings[i]+n.spread, sampleRate), len(n.allpass[i].mem))
		n.allpass[i].buffer = n.allpass[i].mem[:size]
	}

	n.Reset()

	return nil
}

// SampleRate returns the rate the network is initialised for.
func (n *Network) SampleRate() int { return n.sampleRate }

// SetParams updates the network from normalised controls in [0, 1].
// Values outside that range are clamped.
func (n *Network) SetParams(bandwidth, decay, damping float64) {
	n.bandwidth = core.Clamp(bandwidth, 0, 1)
	n.decay = core.Clamp(decay, 0, 1)
	n.damping = core.Clamp(damping, 0, 1)

	feedback := feedbackBase + feedbackRange*n.decay
	damp := n.damping * dampScale

	for i := range n.combs {
		n.combs[i].feedback = feedback
		n.combs[i].dampA = damp
		n.combs[i].dampB = 1 - damp
	}
}

// Bandwidth returns the input filter coefficient.
func (n *Network) Bandwidth() float64 { return n.bandwidth }

// Decay returns the normalised decay.
func (n *Network) Decay() float64 { return n.decay }

// Damping returns the normalised damping.
func (n *Network) Damping() float64 { return n.damping }

// ProcessSample returns the wet output for one input sample.
func (n *Network) ProcessSample(input float64) float64 {
	n.bwState = core.FlushDenormals(n.bandwidth*input + (1-n.bandwidth)*n.bwState)
	x := n.bwState * fixedGain

	var acc float64
	for i := range n.combs {
		acc += n.combs[i].process(x)
	}

	for i := range n.allpass {
		acc = n.allpass[i].process(acc)
	}

	return acc
}

// Reset clears all delay and filter state.
func (n *Network) Reset() {
	for i := range n.combs {
		n.combs[i].reset()
	}

	for i := range n.allpass {
		n.allpass[i].reset()
	}

	n.bwState = 0
}
