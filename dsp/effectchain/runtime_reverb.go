package effectchain

import (
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-fxhost/dsp/effects/reverb"
	"github.com/cwbudde/algo-fxhost/dsp/ramp"
)

// ReverbID is the effect type id of the comb/allpass reverb.
const ReverbID = "algofx.reverb"

func reverbManifest() *Manifest {
	return &Manifest{
		ID:      ReverbID,
		Name:    "Reverb",
		Author:  "algo-fxhost",
		Version: "1.0",
		Description: "Schroeder/Freeverb-style reverb built from parallel damped comb " +
			"filters into series allpasses, mixed on top of the dry signal.",
		EffectRampsFromDry: true,
		Parameters: []ParameterDescriptor{
			{
				ID:          "decay",
				Name:        "Decay",
				Description: "Lower decay values cause reverberations to die out more quickly.",
				ControlHint: KnobLinear,
				Minimum:     0,
				Default:     0.5,
				Maximum:     1,
			},
			{
				ID:          "bandwidth",
				Name:        "Bandwidth",
				ShortName:   "BW",
				Description: "Bandwidth of the low pass filter at the input. Higher values result in less attenuation of high frequencies.",
				ControlHint: KnobLinear,
				Minimum:     0,
				Default:     1,
				Maximum:     1,
			},
			{
				ID:          "damping",
				Name:        "Damping",
				Description: "Higher damping values cause high frequencies to decay more quickly than low frequencies.",
				ControlHint: KnobLinear,
				Minimum:     0,
				Default:     0,
				Maximum:     1,
			},
			{
				ID:              "send_amount",
				Name:            "Send",
				Description:     "How much of the signal to send to the effect.",
				ControlHint:     KnobLinear,
				Minimum:         0,
				Default:         0,
				Maximum:         1,
				DefaultLinkType: Linked,
			},
		},
	}
}

type reverbGroup struct {
	ready      bool
	sampleRate int
	nets       []*reverb.Network
}

// reverbRuntime feeds a send of the input through one network per channel
// and adds the result to the dry signal. It fades its own wet signal, so the
// host never crossfades it.
type reverbRuntime struct {
	decay     *Parameter
	bandwidth *Parameter
	damping   *Parameter
	send      *Parameter

	channels int
	groups   []reverbGroup
	wet      []float64
}

func newReverbRuntime(params *ParameterSet) (Processor, error) {
	return &reverbRuntime{
		decay:     params.ByID("decay"),
		bandwidth: params.ByID("bandwidth"),
		damping:   params.ByID("damping"),
		send:      params.ByID("send_amount"),
	}, nil
}

func (r *reverbRuntime) Initialize(setup Setup) error {
	r.channels = max(1, setup.Channels)
	r.groups = make([]reverbGroup, setup.NumGroups())
	r.wet = make([]float64, setup.MaxBlockSize)

	for _, g := range setup.Groups {
		nets := make([]*reverb.Network, r.channels)
		for ch := range nets {
			net, err := reverb.NewNetwork(setup.MaxSampleRate, (ch%2)*reverb.StereoSpread)
			if err != nil {
				return err
			}

			nets[ch] = net
		}

		r.groups[g] = reverbGroup{ready: true, nets: nets}
	}

	return nil
}

func (r *reverbRuntime) Process(
	group GroupID, input, output []float64, sampleRate int,
	state EnableState, _ GroupFeatures,
) error {
	if r.decay == nil || r.bandwidth == nil || r.damping == nil || r.send == nil {
		return ErrMissingParameter
	}

	if group < 0 || int(group) >= len(r.groups) || !r.groups[group].ready {
		return ErrUnknownGroup
	}

	n := len(output)
	if n > len(r.wet) {
		return ErrBlockTooLarge
	}

	g := &r.groups[group]
	if g.sampleRate != sampleRate {
		for _, net := range g.nets {
			if err := net.Init(sampleRate); err != nil {
				return ErrUnsupportedSampleRate
			}
		}

		g.sampleRate = sampleRate
	}

	bandwidth, decay, damping := r.bandwidth.Clamped(), r.decay.Clamped(), r.damping.Clamped()
	for _, net := range g.nets {
		if state == Enabling {
			net.Reset()
		}

		net.SetParams(bandwidth, decay, damping)
	}

	wet := r.wet[:n]
	vecmath.ScaleBlock(wet, input[:n], r.send.Clamped())

	for i := range wet {
		wet[i] = g.nets[i%r.channels].ProcessSample(wet[i])
	}

	switch state {
	case Enabling:
		ramp.ApplyGain(wet, 0, 1)
	case Disabling:
		ramp.ApplyGain(wet, 1, 0)
	}

	copy(output, input[:n])
	vecmath.AddBlockInPlace(output, wet)

	return nil
}
