package effectchain

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-fxhost/dsp/core"
	"github.com/cwbudde/algo-fxhost/dsp/effects/reverb"
)

// RoomID is the effect type id of the convolution room.
const RoomID = "algofx.room"

const (
	roomPartitionSize = 1024
	roomMinSeconds    = 0.05
	roomDecaySeconds  = 0.75
	roomNoiseSeed     = 0x524f4f4d
	roomOutputEnergy  = 0.25
	// Smaller decay changes keep the current response.
	roomKernelEpsilon = 1e-6
	// ln(1000): the envelope falls by 60 dB over the response length.
	roomDecayExponent = 6.907755278982137
)

func roomManifest() *Manifest {
	return &Manifest{
		ID:          RoomID,
		Name:        "Room",
		Author:      "algo-fxhost",
		Version:     "1.0",
		Description: "Convolution with a synthetic exponentially decaying noise response.",
		Parameters: []ParameterDescriptor{
			{
				ID:          "decay",
				Name:        "Decay",
				Description: "Length of the room response.",
				ControlHint: KnobLinear,
				Minimum:     0,
				Default:     0.5,
				Maximum:     1,
			},
			{
				ID:          "wet",
				Name:        "Wet",
				Description: "Level of the convolved signal added to the dry signal.",
				ControlHint: KnobLinear,
				Minimum:     0,
				Default:     0.35,
				Maximum:     1,
			},
		},
	}
}

type roomGroup struct {
	ready      bool
	sampleRate int
	convs      []*reverb.Convolver
}

// roomRuntime convolves every channel with a generated room response. The
// response spectra are shared by all groups and rebuilt only when the decay
// or the sample rate changes. The host crossfades it in and out.
type roomRuntime struct {
	decay *Parameter
	wet   *Parameter

	channels      int
	maxSampleRate int

	kernel      *reverb.Kernel
	noise       []float64
	envelope    []float64
	ir          []float64
	kernelDecay float64
	kernelRate  int

	groups []roomGroup
}

func newRoomRuntime(params *ParameterSet) (Processor, error) {
	return &roomRuntime{
		decay: params.ByID("decay"),
		wet:   params.ByID("wet"),
	}, nil
}

func roomLength(decay float64, sampleRate int) int {
	return max(1, int((roomMinSeconds+roomDecaySeconds*decay)*float64(sampleRate)))
}

func (r *roomRuntime) Initialize(setup Setup) error {
	r.channels = max(1, setup.Channels)
	r.maxSampleRate = setup.MaxSampleRate

	capacity := roomLength(1, setup.MaxSampleRate)

	kernel, err := reverb.NewKernel(roomPartitionSize, capacity)
	if err != nil {
		return err
	}

	r.kernel = kernel
	r.noise = make([]float64, capacity)
	r.envelope = make([]float64, capacity)
	r.ir = make([]float64, capacity)
	r.kernelRate = 0

	rng := rand.New(rand.NewSource(roomNoiseSeed))
	for i := range r.noise {
		r.noise[i] = rng.Float64()*2 - 1
	}

	r.groups = make([]roomGroup, setup.NumGroups())
	for _, g := range setup.Groups {
		convs := make([]*reverb.Convolver, r.channels)
		for ch := range convs {
			if convs[ch], err = reverb.NewConvolver(kernel); err != nil {
				return err
			}
		}

		r.groups[g] = roomGroup{ready: true, convs: convs}
	}

	return nil
}

// updateKernel regenerates the response when decay or rate changed. It
// only writes into buffers sized at Initialize.
func (r *roomRuntime) updateKernel(decay float64, sampleRate int) error {
	if sampleRate == r.kernelRate && core.NearlyEqual(decay, r.kernelDecay, roomKernelEpsilon) {
		return nil
	}

	n := roomLength(decay, sampleRate)
	if n > len(r.ir) {
		return ErrUnsupportedSampleRate
	}

	env := r.envelope[:n]
	for i := range env {
		env[i] = math.Exp(-roomDecayExponent * float64(i) / float64(n))
	}

	ir := r.ir[:n]
	vecmath.MulBlock(ir, r.noise[:n], env)

	energy := 0.0
	for _, v := range ir {
		energy += v * v
	}

	if energy > 0 {
		vecmath.ScaleBlockInPlace(ir, math.Sqrt(roomOutputEnergy/energy))
	}

	if err := r.kernel.Set(ir); err != nil {
		return ErrUnsupportedSampleRate
	}

	r.kernelDecay = decay
	r.kernelRate = sampleRate

	return nil
}

func (r *roomRuntime) Process(
	group GroupID, input, output []float64, sampleRate int,
	state EnableState, _ GroupFeatures,
) error {
	if r.decay == nil || r.wet == nil {
		return ErrMissingParameter
	}

	if group < 0 || int(group) >= len(r.groups) || !r.groups[group].ready {
		return ErrUnknownGroup
	}

	if sampleRate <= 0 || sampleRate > r.maxSampleRate {
		return ErrUnsupportedSampleRate
	}

	if err := r.updateKernel(r.decay.Clamped(), sampleRate); err != nil {
		return err
	}

	g := &r.groups[group]
	if state == Enabling || g.sampleRate != sampleRate {
		for _, c := range g.convs {
			c.Reset()
		}

		g.sampleRate = sampleRate
	}

	n := len(output)
	for i := range output {
		output[i] = g.convs[i%r.channels].ProcessSample(input[i])
	}

	vecmath.ScaleBlockInPlace(output, r.wet.Clamped())
	vecmath.AddBlockInPlace(output, input[:n])

	return nil
}
