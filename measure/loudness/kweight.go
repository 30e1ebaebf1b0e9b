package loudness

import "math"

// K-weighting stage parameters from ITU-R BS.1770, expressed as analog
// prototypes so the filters can be derived for any sample rate.
const (
	shelfFreq     = 1681.974450955533
	shelfGainDB   = 3.999843853973347
	shelfQ        = 0.7071752369554196
	shelfVbFactor = 0.4996667741545416

	highpassFreq = 38.13547087602444
	highpassQ    = 0.5003270373238773
)

// biquad is a direct form I second order section.
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64

	x1, x2 float64
	y1, y2 float64
}

func (f *biquad) processSample(x float64) float64 {
	y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
	f.x2, f.x1 = f.x1, x
	f.y2, f.y1 = f.y1, y

	return y
}

func (f *biquad) reset() {
	f.x1, f.x2, f.y1, f.y2 = 0, 0, 0, 0
}

// newShelf returns the stage 1 high shelf (head acoustics) for sampleRate.
func newShelf(sampleRate float64) biquad {
	k := math.Tan(math.Pi * shelfFreq / sampleRate)
	vh := math.Pow(10, shelfGainDB/20)
	vb := math.Pow(vh, shelfVbFactor)
	a0 := 1 + k/shelfQ + k*k

	return biquad{
		b0: (vh + vb*k/shelfQ + k*k) / a0,
		b1: 2 * (k*k - vh) / a0,
		b2: (vh - vb*k/shelfQ + k*k) / a0,
		a1: 2 * (k*k - 1) / a0,
		a2: (1 - k/shelfQ + k*k) / a0,
	}
}

// newHighpass returns the stage 2 RLB highpass for sampleRate.
func newHighpass(sampleRate float64) biquad {
	k := math.Tan(math.Pi * highpassFreq / sampleRate)
	a0 := 1 + k/highpassQ + k*k

	return biquad{
		b0: 1,
		b1: -2,
		b2: 1,
		a1: 2 * (k*k - 1) / a0,
		a2: (1 - k/highpassQ + k*k) / a0,
	}
}
