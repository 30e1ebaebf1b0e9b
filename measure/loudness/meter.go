package loudness

import (
	"math"

	"github.com/cwbudde/algo-fxhost/dsp/core"
)

const (
	momentaryDuration = 0.4
	shortTermDuration = 3.0

	absThreshold = -70.0
	relThreshold = -10.0

	// Gating blocks overlap by 75%.
	blockStepFactor = 0.25

	// Reported for silence instead of -Inf.
	loudnessFloor = -120.0
)

// window keeps the squares of the last len(hist) samples and their sum.
type window struct {
	hist []float64
	sum  float64
}

func newWindow(n int) window { return window{hist: make([]float64, n)} }

func (w *window) push(pos int, sq float64) {
	w.sum += sq - w.hist[pos]
	w.hist[pos] = sq

	// Rounding can leave a tiny negative remainder.
	if w.sum < 0 {
		w.sum = 0
	}
}

func (w *window) mean() float64 { return w.sum / float64(len(w.hist)) }

func (w *window) reset() {
	clear(w.hist)
	w.sum = 0
}

type channelState struct {
	shelf, highpass biquad
	momentary       window
	shortTerm       window
	peak            float64
	weight          float64
}

// Meter implements EBU R128 / ITU-R BS.1770 loudness metering.
type Meter struct {
	sampleRate float64
	ch         []channelState

	momPos, shortPos int

	integrating  bool
	totalSamples int64
	blockStep    int
	sinceStep    int

	// Mean square of each 400 ms gating block, summed over weighted channels.
	blocks []float64

	frame []float64
}

// NewMeter creates a new loudness meter with the given options.
func NewMeter(opts ...MeterOption) *Meter {
	cfg := ApplyMeterOptions(opts...)

	m := &Meter{
		sampleRate: float64(cfg.SampleRate),
		ch:         make([]channelState, cfg.Channels),
		frame:      make([]float64, cfg.Channels),
		blockStep:  max(int(math.Round(momentaryDuration*blockStepFactor*float64(cfg.SampleRate))), 1),
	}

	momN := int(math.Round(momentaryDuration * m.sampleRate))
	shortN := int(math.Round(shortTermDuration * m.sampleRate))

	for i := range m.ch {
		c := &m.ch[i]
		c.shelf = newShelf(m.sampleRate)
		c.highpass = newHighpass(m.sampleRate)
		c.momentary = newWindow(momN)
		c.shortTerm = newWindow(shortN)
		c.weight = cfg.weight(i)
	}

	return m
}

// Reset clears all integration state and peak values.
func (m *Meter) Reset() {
	for i := range m.ch {
		c := &m.ch[i]
		c.shelf.reset()
		c.highpass.reset()
		c.momentary.reset()
		c.shortTerm.reset()
		c.peak = 0
	}

	m.momPos, m.shortPos = 0, 0
	m.sinceStep = 0
	m.totalSamples = 0
	m.blocks = m.blocks[:0]
}

// StartIntegration starts accumulating blocks for integrated loudness.
func (m *Meter) StartIntegration() { m.integrating = true }

// StopIntegration stops accumulating blocks for integrated loudness.
func (m *Meter) StopIntegration() { m.integrating = false }

// ProcessSample processes one frame. Frames shorter than Channels() are
// ignored.
func (m *Meter) ProcessSample(frame []float64) {
	if len(frame) < len(m.ch) {
		return
	}

	var block float64

	for i := range m.ch {
		c := &m.ch[i]

		c.peak = max(c.peak, math.Abs(frame[i]))

		y := c.highpass.processSample(c.shelf.processSample(frame[i]))
		sq := y * y

		c.momentary.push(m.momPos, sq)
		c.shortTerm.push(m.shortPos, sq)

		block += c.weight * c.momentary.mean()
	}

	if m.momPos++; m.momPos == len(m.ch[0].momentary.hist) {
		m.momPos = 0
	}

	if m.shortPos++; m.shortPos == len(m.ch[0].shortTerm.hist) {
		m.shortPos = 0
	}

	if !m.integrating {
		return
	}

	m.totalSamples++

	if m.sinceStep++; m.sinceStep >= m.blockStep {
		m.sinceStep = 0
		m.blocks = append(m.blocks, block)
	}
}

// ProcessBlock processes a block of interleaved samples. A trailing
// partial frame is ignored.
func (m *Meter) ProcessBlock(block []float64) {
	n := len(m.ch)
	for i := 0; i+n <= len(block); i += n {
		m.ProcessSample(block[i : i+n])
	}
}

// ProcessPlanar processes the first n frames of per-channel buffers.
// planes must hold at least Channels() slices of at least n samples.
func (m *Meter) ProcessPlanar(planes [][]float64, n int) {
	if len(planes) < len(m.ch) {
		return
	}

	for j := range n {
		for i := range m.ch {
			m.frame[i] = planes[i][j]
		}

		m.ProcessSample(m.frame)
	}
}

// Channels returns the number of channels per frame.
func (m *Meter) Channels() int { return len(m.ch) }

// SampleRate returns the configured sample rate in Hz.
func (m *Meter) SampleRate() float64 { return m.sampleRate }

// IntegratedDuration returns the seconds of audio integrated since
// StartIntegration.
func (m *Meter) IntegratedDuration() float64 {
	return float64(m.totalSamples) / m.sampleRate
}

// Momentary returns the loudness of the last 400 ms in LUFS.
func (m *Meter) Momentary() float64 {
	var sum float64
	for i := range m.ch {
		sum += m.ch[i].weight * m.ch[i].momentary.mean()
	}

	return toLUFS(sum)
}

// ShortTerm returns the loudness of the last 3 s in LUFS.
func (m *Meter) ShortTerm() float64 {
	var sum float64
	for i := range m.ch {
		sum += m.ch[i].weight * m.ch[i].shortTerm.mean()
	}

	return toLUFS(sum)
}

// Integrated returns the gated loudness in LUFS since StartIntegration, or
// -Inf when no block passes the gates.
func (m *Meter) Integrated() float64 {
	mean, n := gatedMean(m.blocks, absThreshold)
	if n == 0 {
		return math.Inf(-1)
	}

	mean, n = gatedMean(m.blocks, max(absThreshold, toLUFS(mean)+relThreshold))
	if n == 0 {
		return math.Inf(-1)
	}

	return toLUFS(mean)
}

// gatedMean averages the blocks louder than threshold LUFS.
func gatedMean(blocks []float64, threshold float64) (float64, int) {
	var (
		sum float64
		n   int
	)

	for _, b := range blocks {
		if toLUFS(b) > threshold {
			sum += b
			n++
		}
	}

	if n == 0 {
		return 0, 0
	}

	return sum / float64(n), n
}

// Peaks returns the maximum absolute sample value per channel since Reset.
func (m *Meter) Peaks() []float64 {
	p := make([]float64, len(m.ch))
	for i := range m.ch {
		p[i] = m.ch[i].peak
	}

	return p
}

// Peak returns the maximum absolute sample value over all channels.
func (m *Meter) Peak() float64 {
	var peak float64
	for i := range m.ch {
		peak = max(peak, m.ch[i].peak)
	}

	return peak
}

func toLUFS(meanSquare float64) float64 {
	if meanSquare <= 0 {
		return loudnessFloor
	}

	return -0.691 + core.LinearPowerToDB(meanSquare)
}
