package replaygain

import (
	"math"

	"github.com/cwbudde/algo-fxhost/dsp/core"
	"github.com/cwbudde/algo-fxhost/measure/loudness"
)

// ReferenceLUFS is the ReplayGain 2.0 target loudness.
const ReferenceLUFS = -18.0

// Result is the stored outcome of a gain analysis.
type Result struct {
	// GainDB is the gain that brings the track to ReferenceLUFS.
	GainDB float64 `json:"gainDb"`
	// Peak is the largest absolute sample value, 1.0 being full scale.
	Peak float64 `json:"peak"`
	// Valid is false until a track has been analysed.
	Valid bool `json:"valid"`
}

// Ratio returns the linear gain factor of r.
func (r Result) Ratio() float64 {
	if !r.Valid {
		return 1
	}

	return core.DBToLinear(r.GainDB)
}

// Track is the analysis target.
type Track interface {
	ReplayGain() Result
	SetReplayGain(Result)
}

// Analyzer is the contract shared by track analyzers. Initialize reports
// whether the analyzer wants the track; ProcessSamples reports whether it
// wants more samples.
type Analyzer interface {
	Initialize(track Track, sampleRate, totalSamples int) bool
	ProcessSamples(buf []float64, length int) bool
	StoreResults(track Track)
	Cleanup()
}

// GainAnalyzer is the ReplayGain 2.0 Analyzer.
type GainAnalyzer struct {
	cfg Config

	meter  *loudness.Meter
	planes [][]float64

	// partial holds the samples of a frame split across chunks.
	partial  []float64
	nPartial int

	active bool
}

var _ Analyzer = (*GainAnalyzer)(nil)

// NewGainAnalyzer creates an analyzer with the given options.
func NewGainAnalyzer(opts ...Option) *GainAnalyzer {
	cfg := ApplyOptions(opts...)

	a := &GainAnalyzer{
		cfg:     cfg,
		planes:  make([][]float64, cfg.Channels),
		partial: make([]float64, cfg.Channels),
	}

	for i := range a.planes {
		a.planes[i] = make([]float64, cfg.ChunkFrames)
	}

	return a
}

// Initialize prepares an analysis of track. It declines when the analyzer
// is disabled, the stream parameters are invalid, or the track already has
// a gain and re-analysis is off.
func (a *GainAnalyzer) Initialize(track Track, sampleRate, totalSamples int) bool {
	a.active = false

	if !a.cfg.Enabled || track == nil || sampleRate <= 0 || totalSamples <= 0 {
		return false
	}

	if track.ReplayGain().Valid && !a.cfg.Reanalyze {
		return false
	}

	a.meter = loudness.NewMeter(
		loudness.WithSampleRate(sampleRate),
		loudness.WithChannels(a.cfg.Channels),
	)
	a.meter.StartIntegration()
	a.nPartial = 0
	a.active = true

	return true
}

// ProcessSamples feeds the first length interleaved samples of buf.
func (a *GainAnalyzer) ProcessSamples(buf []float64, length int) bool {
	if !a.active {
		return false
	}

	buf = buf[:max(0, min(length, len(buf)))]
	channels := a.cfg.Channels

	if a.nPartial > 0 {
		n := copy(a.partial[a.nPartial:], buf)
		a.nPartial += n
		buf = buf[n:]

		if a.nPartial < channels {
			return true
		}

		a.meter.ProcessSample(a.partial)
		a.nPartial = 0
	}

	for len(buf) >= channels {
		chunk := buf[:min(len(buf)/channels, a.cfg.ChunkFrames)*channels]
		frames := core.Deinterleave(a.planes, chunk)
		a.meter.ProcessPlanar(a.planes, frames)
		buf = buf[frames*channels:]
	}

	a.nPartial = copy(a.partial, buf)

	return true
}

// StoreResults writes the gain and peak of the finished analysis to track.
// Tracks that integrated no audible block keep their previous result.
func (a *GainAnalyzer) StoreResults(track Track) {
	if !a.active || track == nil {
		return
	}

	lufs := a.meter.Integrated()
	if math.IsInf(lufs, -1) {
		return
	}

	track.SetReplayGain(Result{
		GainDB: ReferenceLUFS - lufs,
		Peak:   a.meter.Peak(),
		Valid:  true,
	})
}

// Cleanup drops the per-track state.
func (a *GainAnalyzer) Cleanup() {
	a.active = false
	a.meter = nil
	a.nPartial = 0
}
