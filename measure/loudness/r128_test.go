package loudness

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-fxhost/internal/testutil"
)

func TestLoudness_Sine(t *testing.T) {
	sampleRate := 48000
	freq0 := 1000.0
	meter := NewMeter(WithSampleRate(sampleRate), WithChannels(1))

	// Loudness = -0.691 + 10*log10(mean_square).
	// For a sine with amplitude 1, mean_square is 0.5, 10*log10(0.5) = -3.01.
	// The K-weighting gain near 1 kHz cancels the -0.691 offset, so a
	// full-scale 1 kHz sine reads -3.01 LUFS.

	sig := testutil.DeterministicSine(freq0, float64(sampleRate), 1.0, sampleRate*4) // 4 seconds

	meter.StartIntegration()

	for _, s := range sig {
		meter.ProcessSample([]float64{s})
	}

	mom := meter.Momentary()
	short := meter.ShortTerm()
	integrated := meter.Integrated()

	expected := -3.01

	if math.Abs(mom-expected) > 0.05 {
		t.Errorf("Momentary loudness mismatch: got %v, want %v", mom, expected)
	}

	if math.Abs(short-expected) > 0.05 {
		t.Errorf("Short-term loudness mismatch: got %v, want %v", short, expected)
	}

	// The first gating blocks see a partly filled window.
	if tolerance := 0.2; math.Abs(integrated-expected) > tolerance {
		t.Errorf("Integrated loudness mismatch: got %v, want %v", integrated, expected)
	}
}

func TestLoudness_StereoSine(t *testing.T) {
	fs := 48000
	f0 := 1000.0
	meter := NewMeter(WithSampleRate(fs), WithChannels(2))

	sig := testutil.DeterministicSine(f0, float64(fs), 1.0, fs*4) // 4 seconds

	meter.StartIntegration()

	for _, s := range sig {
		meter.ProcessSample([]float64{s, s}) // Coherent sine in both channels
	}

	// Stereo loudness is 3.01 dB above mono because channel powers add.
	integrated := meter.Integrated()
	expected := 0.0
	tolerance := 0.2

	if math.Abs(integrated-expected) > tolerance {
		t.Errorf("Stereo integrated loudness mismatch: got %v, want %v", integrated, expected)
	}
}

func TestLoudness_Silence(t *testing.T) {
	m := NewMeter(WithChannels(1))
	m.StartIntegration()
	m.ProcessBlock(make([]float64, 48000)) // 1 second of silence

	mom := m.Momentary()
	if mom > -100 {
		t.Errorf("Expected very low momentary loudness for silence, got %v", mom)
	}
}

func TestLoudness_Gating(t *testing.T) {
	sampleRate := 48000
	meter := NewMeter(WithSampleRate(sampleRate), WithChannels(1))

	// Process 10 seconds of high level signal, then 10 seconds of very low level signal
	highSig := testutil.DeterministicSine(1000, float64(sampleRate), 1.0, sampleRate*10)
	lowSig := testutil.DeterministicSine(1000, float64(sampleRate), 0.0001, sampleRate*10) // -80 dB

	meter.StartIntegration()

	for _, s := range highSig {
		meter.ProcessSample([]float64{s})
	}

	highLoudness := meter.Integrated()

	for _, s := range lowSig {
		meter.ProcessSample([]float64{s})
	}

	totalLoudness := meter.Integrated()

	// Integrated loudness should ignore the silent part because of absolute gating (-70 LUFS)
	if math.Abs(highLoudness-totalLoudness) > 0.1 {
		t.Errorf("Gating failed: high loudness %v, total loudness %v", highLoudness, totalLoudness)
	}
}

func TestKWeightingCoefficientsAt48k(t *testing.T) {
	// Reference coefficients from ITU-R BS.1770-4, tables 1 and 2.
	shelf := newShelf(48000)
	hp := newHighpass(48000)

	tests := []struct {
		name      string
		got, want float64
	}{
		{"shelf b0", shelf.b0, 1.53512485958697},
		{"shelf b1", shelf.b1, -2.69169618940638},
		{"shelf b2", shelf.b2, 1.19839281085285},
		{"shelf a1", shelf.a1, -1.69065929318241},
		{"shelf a2", shelf.a2, 0.73248077421585},
		{"highpass a1", hp.a1, -1.99004745483398},
		{"highpass a2", hp.a2, 0.99007225036621},
	}

	for _, tc := range tests {
		testutil.RequireNearlyEqual(t, tc.name, tc.got, tc.want, 1e-6)
	}
}

func TestLoudness_PlanarMatchesInterleaved(t *testing.T) {
	left := testutil.DeterministicNoise(1, 0.5, 48000)
	right := testutil.DeterministicSine(440, 48000, 0.3, 48000)

	a := NewMeter(WithChannels(2))
	b := NewMeter(WithChannels(2))

	a.StartIntegration()
	b.StartIntegration()

	a.ProcessBlock(testutil.Interleave(left, right))
	b.ProcessPlanar([][]float64{left, right}, len(left))

	testutil.RequireNearlyEqual(t, "integrated", b.Integrated(), a.Integrated(), 0)
	testutil.RequireSliceNearlyEqual(t, b.Peaks(), a.Peaks(), 0)

	want := 0.0
	for i := range left {
		want = max(want, math.Abs(left[i]), math.Abs(right[i]))
	}

	testutil.RequireNearlyEqual(t, "peak", b.Peak(), want, 0)

	testutil.RequireNearlyEqual(t, "duration", a.IntegratedDuration(), 1, 1e-12)
}

func TestLoudness_ChannelWeights(t *testing.T) {
	t.Parallel()

	sig := testutil.DeterministicSine(1000, 48000, 1.0, 48000)
	stereo := testutil.Interleave(sig, sig)

	mono := NewMeter(WithChannels(1))
	mono.ProcessBlock(sig)

	muted := NewMeter(WithChannels(2), WithChannelWeights(1, 0))
	muted.ProcessBlock(stereo)

	testutil.RequireNearlyEqual(t, "weight 0", muted.Momentary(), mono.Momentary(), 1e-9)

	boosted := NewMeter(WithChannels(1), WithChannelWeights(SurroundWeight))
	boosted.ProcessBlock(sig)

	want := mono.Momentary() + 10*math.Log10(SurroundWeight)
	testutil.RequireNearlyEqual(t, "surround weight", boosted.Momentary(), want, 1e-9)

	// Invalid weights leave the defaults in place.
	ignored := NewMeter(WithChannels(1), WithChannelWeights(-1))
	ignored.ProcessBlock(sig)
	testutil.RequireNearlyEqual(t, "ignored", ignored.Momentary(), mono.Momentary(), 1e-9)
}

func TestLoudness_ResetClearsState(t *testing.T) {
	t.Parallel()

	m := NewMeter(WithChannels(1))
	m.StartIntegration()
	m.ProcessBlock(testutil.DeterministicSine(1000, 48000, 0.5, 48000))

	m.Reset()

	if m.Peak() != 0 || m.IntegratedDuration() != 0 {
		t.Fatalf("peak %v, duration %v after Reset", m.Peak(), m.IntegratedDuration())
	}

	if !math.IsInf(m.Integrated(), -1) {
		t.Fatalf("Integrated after Reset = %v, want -Inf", m.Integrated())
	}

	if got := m.Momentary(); got != loudnessFloor {
		t.Fatalf("Momentary after Reset = %v, want floor", got)
	}
}
