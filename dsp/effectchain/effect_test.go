package effectchain

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-fxhost/dsp/ramp"
	"github.com/cwbudde/algo-fxhost/internal/testutil"
)

func newTestEffect(t *testing.T, id string) *Effect {
	t.Helper()

	r, _ := newTestRegistry(t)

	fx, err := r.Instantiate(id, Setup{Groups: []GroupID{0}, Channels: 1, MaxBlockSize: 1024, MaxSampleRate: 48000})
	if err != nil {
		t.Fatalf("Instantiate(%s): %v", id, err)
	}

	return fx
}

func TestEffectEnablingCrossfadeFromDry(t *testing.T) {
	t.Parallel()

	const (
		n   = 512
		dry = 0.8
		wet = -0.3
	)

	fx := newTestEffect(t, constID)
	fx.Parameters().ByID("level").SetValue(wet)

	if !fx.SetEnabled(true) {
		t.Fatal("enable from disabled should be an edge")
	}

	input := testutil.DC(dry, n)
	output := make([]float64, n)

	if err := fx.Process(0, input, output, 48000, Enabled, GroupFeatures{}); err != nil {
		t.Fatalf("Process: %v", err)
	}

	fx.EndCycle()

	testutil.RequireNearlyEqual(t, "out[0]", output[0], dry, 1e-12)
	testutil.RequireNearlyEqual(t, "out[511]", output[n-1], dry/n+wet*(n-1)/n, 1e-12)

	if fx.State() != Enabled {
		t.Fatalf("state after one buffer = %s, want enabled", fx.State())
	}

	// Fully enabled: wet only.
	if err := fx.Process(0, input, output, 48000, Enabled, GroupFeatures{}); err != nil {
		t.Fatalf("Process: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, output, testutil.DC(wet, n), 1e-12)
}

func TestEffectDisablingCrossfadeToDry(t *testing.T) {
	t.Parallel()

	const n = 100

	fx := newTestEffect(t, constID)
	fx.Parameters().ByID("level").SetValue(0)
	fx.SetEnabled(true)
	fx.EndCycle()
	fx.SetEnabled(false)

	input := testutil.DC(1, n)
	output := make([]float64, n)

	if err := fx.Process(0, input, output, 48000, Enabled, GroupFeatures{}); err != nil {
		t.Fatalf("Process: %v", err)
	}

	fx.EndCycle()

	for i, v := range output {
		// dry weight plus wet weight is one; the wet signal is zero.
		testutil.RequireNearlyEqual(t, "dry weight", v, ramp.Weight(0, 1, i, n), 1e-12)
	}

	if fx.State() != Disabled {
		t.Fatalf("state = %s, want disabled", fx.State())
	}

	// Disabled effects copy input through without calling the processor.
	clear(output)

	if err := fx.Process(0, input, output, 48000, Enabled, GroupFeatures{}); err != nil {
		t.Fatalf("Process: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, output, input, 0)
}

func TestEffectSetEnabledIsIdempotent(t *testing.T) {
	t.Parallel()

	fx := newTestEffect(t, constID)

	if !fx.SetEnabled(true) || fx.SetEnabled(true) {
		t.Fatal("second enable should not be an edge")
	}

	fx.EndCycle()

	if fx.SetEnabled(true) || fx.State() != Enabled {
		t.Fatalf("enable while enabled changed state to %s", fx.State())
	}

	if !fx.SetEnabled(false) || fx.SetEnabled(false) {
		t.Fatal("second disable should not be an edge")
	}
}

func TestEffectRejectsAliasedBuffers(t *testing.T) {
	t.Parallel()

	fx := newTestEffect(t, constID)
	fx.SetEnabled(true)

	buf := testutil.DC(1, 64)

	err := fx.Process(0, buf, buf, 48000, Enabled, GroupFeatures{})
	if !errors.Is(err, ramp.ErrAliasedBuffers) {
		t.Fatalf("err = %v, want ErrAliasedBuffers", err)
	}

	err = fx.Process(0, buf[:32], buf[16:48], 48000, Enabled, GroupFeatures{})
	if !errors.Is(err, ramp.ErrAliasedBuffers) {
		t.Fatalf("partial overlap err = %v, want ErrAliasedBuffers", err)
	}

	testutil.RequireSliceNearlyEqual(t, buf, testutil.DC(1, 64), 0)
}

func TestEffectEmptyBufferIsNoop(t *testing.T) {
	t.Parallel()

	fx := newTestEffect(t, failID)
	fx.SetEnabled(true)

	if err := fx.Process(0, nil, nil, 48000, Enabled, GroupFeatures{}); err != nil {
		t.Fatalf("empty Process: %v", err)
	}
}

func TestEffectProcessorErrorPassesThrough(t *testing.T) {
	t.Parallel()

	fx := newTestEffect(t, failID)
	fx.SetEnabled(true)

	input := testutil.DeterministicNoise(1, 1, 32)
	output := make([]float64, 32)

	err := fx.Process(0, input, output, 48000, Enabled, GroupFeatures{})
	if !errors.Is(err, ErrMissingParameter) {
		t.Fatalf("err = %v, want ErrMissingParameter", err)
	}

	testutil.RequireSliceNearlyEqual(t, output, input, 0)
}

func TestEffectRampsFromDrySkipsHostCrossfade(t *testing.T) {
	t.Parallel()

	fx := newTestEffect(t, gainID)
	fx.SetEnabled(true)

	input := testutil.DC(1, 16)
	output := make([]float64, 16)

	if err := fx.Process(0, input, output, 48000, Enabled, GroupFeatures{}); err != nil {
		t.Fatal(err)
	}

	// gain default is 2 and the host leaves the enabling buffer alone.
	testutil.RequireSliceNearlyEqual(t, output, testutil.DC(2, 16), 0)
}

type closerProcessor struct {
	failProcessor
	closed bool
}

func (c *closerProcessor) Close() error {
	c.closed = true
	return nil
}

func TestEffectCloseReleasesProcessor(t *testing.T) {
	t.Parallel()

	proc := &closerProcessor{}
	fx := newEffect(&Manifest{ID: "test.closer"}, NewParameterSet(&Manifest{}), proc)

	if err := fx.Close(); err != nil || !proc.closed {
		t.Fatalf("Close = %v, closed = %t", err, proc.closed)
	}

	if err := newTestEffect(t, gainID).Close(); err != nil {
		t.Fatalf("Close without io.Closer = %v", err)
	}
}
