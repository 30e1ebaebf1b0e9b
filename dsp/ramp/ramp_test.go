package ramp

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-fxhost/internal/testutil"
)

func TestWeightComplementarySumsToOne(t *testing.T) {
	t.Parallel()

	const n = 512
	for i := range n {
		up := Weight(0, 1, i, n)
		down := Weight(1, 0, i, n)
		testutil.RequireNearlyEqual(t, "sum", up+down, 1, 1e-12)
	}
}

func TestWeightZeroLength(t *testing.T) {
	t.Parallel()

	if got := Weight(0.25, 1, 3, 0); got != 0.25 {
		t.Fatalf("Weight with n=0 = %v, want 0.25", got)
	}
}

func TestCopy2WithRampingGainEnablingCrossfade(t *testing.T) {
	t.Parallel()

	const (
		n   = 512
		dry = 0.8
		wet = -0.3
	)

	input := testutil.DC(dry, n)
	output := testutil.DC(wet, n)

	// Output doubles as the wet source, so it is read before it is written.
	if err := Copy2WithRampingGain(output, input, 1, 0, output, 0, 1); err != nil {
		t.Fatalf("Copy2WithRampingGain: %v", err)
	}

	testutil.RequireNearlyEqual(t, "out[0]", output[0], dry, 1e-12)
	testutil.RequireNearlyEqual(t, "out[511]", output[n-1], dry/n+wet*(n-1)/n, 1e-12)
}

func TestCopy2WithRampingGainDisablingCrossfade(t *testing.T) {
	t.Parallel()

	const n = 64

	input := testutil.DC(1, n)
	output := testutil.DC(0, n)

	if err := Copy2WithRampingGain(output, input, 0, 1, output, 1, 0); err != nil {
		t.Fatalf("Copy2WithRampingGain: %v", err)
	}

	testutil.RequireNearlyEqual(t, "out[0]", output[0], 0, 1e-12)
	testutil.RequireNearlyEqual(t, "out[n-1]", output[n-1], float64(n-1)/n, 1e-12)

	for i := 1; i < n; i++ {
		if output[i] < output[i-1] {
			t.Fatalf("output not monotonic at %d: %v < %v", i, output[i], output[i-1])
		}
	}
}

func TestCopy2WithRampingGainRejectsAliasing(t *testing.T) {
	t.Parallel()

	buf := testutil.DC(1, 32)
	other := testutil.DC(2, 16)
	snapshot := append([]float64(nil), buf...)

	tests := []struct {
		name string
		dst  []float64
		src1 []float64
		src2 []float64
	}{
		{name: "dst is src1", dst: buf[:16], src1: buf[:16], src2: other},
		{name: "dst overlaps src1", dst: buf[:16], src1: buf[8:24], src2: other},
		{name: "dst partially overlaps src2", dst: buf[:16], src1: other, src2: buf[4:20]},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Copy2WithRampingGain(tc.dst, tc.src1, 1, 0, tc.src2, 0, 1)
			if !errors.Is(err, ErrAliasedBuffers) {
				t.Fatalf("err = %v, want ErrAliasedBuffers", err)
			}
		})
	}

	testutil.RequireSliceNearlyEqual(t, buf, snapshot, 0)
}

func TestCopy2WithRampingGainEmptyIsNoop(t *testing.T) {
	t.Parallel()

	if err := Copy2WithRampingGain(nil, nil, 1, 0, nil, 0, 1); err != nil {
		t.Fatalf("empty crossfade: %v", err)
	}
}

func TestCopy2WithRampingGainShortSource(t *testing.T) {
	t.Parallel()

	err := Copy2WithRampingGain(make([]float64, 8), make([]float64, 4), 1, 0, make([]float64, 8), 0, 1)
	if !errors.Is(err, ErrShortBuffer) {
		t.Fatalf("err = %v, want ErrShortBuffer", err)
	}
}

func TestCopyWithRampingGain(t *testing.T) {
	t.Parallel()

	src := testutil.DC(2, 4)
	dst := make([]float64, 4)

	if err := CopyWithRampingGain(dst, src, 0, 1); err != nil {
		t.Fatalf("CopyWithRampingGain: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, dst, []float64{0, 0.5, 1, 1.5}, 1e-12)

	// In place is allowed.
	if err := CopyWithRampingGain(src, src, 1, 1); err != nil {
		t.Fatalf("in place: %v", err)
	}

	if err := CopyWithRampingGain(src[1:], src[:3], 1, 1); !errors.Is(err, ErrAliasedBuffers) {
		t.Fatalf("shifted overlap err = %v, want ErrAliasedBuffers", err)
	}
}

func TestApplyGain(t *testing.T) {
	t.Parallel()

	buf := testutil.DC(1, 4)
	ApplyGain(buf, 1, 0)
	testutil.RequireSliceNearlyEqual(t, buf, []float64{1, 0.75, 0.5, 0.25}, 1e-12)

	buf = testutil.DC(3, 3)
	ApplyGain(buf, 0.5, 0.5)
	testutil.RequireSliceNearlyEqual(t, buf, []float64{1.5, 1.5, 1.5}, 1e-12)

	ApplyGain(nil, 0, 1)
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	buf := make([]float64, 10)
	if !Overlaps(buf[:5], buf[4:]) {
		t.Fatal("expected overlap")
	}

	if Overlaps(buf[:5], buf[5:]) {
		t.Fatal("adjacent slices should not overlap")
	}

	if Overlaps(nil, buf) {
		t.Fatal("empty slice should not overlap")
	}
}
