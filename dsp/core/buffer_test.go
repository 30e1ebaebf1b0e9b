package core

import "testing"

func TestDeinterleave(t *testing.T) {
	t.Parallel()

	left := make([]float64, 4)
	right := make([]float64, 4)

	frames := Deinterleave([][]float64{left, right}, []float64{1, -1, 2, -2, 3, -3, 9})
	if frames != 3 {
		t.Fatalf("frames = %d, want 3", frames)
	}

	for i := range frames {
		if left[i] != float64(i+1) || right[i] != -float64(i+1) {
			t.Fatalf("frame %d = (%v, %v)", i, left[i], right[i])
		}
	}

	if left[3] != 0 {
		t.Fatalf("partial frame leaked into left channel: %v", left[3])
	}
}

func TestFloatConversions(t *testing.T) {
	t.Parallel()

	wide := make([]float64, 2)
	if n := Float32To64(wide, []float32{0.5, -0.25, 1}); n != 2 {
		t.Fatalf("Float32To64 n = %d, want 2", n)
	}

	narrow := make([]float32, 3)
	if n := Float64To32(narrow, wide); n != 2 {
		t.Fatalf("Float64To32 n = %d, want 2", n)
	}

	if narrow[0] != 0.5 || narrow[1] != -0.25 || narrow[2] != 0 {
		t.Fatalf("unexpected narrow: %v", narrow)
	}
}
