package testutil

import (
	"math"
	"testing"
)

func TestMaxAbsDiff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		a, b    []float64
		want    float64
		wantErr bool
	}{
		{name: "one element off", a: []float64{1, 2, 3}, b: []float64{1, 2.1, 3}, want: 0.1},
		{name: "identical", a: []float64{1, 2, 3}, b: []float64{1, 2, 3}},
		{name: "sign", a: []float64{-1}, b: []float64{1}, want: 2},
		{name: "length mismatch", a: []float64{1}, b: []float64{1, 2}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := MaxAbsDiff(tc.a, tc.b)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %t", err, tc.wantErr)
			}

			if math.Abs(got-tc.want) > 1e-12 {
				t.Fatalf("MaxAbsDiff = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEnergy(t *testing.T) {
	t.Parallel()

	if e := Energy([]float64{3, -4}); e != 25 {
		t.Fatalf("Energy = %v, want 25", e)
	}

	if e := Energy(nil); e != 0 {
		t.Fatalf("Energy(nil) = %v, want 0", e)
	}
}

func TestWithin(t *testing.T) {
	t.Parallel()

	if !within(1, 1+1e-10, 1e-9) {
		t.Fatal("close values rejected")
	}

	if within(math.NaN(), math.NaN(), math.Inf(1)) {
		t.Fatal("NaN accepted")
	}
}
