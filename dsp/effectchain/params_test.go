package effectchain

import (
	"math"
	"testing"
)

func TestParameterSetSeedsFromManifest(t *testing.T) {
	t.Parallel()

	set := NewParameterSet(constManifest())
	if set.Len() != 2 {
		t.Fatalf("Len = %d, want 2", set.Len())
	}

	p := set.ByID("decay")
	if p == nil || set.At(1) != p {
		t.Fatal("ByID and At disagree for decay")
	}

	if p.Value() != 0.5 || p.Minimum() != 0 || p.Maximum() != 1 || p.Default() != 0.5 {
		t.Fatalf("seeded parameter = (%v, %v, %v, %v)", p.Minimum(), p.Maximum(), p.Default(), p.Value())
	}

	if set.At(-1) != nil || set.At(2) != nil || set.ByID("nope") != nil {
		t.Fatal("out-of-range lookups should return nil")
	}
}

func TestParameterClampedAtUse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		minimum, maximum float64
		value, want      float64
	}{
		{name: "in range", minimum: 0, maximum: 1, value: 0.25, want: 0.25},
		{name: "above maximum", minimum: 0, maximum: 1, value: 1.5, want: 1},
		{name: "below minimum", minimum: 0, maximum: 1, value: -3, want: 0},
		{name: "swapped bounds", minimum: 1, maximum: 0, value: 2, want: 1},
		{name: "nan value", minimum: 0, maximum: 1, value: math.NaN(), want: 0.5},
		{name: "inf bound", minimum: 0, maximum: math.Inf(1), value: 7, want: 0.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p := NewParameterSet(constManifest()).ByID("decay")
			p.Set(tc.minimum, tc.maximum, 0.5, tc.value)

			if got := p.Clamped(); got != tc.want {
				t.Fatalf("Clamped = %v, want %v", got, tc.want)
			}

			if got := p.Value(); got != tc.value && !math.IsNaN(tc.value) {
				t.Fatalf("Value = %v, want raw %v", got, tc.value)
			}
		})
	}
}
