package ramp

import (
	"errors"
	"unsafe"
)

var (
	// ErrAliasedBuffers is returned when a source buffer overlaps the
	// destination in a way the ramp cannot read before it writes.
	ErrAliasedBuffers = errors.New("ramp: source and destination overlap")
	// ErrShortBuffer is returned when a source is shorter than the destination.
	ErrShortBuffer = errors.New("ramp: source shorter than destination")
)

// Weight returns the gain of an n-sample linear ramp from -> to at index i.
func Weight(from, to float64, i, n int) float64 {
	if n <= 0 {
		return from
	}

	return from + (to-from)*float64(i)/float64(n)
}

// ApplyGain multiplies buf in place by a linear ramp from -> to.
func ApplyGain(buf []float64, from, to float64) {
	n := len(buf)
	if n == 0 {
		return
	}

	if from == to {
		if from == 1 {
			return
		}

		for i := range buf {
			buf[i] *= from
		}

		return
	}

	delta := (to - from) / float64(n)
	for i := range buf {
		buf[i] *= from + delta*float64(i)
	}
}

// CopyWithRampingGain writes src scaled by a linear ramp from -> to into dst.
// dst and src may be the same slice; any other overlap is rejected.
func CopyWithRampingGain(dst, src []float64, from, to float64) error {
	n := len(dst)
	if n == 0 {
		return nil
	}

	if len(src) < n {
		return ErrShortBuffer
	}

	if Overlaps(dst, src) && !sameStart(dst, src) {
		return ErrAliasedBuffers
	}

	delta := (to - from) / float64(n)
	for i := range n {
		dst[i] = src[i] * (from + delta*float64(i))
	}

	return nil
}

// Copy2WithRampingGain crossfades two sources into dst:
//
//	dst[i] = src1[i]*w1(i) + src2[i]*w2(i)
//
// where w1 ramps g1from -> g1to and w2 ramps g2from -> g2to over len(dst)
// samples. dst may be src2 itself (each index is read before it is written)
// but must not overlap src1. Nothing is written when an error is returned.
func Copy2WithRampingGain(
	dst, src1 []float64, g1from, g1to float64,
	src2 []float64, g2from, g2to float64,
) error {
	n := len(dst)
	if n == 0 {
		return nil
	}

	if len(src1) < n || len(src2) < n {
		return ErrShortBuffer
	}

	if Overlaps(dst, src1) {
		return ErrAliasedBuffers
	}

	if Overlaps(dst, src2) && !sameStart(dst, src2) {
		return ErrAliasedBuffers
	}

	d1 := (g1to - g1from) / float64(n)
	d2 := (g2to - g2from) / float64(n)

	for i := range n {
		x := float64(i)
		dst[i] = src1[i]*(g1from+d1*x) + src2[i]*(g2from+d2*x)
	}

	return nil
}

// Overlaps reports whether the memory of a and b intersects.
func Overlaps(a, b []float64) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}

	const size = unsafe.Sizeof(float64(0))

	a0 := uintptr(unsafe.Pointer(unsafe.SliceData(a)))
	b0 := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	a1 := a0 + uintptr(len(a))*size
	b1 := b0 + uintptr(len(b))*size

	return a0 < b1 && b0 < a1
}

func sameStart(a, b []float64) bool {
	return unsafe.SliceData(a) == unsafe.SliceData(b)
}
