package core

// Deinterleave splits whole frames of src into the per-channel slices of dst
// and returns the number of frames written. A trailing partial frame is
// ignored.
func Deinterleave(dst [][]float64, src []float64) int {
	channels := len(dst)
	if channels == 0 {
		return 0
	}

	frames := len(src) / channels
	for ch := range dst {
		if len(dst[ch]) < frames {
			frames = len(dst[ch])
		}
	}

	for i := range frames {
		base := i * channels
		for ch := range channels {
			dst[ch][i] = src[base+ch]
		}
	}

	return frames
}

// Float32To64 converts src into dst and returns the number of converted samples.
func Float32To64(dst []float64, src []float32) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = float64(src[i])
	}

	return n
}

// Float64To32 converts src into dst and returns the number of converted samples.
func Float64To32(dst []float32, src []float64) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = float32(src[i])
	}

	return n
}
