// Package ramp provides linear gain ramps and two-source crossfades used to
// make effect enable/disable transitions click-free.
//
// A ramp spans exactly the length of the destination buffer. The gain at
// sample i of an n-sample buffer is from + (to-from)*i/n, evaluated in double
// precision, so a crossfade whose two ramps run in opposite directions keeps
// the sum of both weights at 1 for every sample.
package ramp
