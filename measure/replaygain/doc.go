// Package replaygain computes ReplayGain 2.0 track gains.
//
// A GainAnalyzer measures the integrated EBU R128 loudness of a track and
// stores the gain that brings it to the -18 LUFS reference level, together
// with the sample peak. Input arrives as interleaved chunks of any length,
// including chunks that split a frame; the result does not depend on how
// the track was chunked.
package replaygain
