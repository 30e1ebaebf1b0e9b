// Package reverb provides the allocation-free reverb kernels used by the
// host's reference effects.
//
// Included kernels:
//   - Network: Schroeder/Freeverb-style comb and allpass network with an
//     input bandwidth filter, sized once for a maximum sample rate.
//   - Kernel and Convolver: uniformly partitioned FFT convolution
//     (overlap-save with a frequency-domain delay line).
package reverb
