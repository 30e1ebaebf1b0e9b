package reverb

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

var (
	// ErrPartitionSize is returned for a partition size that is not a
	// positive power of two.
	ErrPartitionSize = errors.New("reverb: partition size must be a positive power of two")
	// ErrKernelTooLong is returned by Kernel.Set for an impulse response
	// longer than the kernel was sized for.
	ErrKernelTooLong = errors.New("reverb: impulse response exceeds kernel capacity")
)

// Kernel holds the partition spectra of an impulse response. It is sized
// once for a maximum response length; Set recomputes the spectra in place.
type Kernel struct {
	partSize int
	parts    int
	spectra  [][]complex128
	plan     *algofft.Plan[complex128]
	scratch  []complex128
}

// NewKernel allocates a kernel for responses of up to maxLength samples,
// split into partitions of partSize samples.
func NewKernel(partSize, maxLength int) (*Kernel, error) {
	if partSize <= 0 || partSize&(partSize-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrPartitionSize, partSize)
	}

	if maxLength <= 0 {
		return nil, fmt.Errorf("reverb: kernel length must be positive, got %d", maxLength)
	}

	plan, err := algofft.NewPlan64(2 * partSize)
	if err != nil {
		return nil, fmt.Errorf("reverb: failed to create FFT plan: %w", err)
	}

	maxParts := (maxLength + partSize - 1) / partSize
	k := &Kernel{
		partSize: partSize,
		spectra:  make([][]complex128, maxParts),
		plan:     plan,
		scratch:  make([]complex128, 2*partSize),
	}

	for i := range k.spectra {
		k.spectra[i] = make([]complex128, 2*partSize)
	}

	return k, nil
}

// PartitionSize returns the partition length in samples.
func (k *Kernel) PartitionSize() int { return k.partSize }

// Partitions returns the number of partitions of the current response.
func (k *Kernel) Partitions() int { return k.parts }

// Capacity returns the longest response Set accepts.
func (k *Kernel) Capacity() int { return len(k.spectra) * k.partSize }

// Set replaces the impulse response. It does not allocate.
func (k *Kernel) Set(ir []float64) error {
	if len(ir) > k.Capacity() {
		return ErrKernelTooLong
	}

	parts := (len(ir) + k.partSize - 1) / k.partSize

	for p := range parts {
		clear(k.scratch)

		seg := ir[p*k.partSize : min((p+1)*k.partSize, len(ir))]
		for i, v := range seg {
			k.scratch[i] = complex(v, 0)
		}

		if err := k.plan.Forward(k.spectra[p], k.scratch); err != nil {
			return err
		}
	}

	k.parts = parts

	return nil
}

// Convolver streams a signal through a Kernel using uniformly partitioned
// overlap-save convolution. Output is delayed by one partition.
type Convolver struct {
	kernel *Kernel
	plan   *algofft.Plan[complex128]

	// fdl is a ring of input block spectra, newest at head.
	fdl  [][]complex128
	head int

	time []complex128
	acc  []complex128
	prev []float64
	in   []float64
	out  []float64
	pos  int
}

// NewConvolver allocates a convolver for k. Several convolvers may share
// one kernel.
func NewConvolver(k *Kernel) (*Convolver, error) {
	if k == nil {
		return nil, errors.New("reverb: nil kernel")
	}

	n := 2 * k.partSize

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("reverb: failed to create FFT plan: %w", err)
	}

	c := &Convolver{
		kernel: k,
		plan:   plan,
		fdl:    make([][]complex128, len(k.spectra)),
		time:   make([]complex128, n),
		acc:    make([]complex128, n),
		prev:   make([]float64, k.partSize),
		in:     make([]float64, k.partSize),
		out:    make([]float64, k.partSize),
	}

	for i := range c.fdl {
		c.fdl[i] = make([]complex128, n)
	}

	return c, nil
}

// Latency returns the output delay in samples.
func (c *Convolver) Latency() int { return c.kernel.partSize }

// ProcessSample pushes one input sample and returns one output sample.
func (c *Convolver) ProcessSample(x float64) float64 {
	c.in[c.pos] = x
	y := c.out[c.pos]

	c.pos++
	if c.pos == len(c.in) {
		c.pos = 0
		c.flush()
	}

	return y
}

// flush convolves the completed input block and refills the output block.
func (c *Convolver) flush() {
	p := c.kernel.partSize

	for i := range p {
		c.time[i] = complex(c.prev[i], 0)
		c.time[p+i] = complex(c.in[i], 0)
	}

	copy(c.prev, c.in)

	c.head = (c.head + 1) % len(c.fdl)
	// In-place transforms on preallocated buffers cannot fail for a plan
	// of matching size.
	_ = c.plan.Forward(c.fdl[c.head], c.time)

	clear(c.acc)

	for k := range c.kernel.parts {
		x := c.fdl[(c.head-k+len(c.fdl))%len(c.fdl)]
		h := c.kernel.spectra[k]

		for i := range c.acc {
			c.acc[i] += x[i] * h[i]
		}
	}

	_ = c.plan.Inverse(c.acc, c.acc)

	for i := range p {
		c.out[i] = real(c.acc[p+i])
	}
}

// Reset clears the input history and pending output.
func (c *Convolver) Reset() {
	for i := range c.fdl {
		clear(c.fdl[i])
	}

	clear(c.prev)
	clear(c.in)
	clear(c.out)

	c.head = 0
	c.pos = 0
}
