package audio

// Clip is decoded interleaved audio held in memory. It is read by the audio
// goroutine only.
type Clip struct {
	samples    []float64
	channels   int
	sampleRate int
	pos        int
	loop       bool
}

// NewClip wraps interleaved samples. A trailing partial frame is dropped.
func NewClip(samples []float64, channels, sampleRate int) *Clip {
	if channels < 1 {
		channels = 1
	}

	frames := len(samples) / channels

	return &Clip{
		samples:    samples[:frames*channels],
		channels:   channels,
		sampleRate: sampleRate,
	}
}

// SetLoop makes Fill restart at the beginning instead of ending.
func (c *Clip) SetLoop(loop bool) { c.loop = loop }

// Channels returns the number of interleaved channels.
func (c *Clip) Channels() int { return c.channels }

// SampleRate returns the clip rate in Hz.
func (c *Clip) SampleRate() int { return c.sampleRate }

// Frames returns the clip length in frames.
func (c *Clip) Frames() int { return len(c.samples) / c.channels }

// Samples returns the clip's interleaved samples.
func (c *Clip) Samples() []float64 { return c.samples }

// Rewind moves the read position to the start.
func (c *Clip) Rewind() { c.pos = 0 }

// Done reports whether a non-looping clip has been read completely.
func (c *Clip) Done() bool { return !c.loop && c.pos >= len(c.samples) }

// Fill copies the next samples into dst and zeroes what the clip cannot
// provide. It returns the number of samples taken from the clip.
func (c *Clip) Fill(dst []float64) int {
	n := 0
	for n < len(dst) {
		if c.pos >= len(c.samples) {
			if !c.loop || len(c.samples) == 0 {
				break
			}

			c.pos = 0
		}

		k := copy(dst[n:], c.samples[c.pos:])
		c.pos += k
		n += k
	}

	clear(dst[n:])

	return n
}
