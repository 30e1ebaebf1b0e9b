package effectchain

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-fxhost/dsp/core"
)

const (
	defaultMaxSampleRate       = 192000
	defaultSlots               = 4
	defaultQueueSize           = 256
	defaultMaxRequestsPerCycle = 64
	defaultPollInterval        = time.Millisecond

	// DefaultGroup is the single group an engine has without WithGroups.
	DefaultGroup = "master"
)

var errInvalidConfig = errors.New("effectchain: invalid engine config")

// engineConfig extends the shared stream format. BlockSize is the largest
// Block in samples.
type engineConfig struct {
	core.ProcessorConfig

	maxSampleRate       int
	groups              []string
	slots               int
	queueSize           int
	maxRequestsPerCycle int
	pollInterval        time.Duration
	logger              logrus.FieldLogger
}

func defaultEngineConfig() engineConfig {
	return engineConfig{
		ProcessorConfig:     core.DefaultProcessorConfig(),
		maxSampleRate:       defaultMaxSampleRate,
		groups:              []string{DefaultGroup},
		slots:               defaultSlots,
		queueSize:           defaultQueueSize,
		maxRequestsPerCycle: defaultMaxRequestsPerCycle,
		pollInterval:        defaultPollInterval,
		logger:              logrus.StandardLogger(),
	}
}

// Option mutates engine configuration.
type Option func(*engineConfig)

// WithSampleRate sets the nominal sample rate in Hz.
func WithSampleRate(sampleRate int) Option {
	return func(c *engineConfig) { c.SampleRate = sampleRate }
}

// WithMaxSampleRate sets the highest sample rate processors must support.
func WithMaxSampleRate(sampleRate int) Option {
	return func(c *engineConfig) { c.maxSampleRate = sampleRate }
}

// WithMaxBlockSize sets the largest buffer, in samples, one Block may carry.
func WithMaxBlockSize(n int) Option {
	return func(c *engineConfig) { c.BlockSize = n }
}

// WithChannels sets the number of interleaved channels per buffer.
func WithChannels(channels int) Option {
	return func(c *engineConfig) { c.Channels = channels }
}

// WithGroups names the signal groups. Group ids follow the given order.
func WithGroups(names ...string) Option {
	return func(c *engineConfig) { c.groups = append([]string(nil), names...) }
}

// WithSlots sets the number of effect slots in the chain.
func WithSlots(n int) Option {
	return func(c *engineConfig) { c.slots = n }
}

// WithQueueSize sets the capacity of the request, response and diagnostic
// rings.
func WithQueueSize(n int) Option {
	return func(c *engineConfig) { c.queueSize = n }
}

// WithMaxRequestsPerCycle bounds how many requests one callback applies.
func WithMaxRequestsPerCycle(n int) Option {
	return func(c *engineConfig) { c.maxRequestsPerCycle = n }
}

// WithPollInterval sets how often the controller polls for responses.
func WithPollInterval(d time.Duration) Option {
	return func(c *engineConfig) { c.pollInterval = d }
}

// WithLogger sets the logger used on the control side.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *engineConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

func (c *engineConfig) validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", errInvalidConfig, c.SampleRate)
	case c.maxSampleRate < c.SampleRate:
		return fmt.Errorf("%w: max sample rate %d below sample rate %d", errInvalidConfig, c.maxSampleRate, c.SampleRate)
	case c.BlockSize <= 0:
		return fmt.Errorf("%w: max block size %d", errInvalidConfig, c.BlockSize)
	case c.Channels <= 0:
		return fmt.Errorf("%w: channels %d", errInvalidConfig, c.Channels)
	case c.BlockSize%c.Channels != 0:
		return fmt.Errorf("%w: max block size %d not a multiple of %d channels", errInvalidConfig, c.BlockSize, c.Channels)
	case len(c.groups) == 0:
		return fmt.Errorf("%w: no groups", errInvalidConfig)
	case c.slots <= 0:
		return fmt.Errorf("%w: slots %d", errInvalidConfig, c.slots)
	case c.queueSize <= 0:
		return fmt.Errorf("%w: queue size %d", errInvalidConfig, c.queueSize)
	case c.maxRequestsPerCycle <= 0:
		return fmt.Errorf("%w: max requests per cycle %d", errInvalidConfig, c.maxRequestsPerCycle)
	case c.pollInterval <= 0:
		return fmt.Errorf("%w: poll interval %v", errInvalidConfig, c.pollInterval)
	}

	seen := make(map[string]struct{}, len(c.groups))
	for _, g := range c.groups {
		if g == "" {
			return fmt.Errorf("%w: empty group name", errInvalidConfig)
		}

		if _, dup := seen[g]; dup {
			return fmt.Errorf("%w: duplicate group %q", errInvalidConfig, g)
		}

		seen[g] = struct{}{}
	}

	return nil
}
