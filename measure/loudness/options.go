package loudness

import "github.com/cwbudde/algo-fxhost/dsp/core"

// SurroundWeight is the BS.1770 gain of the left and right surround
// channels.
const SurroundWeight = 1.41

// MeterConfig defines configuration for the loudness meter.
type MeterConfig struct {
	core.ProcessorConfig

	// Weights are per-channel gains applied to the mean squares. Missing
	// entries count as 1.
	Weights []float64
}

// MeterOption mutates a MeterConfig.
type MeterOption func(*MeterConfig)

// DefaultMeterConfig returns stereo at 48 kHz with unit weights.
func DefaultMeterConfig() MeterConfig {
	return MeterConfig{ProcessorConfig: core.DefaultProcessorConfig()}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate int) MeterOption {
	return func(cfg *MeterConfig) {
		core.WithSampleRate(sampleRate)(&cfg.ProcessorConfig)
	}
}

// WithChannels sets the number of interleaved channels.
func WithChannels(channels int) MeterOption {
	return func(cfg *MeterConfig) {
		core.WithChannels(channels)(&cfg.ProcessorConfig)
	}
}

// WithChannelWeights sets per-channel weights, e.g. 1, 1, 1,
// SurroundWeight, SurroundWeight for an L R C Ls Rs layout. Negative or
// non-finite weights are ignored.
func WithChannelWeights(weights ...float64) MeterOption {
	return func(cfg *MeterConfig) {
		for _, w := range weights {
			if w < 0 || !core.IsFinite(w) {
				return
			}
		}

		cfg.Weights = append([]float64(nil), weights...)
	}
}

// ApplyMeterOptions applies zero or more options to the default config.
func ApplyMeterOptions(opts ...MeterOption) MeterConfig {
	cfg := DefaultMeterConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

func (cfg MeterConfig) weight(ch int) float64 {
	if ch < len(cfg.Weights) {
		return cfg.Weights[ch]
	}

	return 1
}
