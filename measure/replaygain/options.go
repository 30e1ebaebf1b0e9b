package replaygain

const (
	defaultChannels    = 2
	defaultChunkFrames = 4096
)

// Config defines the analyzer settings.
type Config struct {
	Enabled     bool
	Reanalyze   bool
	Channels    int
	ChunkFrames int
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns an enabled stereo analyzer that keeps existing gains.
func DefaultConfig() Config {
	return Config{
		Enabled:     true,
		Channels:    defaultChannels,
		ChunkFrames: defaultChunkFrames,
	}
}

// WithEnabled switches the analyzer on or off.
func WithEnabled(enabled bool) Option {
	return func(cfg *Config) { cfg.Enabled = enabled }
}

// WithReanalyze makes the analyzer replace gains already stored on a track.
func WithReanalyze(reanalyze bool) Option {
	return func(cfg *Config) { cfg.Reanalyze = reanalyze }
}

// WithChannels sets the interleaved channel count.
func WithChannels(channels int) Option {
	return func(cfg *Config) {
		if channels > 0 {
			cfg.Channels = channels
		}
	}
}

// WithChunkFrames sets how many frames are deinterleaved at a time.
func WithChunkFrames(frames int) Option {
	return func(cfg *Config) {
		if frames > 0 {
			cfg.ChunkFrames = frames
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
