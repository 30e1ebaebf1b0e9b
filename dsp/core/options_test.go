package core

import "testing"

func TestApplyProcessorOptions(t *testing.T) {
	t.Parallel()

	def := DefaultProcessorConfig()

	tests := []struct {
		name string
		opts []ProcessorOption
		want ProcessorConfig
	}{
		{name: "defaults", want: def},
		{
			name: "all set",
			opts: []ProcessorOption{WithSampleRate(96000), WithBlockSize(2048), WithChannels(1)},
			want: ProcessorConfig{SampleRate: 96000, BlockSize: 2048, Channels: 1},
		},
		{
			name: "invalid values ignored",
			opts: []ProcessorOption{WithSampleRate(0), WithBlockSize(-1), WithChannels(0), nil},
			want: def,
		},
		{
			name: "last option wins",
			opts: []ProcessorOption{WithChannels(6), WithChannels(4)},
			want: ProcessorConfig{SampleRate: def.SampleRate, BlockSize: def.BlockSize, Channels: 4},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := ApplyProcessorOptions(tc.opts...); got != tc.want {
				t.Fatalf("cfg = %#v, want %#v", got, tc.want)
			}
		})
	}
}
