package loudness

import (
	"fmt"
	"testing"

	"github.com/cwbudde/algo-fxhost/dsp/core"
)

func BenchmarkMeter(b *testing.B) {
	for _, frames := range []int{64, 256, 1024} {
		for _, ch := range []int{1, 2} {
			interleaved := make([]float64, frames*ch)

			planes := make([][]float64, ch)
			for i := range planes {
				planes[i] = make([]float64, frames)
			}

			core.Deinterleave(planes, interleaved)

			b.Run(fmt.Sprintf("interleaved/%dx%d", frames, ch), func(b *testing.B) {
				m := NewMeter(WithChannels(ch))
				b.SetBytes(int64(frames * ch * 8))

				for b.Loop() {
					m.ProcessBlock(interleaved)
				}
			})

			b.Run(fmt.Sprintf("planar/%dx%d", frames, ch), func(b *testing.B) {
				m := NewMeter(WithChannels(ch))
				b.SetBytes(int64(frames * ch * 8))

				for b.Loop() {
					m.ProcessPlanar(planes, frames)
				}
			})
		}
	}
}
