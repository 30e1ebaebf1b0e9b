package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-fxhost/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(44100),
		core.WithBlockSize(256),
	)

	fmt.Printf("sampleRate=%d blockSize=%d channels=%d\n", cfg.SampleRate, cfg.BlockSize, cfg.Channels)

	// Output:
	// sampleRate=44100 blockSize=256 channels=2
}

func ExampleDeinterleave() {
	left := make([]float64, 2)
	right := make([]float64, 2)

	frames := core.Deinterleave([][]float64{left, right}, []float64{1, 2, 3, 4})
	fmt.Println(frames, left, right)

	// Output:
	// 2 [1 3] [2 4]
}
