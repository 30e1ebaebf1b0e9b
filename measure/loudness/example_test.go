package loudness_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fxhost/measure/loudness"
)

func ExampleMeter() {
	fs := 48000
	m := loudness.NewMeter(
		loudness.WithSampleRate(fs),
		loudness.WithChannels(1),
	)

	// 4 seconds of a 1 kHz sine at 0.5 amplitude (-6.02 dBFS).
	// mean square = (0.5^2)/2 = 0.125, 10*log10(0.125) = -9.03.
	n := fs * 4

	sig := make([]float64, n)
	for i := range sig {
		sig[i] = 0.5 * math.Sin(2*math.Pi*1000.0/float64(fs)*float64(i))
	}

	m.StartIntegration()
	m.ProcessBlock(sig)

	fmt.Printf("Momentary: %.1f LUFS\n", m.Momentary())
	fmt.Printf("Short-term: %.1f LUFS\n", m.ShortTerm())
	fmt.Printf("Integrated: %.1f LUFS\n", m.Integrated())

	// Output:
	// Momentary: -9.0 LUFS
	// Short-term: -9.0 LUFS
	// Integrated: -9.2 LUFS
}
