package effectchain

// Processor is the per-instance DSP contract.
//
// Initialize runs once on the control goroutine before the effect is handed
// to the engine and must allocate everything Process will ever need.
// Process runs on the audio goroutine: it must not block, lock or allocate,
// and on a broken precondition it returns one of the package's sentinel
// errors instead of panicking. input and output never alias.
type Processor interface {
	Initialize(setup Setup) error
	Process(group GroupID, input, output []float64, sampleRate int,
		state EnableState, features GroupFeatures) error
}
