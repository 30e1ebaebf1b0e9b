package effectchain

// DefaultRegistry returns a Registry pre-populated with the built-in effects.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister(reverbManifest(), newReverbRuntime)
	r.MustRegister(roomManifest(), newRoomRuntime)

	return r
}
