package effectchain

// GroupID identifies a signal group (a deck, a bus) routed through the
// engine. Group ids are small contiguous integers so processors can keep
// their per-group state in a slice.
type GroupID int

// GroupFeatures carries optional per-buffer information about a group.
type GroupFeatures struct {
	BeatLength    float64
	HasBeatLength bool
}

// Setup provides environmental information that processors need to
// preallocate their per-group state.
type Setup struct {
	Groups        []GroupID
	Channels      int
	MaxBlockSize  int
	MaxSampleRate int
}

// NumGroups returns the size of a slice indexable by every group id in s.
func (s Setup) NumGroups() int {
	n := 0
	for _, g := range s.Groups {
		n = max(n, int(g)+1)
	}

	return n
}
