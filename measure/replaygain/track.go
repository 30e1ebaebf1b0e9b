package replaygain

import "sync"

// MemTrack is a Track that keeps its result in memory.
type MemTrack struct {
	mu     sync.Mutex
	result Result
}

// ReplayGain implements Track.
func (t *MemTrack) ReplayGain() Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.result
}

// SetReplayGain implements Track.
func (t *MemTrack) SetReplayGain(r Result) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.result = r
}
