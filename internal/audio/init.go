// Package audio connects the effect engine to the host: PortAudio output
// and WAV decoding.
package audio

import (
	"sync"

	"github.com/gordonklaus/portaudio"
)

var (
	initOnce sync.Once
	termOnce sync.Once
	initErr  error
)

// Initialize wraps portaudio.Initialize so that several callers may share it.
func Initialize() error {
	initOnce.Do(func() {
		initErr = portaudio.Initialize()
	})

	return initErr
}

// Terminate balances a successful Initialize.
func Terminate() {
	if initErr != nil {
		return
	}

	termOnce.Do(func() {
		_ = portaudio.Terminate()
	})
}
