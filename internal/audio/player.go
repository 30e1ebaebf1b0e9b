package audio

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cwbudde/algo-fxhost/dsp/core"
	"github.com/cwbudde/algo-fxhost/dsp/effectchain"
	"github.com/gordonklaus/portaudio"
)

// DefaultFramesPerBuffer is the PortAudio callback size used when none is
// configured.
const DefaultFramesPerBuffer = 512

var (
	// ErrChannelMismatch is returned when clip and engine disagree on the
	// channel count.
	ErrChannelMismatch = errors.New("audio: clip and engine channel counts differ")
	// ErrBufferTooLarge is returned when a callback buffer exceeds the
	// engine's maximum block size.
	ErrBufferTooLarge = errors.New("audio: callback buffer exceeds engine block size")
	// ErrRateTooHigh is returned for clips above the engine's maximum rate.
	ErrRateTooHigh = errors.New("audio: clip rate exceeds engine maximum")
)

// Player streams a Clip through an Engine to the default output device.
type Player struct {
	engine *effectchain.Engine
	clip   *Clip
	frames int

	buf    []float64
	blocks []effectchain.Block

	stream *portaudio.Stream

	done     chan struct{}
	doneOnce sync.Once
}

// NewPlayer prepares playback of clip into the engine's first group.
// framesPerBuffer <= 0 selects DefaultFramesPerBuffer.
func NewPlayer(engine *effectchain.Engine, clip *Clip, framesPerBuffer int) (*Player, error) {
	if framesPerBuffer <= 0 {
		framesPerBuffer = DefaultFramesPerBuffer
	}

	if clip.Channels() != engine.Channels() {
		return nil, fmt.Errorf("%w: clip %d, engine %d", ErrChannelMismatch, clip.Channels(), engine.Channels())
	}

	if clip.SampleRate() > engine.Setup().MaxSampleRate {
		return nil, fmt.Errorf("%w: %d Hz", ErrRateTooHigh, clip.SampleRate())
	}

	n := framesPerBuffer * clip.Channels()
	if n > engine.MaxBlockSize() {
		return nil, fmt.Errorf("%w: %d > %d", ErrBufferTooLarge, n, engine.MaxBlockSize())
	}

	group, _ := engine.Group(engine.Groups()[0])

	p := &Player{
		engine: engine,
		clip:   clip,
		frames: framesPerBuffer,
		buf:    make([]float64, n),
		done:   make(chan struct{}),
	}
	p.blocks = []effectchain.Block{{Group: group, Input: p.buf, Output: p.buf}}

	return p, nil
}

// Start opens and starts the output stream. Initialize must have been
// called.
func (p *Player) Start() error {
	stream, err := portaudio.OpenDefaultStream(0, p.clip.Channels(), float64(p.clip.SampleRate()), p.frames, p.render)
	if err != nil {
		return fmt.Errorf("audio: open stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return fmt.Errorf("audio: start stream: %w", err)
	}

	p.stream = stream

	return nil
}

// Done is closed once a non-looping clip has been played completely.
func (p *Player) Done() <-chan struct{} { return p.done }

// Close stops and closes the stream.
func (p *Player) Close() error {
	if p.stream == nil {
		return nil
	}

	stream := p.stream
	p.stream = nil

	if err := stream.Stop(); err != nil {
		_ = stream.Close()
		return err
	}

	return stream.Close()
}

// render is the PortAudio callback. It runs on the audio goroutine and
// must not block.
func (p *Player) render(out []float32) {
	n := min(len(out), len(p.buf))
	buf := p.buf[:n]

	p.clip.Fill(buf)

	p.blocks[0].Input = buf
	p.blocks[0].Output = buf
	p.engine.Process(p.blocks, p.clip.SampleRate())

	core.Float64To32(out, buf)
	clear(out[n:])

	if p.clip.Done() {
		p.doneOnce.Do(func() { close(p.done) })
	}
}
