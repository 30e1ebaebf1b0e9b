package audio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/algo-fxhost/dsp/core"
	"github.com/mjibson/go-dsp/wav"
)

// ErrNoAudio is returned for WAV streams without channels or sample rate.
var ErrNoAudio = errors.New("audio: stream carries no audio")

// WAVReader decodes a WAV stream into interleaved float64 samples in
// [-1, 1].
type WAVReader struct {
	w *wav.Wav
}

// NewWAVReader parses the header of r.
func NewWAVReader(r io.Reader) (*WAVReader, error) {
	w, err := wav.New(r)
	if err != nil {
		return nil, fmt.Errorf("audio: parse wav: %w", err)
	}

	if w.NumChannels == 0 || w.SampleRate == 0 {
		return nil, ErrNoAudio
	}

	return &WAVReader{w: w}, nil
}

// SampleRate returns the stream rate in Hz.
func (r *WAVReader) SampleRate() int { return int(r.w.SampleRate) }

// Channels returns the number of interleaved channels.
func (r *WAVReader) Channels() int { return int(r.w.NumChannels) }

// TotalSamples returns the number of samples announced by the header,
// counted over all channels.
func (r *WAVReader) TotalSamples() int { return r.w.Samples }

// Read fills dst with the next samples and returns how many were written.
// It returns io.EOF once the data chunk is exhausted.
func (r *WAVReader) Read(dst []float64) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	floats, err := r.w.ReadFloats(len(dst))
	n := core.Float32To64(dst, floats)

	switch {
	case err == nil:
		return n, nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		if n > 0 {
			return n, nil
		}

		return 0, io.EOF
	default:
		return n, fmt.Errorf("audio: read wav: %w", err)
	}
}

// ReadAll decodes the rest of the stream.
func (r *WAVReader) ReadAll() ([]float64, error) {
	out := make([]float64, 0, max(r.w.Samples, 0))
	buf := make([]float64, 4096)

	for {
		n, err := r.Read(buf)
		out = append(out, buf[:n]...)

		if errors.Is(err, io.EOF) {
			return out, nil
		}

		if err != nil {
			return out, err
		}
	}
}

// LoadWAV decodes the file at path into a Clip.
func LoadWAV(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := NewWAVReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	samples, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return NewClip(samples, r.Channels(), r.SampleRate()), nil
}
