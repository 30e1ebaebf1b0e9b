package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/algo-fxhost/internal/audio"
	"github.com/cwbudde/algo-fxhost/measure/replaygain"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const referenceLUFS = replaygain.ReferenceLUFS

const readFrames = 4096

type fileResult struct {
	Path   string  `json:"path"`
	GainDB float64 `json:"gainDB"`
	Peak   float64 `json:"peak"`
	Valid  bool    `json:"valid"`
	Error  string  `json:"error,omitempty"`
}

// scanFiles analyses paths with at most jobs files in flight. Per-file
// failures are reported in the result; only cancellation aborts the scan.
func scanFiles(ctx context.Context, paths []string, jobs int, log logrus.FieldLogger) ([]fileResult, error) {
	results := make([]fileResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(jobs, 1))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			res, err := scanFile(ctx, path)
			if errors.Is(err, context.Canceled) {
				return err
			}

			results[i] = fileResult{Path: path, GainDB: res.GainDB, Peak: res.Peak, Valid: res.Valid}
			if err != nil {
				results[i].Error = err.Error()
				log.WithError(err).WithField("file", path).Warn("analysis failed")

				return nil
			}

			log.WithFields(logrus.Fields{"file": path, "gain": res.GainDB, "peak": res.Peak}).Debug("analysed")

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func scanFile(ctx context.Context, path string) (replaygain.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return replaygain.Result{}, err
	}
	defer f.Close()

	r, err := audio.NewWAVReader(f)
	if err != nil {
		return replaygain.Result{}, err
	}

	return analyze(ctx, r)
}

type sampleReader interface {
	SampleRate() int
	Channels() int
	TotalSamples() int
	Read(dst []float64) (int, error)
}

func analyze(ctx context.Context, r sampleReader) (replaygain.Result, error) {
	track := &replaygain.MemTrack{}
	a := replaygain.NewGainAnalyzer(replaygain.WithChannels(r.Channels()))

	if !a.Initialize(track, r.SampleRate(), max(r.TotalSamples(), 1)) {
		return replaygain.Result{}, fmt.Errorf("cannot analyse %d Hz x %d", r.SampleRate(), r.Channels())
	}
	defer a.Cleanup()

	buf := make([]float64, readFrames*r.Channels())

	for {
		if err := ctx.Err(); err != nil {
			return replaygain.Result{}, err
		}

		n, err := r.Read(buf)
		a.ProcessSamples(buf, n)

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return replaygain.Result{}, err
		}
	}

	a.StoreResults(track)

	return track.ReplayGain(), nil
}
