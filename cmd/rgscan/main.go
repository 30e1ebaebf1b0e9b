// Command rgscan computes ReplayGain 2.0 track gain and peak of WAV files.
//
// Usage:
//
//	rgscan [flags] file.wav ...
//
// Files are analysed concurrently; results are printed in argument order.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"text/tabwriter"

	"github.com/cwbudde/algo-fxhost/dsp/core"
	"github.com/sirupsen/logrus"
)

func main() {
	jobs := flag.Int("j", runtime.NumCPU(), "number of files analysed concurrently")
	asJSON := flag.Bool("json", false, "print results as JSON")
	verbose := flag.Bool("v", false, "log progress")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: rgscan [flags] file.wav ...\n\n")
		fmt.Fprintf(os.Stderr, "Prints ReplayGain track gain (reference %v LUFS) and sample peak.\n\n", referenceLUFS)
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	results, err := scanFiles(ctx, flag.Args(), *jobs, log)
	if err != nil {
		log.WithError(err).Fatal("scan aborted")
	}

	if *asJSON {
		err = writeJSON(os.Stdout, results)
	} else {
		err = writeTable(os.Stdout, results)
	}

	if err != nil {
		log.WithError(err).Fatal("write results")
	}

	for _, r := range results {
		if r.Error != "" {
			os.Exit(1)
		}
	}
}

func writeJSON(w io.Writer, results []fileResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(results)
}

func writeTable(w io.Writer, results []fileResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "File\tGain [dB]\tPeak\tPeak [dBFS]\tStatus\n")
	fmt.Fprintf(tw, "----\t---------\t----\t-----------\t------\n")

	for _, r := range results {
		switch {
		case r.Error != "":
			fmt.Fprintf(tw, "%s\t-\t-\t-\t%s\n", r.Path, r.Error)
		case !r.Valid:
			fmt.Fprintf(tw, "%s\t-\t%.6f\t%.2f\tsilent\n", r.Path, r.Peak, core.LinearToDB(r.Peak))
		default:
			fmt.Fprintf(tw, "%s\t%+.2f\t%.6f\t%.2f\tok\n", r.Path, r.GainDB, r.Peak, core.LinearToDB(r.Peak))
		}
	}

	return tw.Flush()
}
