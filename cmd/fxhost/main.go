// Command fxhost plays a WAV file through a chain of effects.
//
// Usage:
//
//	fxhost [flags] -in file.wav
//
// Keys (when attached to a terminal):
//
//	1-9   select a slot and toggle its effect
//	+/-   raise or lower the last parameter of the selected slot
//	q     quit
//
// Examples:
//
//	fxhost -in drums.wav -fx algofx.reverb -enable
//	fxhost -in vocals.wav -fx algofx.room,algofx.reverb -loop -listen :8090
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cwbudde/algo-fxhost/dsp/effectchain"
	"github.com/cwbudde/algo-fxhost/internal/audio"
	"github.com/cwbudde/algo-fxhost/internal/remote"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

func main() {
	in := flag.String("in", "", "WAV file to play")
	fx := flag.String("fx", effectchain.ReverbID, "comma separated effect ids, loaded into slots in order")
	enable := flag.Bool("enable", false, "enable the loaded effects right away")
	loop := flag.Bool("loop", false, "loop the input file")
	frames := flag.Int("frames", audio.DefaultFramesPerBuffer, "frames per audio callback")
	slots := flag.Int("slots", 4, "number of chain slots")
	listen := flag.String("listen", "", "address of the remote control server, e.g. :8090")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fxhost [flags] -in file.wav\n\n")
		fmt.Fprintf(os.Stderr, "Plays a WAV file through a chain of effects.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := hostConfig{
		input:   *in,
		effects: splitIDs(*fx),
		enable:  *enable,
		loop:    *loop,
		frames:  *frames,
		slots:   *slots,
		listen:  *listen,
	}

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("fxhost")
	}
}

type hostConfig struct {
	input   string
	effects []string
	enable  bool
	loop    bool
	frames  int
	slots   int
	listen  string
}

func splitIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	return ids
}

func run(ctx context.Context, cfg hostConfig, log *logrus.Logger) error {
	clip, err := audio.LoadWAV(cfg.input)
	if err != nil {
		return err
	}
	clip.SetLoop(cfg.loop)

	engine, err := newEngine(clip, cfg, log)
	if err != nil {
		return err
	}

	if err := audio.Initialize(); err != nil {
		return fmt.Errorf("initialize PortAudio: %w", err)
	}
	defer audio.Terminate()

	player, err := audio.NewPlayer(engine, clip, cfg.frames)
	if err != nil {
		return err
	}

	if err := player.Start(); err != nil {
		return err
	}
	defer player.Close()

	if err := loadChain(ctx, engine.Controller(), cfg.effects, cfg.enable); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"file":     cfg.input,
		"rate":     clip.SampleRate(),
		"channels": clip.Channels(),
		"effects":  cfg.effects,
	}).Info("playing")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go engine.Controller().WatchDiagnostics(ctx, 250*time.Millisecond)

	if cfg.listen != "" {
		srv := remote.NewServer(engine, remote.WithLogger(log))

		go func() {
			if err := srv.ListenAndServe(ctx, cfg.listen); err != nil {
				log.WithError(err).Error("remote control stopped")
			}
		}()
	}

	quit := make(chan struct{})
	if term.IsTerminal(int(os.Stdin.Fd())) {
		k := newKeyControl(engine.Controller(), log)
		go k.run(ctx, quit)
	}

	select {
	case <-ctx.Done():
	case <-quit:
	case <-player.Done():
	}

	return nil
}

func newEngine(clip *audio.Clip, cfg hostConfig, log logrus.FieldLogger) (*effectchain.Engine, error) {
	return effectchain.New(effectchain.DefaultRegistry(),
		effectchain.WithSampleRate(clip.SampleRate()),
		effectchain.WithMaxSampleRate(max(clip.SampleRate(), 192000)),
		effectchain.WithChannels(clip.Channels()),
		effectchain.WithMaxBlockSize(max(cfg.frames, 1)*clip.Channels()),
		effectchain.WithSlots(max(cfg.slots, len(cfg.effects))),
		effectchain.WithLogger(log),
	)
}

func loadChain(ctx context.Context, ctrl *effectchain.Controller, ids []string, enable bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	for slot, id := range ids {
		if err := ctrl.LoadEffect(ctx, slot, id); err != nil {
			return err
		}

		if enable {
			if err := ctrl.SetEnabled(ctx, slot, true); err != nil {
				return err
			}
		}
	}

	return nil
}
