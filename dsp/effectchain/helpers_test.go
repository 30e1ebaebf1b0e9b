package effectchain

import (
	"context"
	"sync"
	"testing"
	"time"
)

const (
	constID = "test.const"
	gainID  = "test.gain"
	failID  = "test.fail"
)

// constProcessor writes its "level" parameter to every output sample.
type constProcessor struct {
	level *Parameter

	mu     sync.Mutex
	states []EnableState
	closed bool
}

func (c *constProcessor) Initialize(Setup) error { return nil }

func (c *constProcessor) Process(_ GroupID, _, output []float64, _ int, state EnableState, _ GroupFeatures) error {
	c.mu.Lock()
	if len(c.states) < cap(c.states) {
		c.states = append(c.states, state)
	}
	c.mu.Unlock()

	for i := range output {
		output[i] = c.level.Clamped()
	}

	return nil
}

func (c *constProcessor) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true

	return nil
}

func (c *constProcessor) seenStates() []EnableState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]EnableState(nil), c.states...)
}

func (c *constProcessor) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}

// gainProcessor multiplies every sample by its "gain" parameter.
type gainProcessor struct {
	gain *Parameter
}

func (g *gainProcessor) Initialize(Setup) error { return nil }

func (g *gainProcessor) Process(_ GroupID, input, output []float64, _ int, _ EnableState, _ GroupFeatures) error {
	for i := range output {
		output[i] = input[i] * g.gain.Clamped()
	}

	return nil
}

// failProcessor scribbles on its output and reports a broken precondition.
type failProcessor struct{}

func (failProcessor) Initialize(Setup) error { return nil }

func (failProcessor) Process(_ GroupID, _, output []float64, _ int, _ EnableState, _ GroupFeatures) error {
	for i := range output {
		output[i] = 99
	}

	return ErrMissingParameter
}

func constManifest() *Manifest {
	return &Manifest{
		ID:   constID,
		Name: "Constant",
		Parameters: []ParameterDescriptor{
			{ID: "level", Name: "Level", Minimum: -1, Default: 0.5, Maximum: 1},
			{ID: "decay", Name: "Decay", Minimum: 0, Default: 0.5, Maximum: 1},
		},
	}
}

func newTestRegistry(t *testing.T) (*Registry, *[]*constProcessor) {
	t.Helper()

	var (
		mu    sync.Mutex
		procs []*constProcessor
	)

	r := NewRegistry()
	r.MustRegister(constManifest(), func(params *ParameterSet) (Processor, error) {
		p := &constProcessor{level: params.ByID("level"), states: make([]EnableState, 0, 64)}

		mu.Lock()
		procs = append(procs, p)
		mu.Unlock()

		return p, nil
	})
	r.MustRegister(&Manifest{
		ID:                 gainID,
		Name:               "Gain",
		EffectRampsFromDry: true,
		Parameters:         []ParameterDescriptor{{ID: "gain", Name: "Gain", Minimum: 0, Default: 2, Maximum: 4}},
	}, func(params *ParameterSet) (Processor, error) {
		return &gainProcessor{gain: params.ByID("gain")}, nil
	})
	r.MustRegister(&Manifest{ID: failID, Name: "Fail"}, func(*ParameterSet) (Processor, error) {
		return failProcessor{}, nil
	})

	return r, &procs
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()

	reg, _ := newTestRegistry(t)

	opts = append([]Option{WithChannels(1), WithMaxBlockSize(1024)}, opts...)

	e, err := New(reg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	return e
}

// send queues a request as the controller would, without waiting.
func send(t *testing.T, e *Engine, req Request) {
	t.Helper()

	if !e.requests.Push(req) {
		t.Fatal("request ring full")
	}
}

// load instantiates id and queues it for slot.
func load(t *testing.T, e *Engine, slot int, id string) *Effect {
	t.Helper()

	fx, err := e.registry.Instantiate(id, e.setup)
	if err != nil {
		t.Fatalf("Instantiate(%s): %v", id, err)
	}

	send(t, e, Request{ID: uint64(100 + slot), Type: LoadEffect, Slot: slot, effect: fx})

	return fx
}

// responses pops every queued response.
func responses(e *Engine) []Response {
	var out []Response

	for {
		r, ok := e.responses.Pop()
		if !ok {
			return out
		}

		out = append(out, r)
	}
}

// run processes one mono callback on the default group.
func run(e *Engine, input []float64) []float64 {
	out := make([]float64, len(input))
	e.Process([]Block{{Group: 0, Input: input, Output: out}}, e.SampleRate())

	return out
}

// pump drives e from a goroutine, as an audio callback would, until the
// test ends.
func pump(t *testing.T, e *Engine) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)

		in := make([]float64, 64)
		out := make([]float64, 64)
		blocks := []Block{{Group: 0, Input: in, Output: out}}

		for ctx.Err() == nil {
			e.Process(blocks, e.SampleRate())
			time.Sleep(100 * time.Microsecond)
		}
	}()

	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func testContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	return ctx
}
