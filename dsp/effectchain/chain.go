package effectchain

import (
	"sync/atomic"

	"github.com/cwbudde/algo-fxhost/internal/spsc"
)

// Block is one group's buffer for an audio callback. Input and Output hold
// interleaved samples and may be the same slice.
type Block struct {
	Group    GroupID
	Input    []float64
	Output   []float64
	Features GroupFeatures
}

// Engine owns a fixed chain of effect slots and runs it on the audio
// goroutine. Control goroutines reach it only through its Controller.
type Engine struct {
	cfg      engineConfig
	registry *Registry
	setup    Setup
	groupIDs map[string]GroupID

	// Audio-goroutine state.
	slots     []*Effect
	routes    [][]EnableState
	unloading []unloadRequest
	scratch   [2][]float64

	requests    *spsc.Ring[Request]
	responses   *spsc.Ring[Response]
	diagnostics *spsc.Ring[Diagnostic]

	droppedResponses   atomic.Uint64
	droppedDiagnostics atomic.Uint64

	controller *Controller
}

type unloadRequest struct {
	pending bool
	req     Request
}

// New creates an Engine whose effects are built from registry.
func New(registry *Registry, opts ...Option) (*Engine, error) {
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if registry == nil {
		registry = NewRegistry()
	}

	requests, err := spsc.New[Request](cfg.queueSize)
	if err != nil {
		return nil, err
	}

	responses, err := spsc.New[Response](cfg.queueSize)
	if err != nil {
		return nil, err
	}

	diagnostics, err := spsc.New[Diagnostic](cfg.queueSize)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:         cfg,
		registry:    registry,
		groupIDs:    make(map[string]GroupID, len(cfg.groups)),
		slots:       make([]*Effect, cfg.slots),
		routes:      make([][]EnableState, cfg.slots),
		unloading:   make([]unloadRequest, cfg.slots),
		requests:    requests,
		responses:   responses,
		diagnostics: diagnostics,
	}

	groups := make([]GroupID, len(cfg.groups))
	for i, name := range cfg.groups {
		groups[i] = GroupID(i)
		e.groupIDs[name] = GroupID(i)
	}

	e.setup = Setup{
		Groups:        groups,
		Channels:      cfg.Channels,
		MaxBlockSize:  cfg.BlockSize,
		MaxSampleRate: cfg.maxSampleRate,
	}

	for i := range e.routes {
		e.routes[i] = make([]EnableState, len(groups))
	}

	for i := range e.scratch {
		e.scratch[i] = make([]float64, cfg.BlockSize)
	}

	e.controller = newController(e)

	return e, nil
}

// Controller returns the control-side handle of the engine.
func (e *Engine) Controller() *Controller { return e.controller }

// Registry returns the registry effects are built from.
func (e *Engine) Registry() *Registry { return e.registry }

// Setup returns the processor setup derived from the engine config.
func (e *Engine) Setup() Setup { return e.setup }

// SampleRate returns the nominal sample rate.
func (e *Engine) SampleRate() int { return e.cfg.SampleRate }

// Channels returns the number of interleaved channels.
func (e *Engine) Channels() int { return e.cfg.Channels }

// MaxBlockSize returns the largest buffer Process accepts.
func (e *Engine) MaxBlockSize() int { return e.cfg.BlockSize }

// Slots returns the number of effect slots.
func (e *Engine) Slots() int { return len(e.slots) }

// Group returns the id of the named group.
func (e *Engine) Group(name string) (GroupID, bool) {
	id, ok := e.groupIDs[name]
	return id, ok
}

// Groups returns the group names in id order.
func (e *Engine) Groups() []string {
	return append([]string(nil), e.cfg.groups...)
}

// DroppedDiagnostics returns how many diagnostics were lost to a full ring.
func (e *Engine) DroppedDiagnostics() uint64 { return e.droppedDiagnostics.Load() }

// DroppedResponses returns how many responses were lost to a full ring.
func (e *Engine) DroppedResponses() uint64 { return e.droppedResponses.Load() }
