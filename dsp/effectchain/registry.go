package effectchain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Factory builds one Processor for an effect instance. The processor keeps
// params and reads it on the audio goroutine.
type Factory func(params *ParameterSet) (Processor, error)

type registryEntry struct {
	manifest *Manifest
	factory  Factory
}

// Registry maps effect type ids to their manifests and factories.
type Registry struct {
	entries map[string]registryEntry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]registryEntry)}
}

// Register validates m and adds it with its factory. The registry keeps its
// own copy of m.
func (r *Registry) Register(m *Manifest, factory Factory) error {
	if m == nil {
		return errors.New("nil manifest")
	}

	if factory == nil {
		return errors.New("nil factory")
	}

	if err := m.validate(); err != nil {
		return err
	}

	if _, exists := r.entries[m.ID]; exists {
		return fmt.Errorf("%w: %s", errDuplicateEffect, m.ID)
	}

	own := *m
	own.Parameters = slices.Clone(m.Parameters)

	r.entries[m.ID] = registryEntry{manifest: &own, factory: factory}

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(m *Manifest, factory Factory) {
	err := r.Register(m, factory)
	if err != nil {
		panic("effectchain registry: " + err.Error())
	}
}

// Lookup returns the factory for the given effect type, or nil.
func (r *Registry) Lookup(id string) Factory {
	return r.entries[id].factory
}

// Manifest returns the manifest for the given effect type, or nil. The
// returned manifest must not be modified.
func (r *Registry) Manifest(id string) *Manifest {
	return r.entries[id].manifest
}

// Manifests returns every registered manifest sorted by id.
func (r *Registry) Manifests() []*Manifest {
	out := make([]*Manifest, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.manifest)
	}

	slices.SortFunc(out, func(a, b *Manifest) int {
		return strings.Compare(a.ID, b.ID)
	})

	return out
}

// Instantiate builds a disabled Effect of the given type and initialises its
// processor for setup. It runs on the control goroutine.
func (r *Registry) Instantiate(id string, setup Setup) (*Effect, error) {
	entry, ok := r.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEffect, id)
	}

	params := NewParameterSet(entry.manifest)

	proc, err := entry.factory(params)
	if err != nil {
		return nil, fmt.Errorf("effectchain: create %s: %w", id, err)
	}

	if err := proc.Initialize(setup); err != nil {
		return nil, fmt.Errorf("effectchain: initialize %s: %w", id, err)
	}

	return newEffect(entry.manifest, params, proc), nil
}
