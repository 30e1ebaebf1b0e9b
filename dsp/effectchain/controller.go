package effectchain

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Controller is the control-side handle of an Engine. Its methods may be
// called from any goroutine; round trips are serialised.
type Controller struct {
	engine *Engine
	logger logrus.FieldLogger

	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]Request
	loaded  []*slotShadow

	diagMu      sync.Mutex
	lastDropped uint64
}

// slotShadow mirrors what the engine holds in one slot, as far as the
// controller has seen responses for it.
type slotShadow struct {
	manifest *Manifest
	ranges   []paramRange
}

type paramRange struct {
	minimum, maximum, def float64
}

func newController(e *Engine) *Controller {
	return &Controller{
		engine:  e,
		logger:  e.cfg.logger,
		pending: make(map[uint64]Request),
		loaded:  make([]*slotShadow, len(e.slots)),
	}
}

// Do sends req to the audio goroutine and waits for its response. It waits
// while the request ring is full. A failed request returns the response
// together with the control error for its status.
func (c *Controller) Do(ctx context.Context, req Request) (Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.do(ctx, req)
}

func (c *Controller) do(ctx context.Context, req Request) (Response, error) {
	c.nextID++
	req.ID = c.nextID

	ticker := time.NewTicker(c.engine.cfg.pollInterval)
	defer ticker.Stop()

	for !c.engine.requests.Push(req) {
		select {
		case <-ctx.Done():
			if req.Type == LoadEffect {
				c.closeEffect(req.effect)
			}

			return Response{}, fmt.Errorf("effectchain: queueing %s: %w", req.Type, ctx.Err())
		case <-ticker.C:
		}
	}

	c.pending[req.ID] = req

	for {
		for {
			resp, ok := c.engine.responses.Pop()
			if !ok {
				break
			}

			c.apply(resp)

			if resp.ID == req.ID {
				return resp, resp.Status.Err()
			}
		}

		select {
		case <-ctx.Done():
			return Response{}, fmt.Errorf("effectchain: waiting for %s response: %w", req.Type, ctx.Err())
		case <-ticker.C:
		}
	}
}

// apply updates the slot shadow for a response, including responses to
// requests whose caller gave up waiting.
func (c *Controller) apply(resp Response) {
	req, ok := c.pending[resp.ID]
	if !ok {
		return
	}

	delete(c.pending, resp.ID)

	switch req.Type {
	case LoadEffect:
		if resp.Success {
			c.loaded[req.Slot] = newSlotShadow(req.effect.Manifest())
			return
		}

		c.closeEffect(req.effect)
	case UnloadEffect:
		if resp.Success {
			c.loaded[req.Slot] = nil
			c.closeEffect(resp.Unloaded)
		}
	case SetParameterParameters:
		if s := c.loaded[req.Slot]; resp.Success && s != nil && req.Parameter < len(s.ranges) {
			s.ranges[req.Parameter] = paramRange{minimum: req.Minimum, maximum: req.Maximum, def: req.Default}
		}
	}
}

func newSlotShadow(m *Manifest) *slotShadow {
	s := &slotShadow{manifest: m, ranges: make([]paramRange, len(m.Parameters))}
	for i, p := range m.Parameters {
		s.ranges[i] = paramRange{minimum: p.Minimum, maximum: p.Maximum, def: p.Default}
	}

	return s
}

func (c *Controller) closeEffect(fx *Effect) {
	if fx == nil {
		return
	}

	if err := fx.Close(); err != nil {
		c.logger.WithFields(logrus.Fields{
			"effect": fx.Manifest().ID,
			"error":  err,
		}).Warn("closing effect failed")
	}
}

// LoadEffect instantiates the effect type id and loads it, disabled, into
// slot.
func (c *Controller) LoadEffect(ctx context.Context, slot int, id string) error {
	fx, err := c.engine.registry.Instantiate(id, c.engine.setup)
	if err != nil {
		return err
	}

	_, err = c.Do(ctx, Request{Type: LoadEffect, Slot: slot, effect: fx})
	if err != nil {
		return fmt.Errorf("load %s into slot %d: %w", id, slot, err)
	}

	c.logger.WithFields(logrus.Fields{"slot": slot, "effect": id}).Debug("effect loaded")

	return nil
}

// UnloadEffect removes the effect in slot. An active effect fades out
// first, so the call returns after at least one more audio callback.
func (c *Controller) UnloadEffect(ctx context.Context, slot int) error {
	_, err := c.Do(ctx, Request{Type: UnloadEffect, Slot: slot})
	if err != nil {
		return fmt.Errorf("unload slot %d: %w", slot, err)
	}

	c.logger.WithField("slot", slot).Debug("effect unloaded")

	return nil
}

// SetEnabled requests a fade in or out of the effect in slot.
func (c *Controller) SetEnabled(ctx context.Context, slot int, enabled bool) error {
	_, err := c.Do(ctx, Request{Type: SetEffectParameters, Slot: slot, Enabled: enabled})
	if err != nil {
		return fmt.Errorf("set slot %d enabled=%t: %w", slot, enabled, err)
	}

	return nil
}

// SetParameter writes range, default and value of the parameter at index.
func (c *Controller) SetParameter(ctx context.Context, slot, index int, minimum, maximum, def, value float64) error {
	_, err := c.Do(ctx, Request{
		Type:      SetParameterParameters,
		Slot:      slot,
		Parameter: index,
		Minimum:   minimum,
		Maximum:   maximum,
		Default:   def,
		Value:     value,
	})
	if err != nil {
		return fmt.Errorf("set slot %d parameter %d: %w", slot, index, err)
	}

	return nil
}

// SetParameterValue writes the value of the parameter with the given id,
// keeping its last configured range and default.
func (c *Controller) SetParameterValue(ctx context.Context, slot int, id string, value float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if slot < 0 || slot >= len(c.loaded) {
		return fmt.Errorf("set slot %d parameter %s: %w", slot, id, ErrNoSuchSlot)
	}

	s := c.loaded[slot]
	if s == nil {
		return fmt.Errorf("set slot %d parameter %s: %w", slot, id, ErrNoSuchEffect)
	}

	index := s.manifest.ParameterIndex(id)
	if index < 0 {
		return fmt.Errorf("set slot %d parameter %s: %w", slot, id, ErrNoSuchParameter)
	}

	r := s.ranges[index]

	_, err := c.do(ctx, Request{
		Type:      SetParameterParameters,
		Slot:      slot,
		Parameter: index,
		Minimum:   r.minimum,
		Maximum:   r.maximum,
		Default:   r.def,
		Value:     value,
	})
	if err != nil {
		return fmt.Errorf("set slot %d parameter %s: %w", slot, id, err)
	}

	return nil
}

// SetGroupEnabled fades the route of group through slot in or out.
func (c *Controller) SetGroupEnabled(ctx context.Context, slot int, group GroupID, enabled bool) error {
	_, err := c.Do(ctx, Request{Type: SetGroupEnabled, Slot: slot, Group: group, Enabled: enabled})
	if err != nil {
		return fmt.Errorf("set slot %d group %d enabled=%t: %w", slot, group, enabled, err)
	}

	return nil
}

// IsLoaded reports whether slot holds an effect, as last confirmed by the
// engine.
func (c *Controller) IsLoaded(slot int) bool {
	return c.Manifest(slot) != nil
}

// Manifest returns the manifest of the effect in slot, or nil.
func (c *Controller) Manifest(slot int) *Manifest {
	c.mu.Lock()
	defer c.mu.Unlock()

	if slot < 0 || slot >= len(c.loaded) || c.loaded[slot] == nil {
		return nil
	}

	return c.loaded[slot].manifest
}

// DrainDiagnostics logs every queued audio-path diagnostic and returns how
// many there were.
func (c *Controller) DrainDiagnostics() int {
	c.diagMu.Lock()
	defer c.diagMu.Unlock()

	n := 0

	for {
		d, ok := c.engine.diagnostics.Pop()
		if !ok {
			break
		}

		n++

		c.logger.WithFields(logrus.Fields{
			"slot":   d.Slot,
			"group":  c.groupName(d.Group),
			"effect": d.EffectID,
			"error":  d.Err,
		}).Warn("effect processing failed, passing input through")
	}

	if dropped := c.engine.DroppedDiagnostics(); dropped != c.lastDropped {
		c.logger.WithField("dropped", dropped-c.lastDropped).Warn("diagnostics dropped")
		c.lastDropped = dropped
	}

	return n
}

// WatchDiagnostics drains diagnostics every interval until ctx ends.
func (c *Controller) WatchDiagnostics(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.DrainDiagnostics()
			return
		case <-ticker.C:
			c.DrainDiagnostics()
		}
	}
}

func (c *Controller) groupName(g GroupID) string {
	if g >= 0 && int(g) < len(c.engine.cfg.groups) {
		return c.engine.cfg.groups[g]
	}

	return fmt.Sprintf("#%d", g)
}
