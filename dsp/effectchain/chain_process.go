package effectchain

// Process runs one audio callback. Pending control requests are applied
// first, then every block is passed through the occupied slots in slot
// order, then transitional states settle. It never blocks or allocates.
func (e *Engine) Process(blocks []Block, sampleRate int) {
	e.drainRequests()

	for i := range blocks {
		e.processBlock(&blocks[i], sampleRate)
	}

	e.endCycle()
}

// drainRequests applies queued requests in submission order. It stops right
// after a request that changed an enable state so that every fade gets its
// own buffer.
func (e *Engine) drainRequests() {
	for range e.cfg.maxRequestsPerCycle {
		req, ok := e.requests.Pop()
		if !ok {
			return
		}

		if e.handleRequest(req) {
			return
		}
	}
}

// handleRequest applies req and answers it unless the answer is deferred.
// It reports whether an enable edge was produced.
func (e *Engine) handleRequest(req Request) bool {
	resp := Response{ID: req.ID, Type: req.Type, Slot: req.Slot}

	if req.Slot < 0 || req.Slot >= len(e.slots) {
		resp.Status = StatusNoSuchSlot
		e.respond(resp)

		return false
	}

	fx := e.slots[req.Slot]
	if e.unloading[req.Slot].pending {
		fx = nil
	}

	edge := false

	switch req.Type {
	case LoadEffect:
		switch {
		case e.slots[req.Slot] != nil:
			resp.Status = StatusSlotOccupied
		case req.effect == nil:
			resp.Status = StatusNoSuchEffect
		default:
			e.slots[req.Slot] = req.effect
			for g := range e.routes[req.Slot] {
				e.routes[req.Slot][g] = Enabled
			}

			resp.Success = true
		}

	case UnloadEffect:
		if fx == nil {
			resp.Status = StatusNoSuchEffect
			break
		}

		if fx.State() != Disabled {
			edge = fx.SetEnabled(false)
			e.unloading[req.Slot] = unloadRequest{pending: true, req: req}

			return edge
		}

		e.slots[req.Slot] = nil
		resp.Success = true
		resp.Unloaded = fx

	case SetEffectParameters:
		if fx == nil {
			resp.Status = StatusNoSuchEffect
			break
		}

		edge = fx.SetEnabled(req.Enabled)
		resp.Success = true

	case SetParameterParameters:
		if fx == nil {
			resp.Status = StatusNoSuchEffect
			break
		}

		p := fx.Parameters().At(req.Parameter)
		if p == nil {
			resp.Status = StatusNoSuchParameter
			break
		}

		p.Set(req.Minimum, req.Maximum, req.Default, req.Value)
		resp.Success = true

	case SetGroupEnabled:
		if fx == nil {
			resp.Status = StatusNoSuchEffect
			break
		}

		routes := e.routes[req.Slot]
		if req.Group < 0 || int(req.Group) >= len(routes) {
			resp.Status = StatusNoSuchGroup
			break
		}

		routes[req.Group], edge = routes[req.Group].request(req.Enabled)
		resp.Success = true

	default:
		resp.Status = StatusNoSuchEffect
	}

	e.respond(resp)

	return edge
}

func (e *Engine) processBlock(b *Block, sampleRate int) {
	n := min(len(b.Input), len(b.Output))
	if n == 0 {
		return
	}

	if n > e.cfg.BlockSize {
		copy(b.Output[:n], b.Input[:n])
		e.report(-1, b.Group, "", ErrBlockTooLarge)

		return
	}

	if b.Group < 0 || int(b.Group) >= len(e.setup.Groups) {
		copy(b.Output[:n], b.Input[:n])
		e.report(-1, b.Group, "", ErrUnknownGroup)

		return
	}

	cur := b.Input[:n]
	next := 0

	for slot, fx := range e.slots {
		if fx == nil {
			continue
		}

		route := e.routes[slot][b.Group]
		if Effective(fx.State(), route) == Disabled {
			continue
		}

		out := e.scratch[next][:n]
		if err := fx.Process(b.Group, cur, out, sampleRate, route, b.Features); err != nil {
			e.report(slot, b.Group, fx.Manifest().ID, err)
		}

		cur = out
		next ^= 1
	}

	copy(b.Output[:n], cur)
}

func (e *Engine) endCycle() {
	for slot, fx := range e.slots {
		if fx == nil {
			continue
		}

		fx.EndCycle()

		routes := e.routes[slot]
		for g := range routes {
			routes[g] = routes[g].advance()
		}

		u := &e.unloading[slot]
		if u.pending && fx.State() == Disabled {
			e.slots[slot] = nil
			e.respond(Response{
				ID:       u.req.ID,
				Type:     u.req.Type,
				Slot:     slot,
				Success:  true,
				Unloaded: fx,
			})
			*u = unloadRequest{}
		}
	}
}

func (e *Engine) respond(resp Response) {
	if !e.responses.Push(resp) {
		e.droppedResponses.Add(1)
	}
}

func (e *Engine) report(slot int, group GroupID, effectID string, err error) {
	if !e.diagnostics.Push(Diagnostic{Slot: slot, Group: group, EffectID: effectID, Err: err}) {
		e.droppedDiagnostics.Add(1)
	}
}
