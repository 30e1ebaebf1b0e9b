package main

import (
	"context"
	"sync"
	"time"

	"github.com/cwbudde/algo-fxhost/dsp/core"
	"github.com/cwbudde/algo-fxhost/dsp/effectchain"
	"github.com/eiannone/keyboard"
	"github.com/sirupsen/logrus"
)

const paramStep = 0.05

type action int

const (
	actionNone action = iota
	actionQuit
	actionToggle
	actionRaise
	actionLower
)

// keyAction maps a key press to an action and, for actionToggle, a slot.
func keyAction(char rune, key keyboard.Key) (action, int) {
	switch {
	case key == keyboard.KeyEsc || key == keyboard.KeyCtrlC:
		return actionQuit, 0
	case char == 'q' || char == 'Q':
		return actionQuit, 0
	case char >= '1' && char <= '9':
		return actionToggle, int(char - '1')
	case char == '+' || char == '=':
		return actionRaise, 0
	case char == '-' || char == '_':
		return actionLower, 0
	default:
		return actionNone, 0
	}
}

// keyControl applies keyboard actions to a controller. It remembers the
// enable state and parameter values it has set.
type keyControl struct {
	ctrl     *effectchain.Controller
	log      logrus.FieldLogger
	selected int
	enabled  map[int]bool
	values   map[int]float64
}

func newKeyControl(ctrl *effectchain.Controller, log logrus.FieldLogger) *keyControl {
	return &keyControl{
		ctrl:    ctrl,
		log:     log,
		enabled: make(map[int]bool),
		values:  make(map[int]float64),
	}
}

func (k *keyControl) run(ctx context.Context, quit chan<- struct{}) {
	if err := keyboard.Open(); err != nil {
		k.log.WithError(err).Warn("keyboard input disabled")
		return
	}

	var closeOnce sync.Once
	closeKeyboard := func() { closeOnce.Do(func() { _ = keyboard.Close() }) }

	go func() {
		<-ctx.Done()
		closeKeyboard()
	}()
	defer closeKeyboard()

	for {
		char, key, err := keyboard.GetKey()
		if err != nil || ctx.Err() != nil {
			return
		}

		act, slot := keyAction(char, key)
		if act == actionQuit {
			close(quit)
			return
		}

		k.apply(ctx, act, slot)
	}
}

func (k *keyControl) apply(ctx context.Context, act action, slot int) {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	switch act {
	case actionToggle:
		k.selected = slot
		on := !k.enabled[slot]

		if err := k.ctrl.SetEnabled(ctx, slot, on); err != nil {
			k.log.WithError(err).WithField("slot", slot).Warn("toggle failed")
			return
		}

		k.enabled[slot] = on
		k.log.WithFields(logrus.Fields{"slot": slot, "enabled": on}).Info("effect toggled")

	case actionRaise, actionLower:
		m := k.ctrl.Manifest(k.selected)
		if m == nil || len(m.Parameters) == 0 {
			return
		}

		p := m.Parameters[len(m.Parameters)-1]

		v, ok := k.values[k.selected]
		if !ok {
			v = p.Default
		}

		if act == actionRaise {
			v += paramStep
		} else {
			v -= paramStep
		}

		v = core.Clamp(v, p.Minimum, p.Maximum)

		if err := k.ctrl.SetParameterValue(ctx, k.selected, p.ID, v); err != nil {
			k.log.WithError(err).WithField("slot", k.selected).Warn("parameter change failed")
			return
		}

		k.values[k.selected] = v
		k.log.WithFields(logrus.Fields{"slot": k.selected, "parameter": p.ID, "value": v}).Info("parameter set")
	}
}
