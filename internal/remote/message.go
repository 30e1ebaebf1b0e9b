package remote

import (
	"errors"

	"github.com/cwbudde/algo-fxhost/dsp/effectchain"
)

// Message is one control request on the websocket. Which fields matter
// depends on Type, as for effectchain.Request. Group is a group name;
// ParameterID addresses a parameter by id and keeps its current range.
type Message struct {
	Type        effectchain.RequestType `json:"type"`
	Slot        int                     `json:"slot"`
	Group       string                  `json:"group,omitempty"`
	Effect      string                  `json:"effect,omitempty"`
	Enabled     bool                    `json:"enabled,omitempty"`
	Parameter   int                     `json:"parameter,omitempty"`
	ParameterID string                  `json:"parameterId,omitempty"`
	Minimum     float64                 `json:"minimum,omitempty"`
	Maximum     float64                 `json:"maximum,omitempty"`
	Default     float64                 `json:"default,omitempty"`
	Value       float64                 `json:"value,omitempty"`
}

// Reply answers a Message.
type Reply struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

var statusErrors = []effectchain.Status{
	effectchain.StatusNoSuchParameter,
	effectchain.StatusNoSuchEffect,
	effectchain.StatusSlotOccupied,
	effectchain.StatusNoSuchSlot,
	effectchain.StatusNoSuchGroup,
}

func replyFor(err error) Reply {
	if err == nil {
		return Reply{Success: true, Status: effectchain.StatusOK.String()}
	}

	r := Reply{Error: err.Error()}

	for _, s := range statusErrors {
		if errors.Is(err, s.Err()) {
			r.Status = s.String()
			return r
		}
	}

	if errors.Is(err, effectchain.ErrUnknownEffect) {
		r.Status = effectchain.StatusNoSuchEffect.String()
	}

	return r
}
