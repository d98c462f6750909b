package telemetry

import (
	"time"
)

// Kind of a telemetry event.
type Kind string

const (
	KindTurn          Kind = "turn"
	KindOverlayInvoke Kind = "overlay.invoke"
	KindLunarNudge    Kind = "lunar.nudge"
)

// Event is one telemetry record. Turn events carry the coherence fields,
// other kinds carry what applies to them plus an optional detail payload.
type Event struct {
	ID             int64          `json:"-"`
	Timestamp      time.Time      `json:"timestamp"`
	Kind           Kind           `json:"event"`
	Coherence      *float64       `json:"coherence,omitempty"`
	MirrorResidual *float64       `json:"mirror_residual,omitempty"`
	Samples        *int64         `json:"samples,omitempty"`
	Agent          string         `json:"agent,omitempty"`
	Detail         map[string]any `json:"detail,omitempty"`
}

// NewTurn builds a turn event at the current time.
func NewTurn(coherence, mirrorResidual float64, samples int64) *Event {
	return &Event{
		Timestamp:      time.Now().UTC(),
		Kind:           KindTurn,
		Coherence:      &coherence,
		MirrorResidual: &mirrorResidual,
		Samples:        &samples,
	}
}
