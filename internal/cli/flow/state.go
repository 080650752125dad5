// Package flow holds the pure client-side rules of the onboarding
// conversation: which interaction the latest snapshot asks for, and the
// inline form the assistant triggers mid-flow.
package flow

import "github.com/onatvural/onboarding-demo/internal/domain/entity"

// Phase is the interaction the client should offer for the current state of
// an exchange.
type Phase int

const (
	// PhaseIdle waits for free-text input.
	PhaseIdle Phase = iota
	// PhaseStreaming renders the growing reply; input is locked.
	PhaseStreaming
	// PhaseAwaitingButtons offers the snapshot's quick-reply buttons.
	PhaseAwaitingButtons
	// PhaseAwaitingForm runs the inline profile form.
	PhaseAwaitingForm
	// PhaseComplete is terminal; the conversation is over.
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseStreaming:
		return "streaming"
	case PhaseAwaitingButtons:
		return "awaiting_buttons"
	case PhaseAwaitingForm:
		return "awaiting_form"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Resolve maps the latest snapshot onto the interaction phase. The decision
// is step-gated: buttons render only on the early steps, the form only on
// the form step, regardless of what a half-written snapshot claims.
func Resolve(snapshot *entity.Snapshot, streaming bool) Phase {
	if snapshot != nil && snapshot.IsComplete {
		return PhaseComplete
	}
	if streaming {
		return PhaseStreaming
	}
	if snapshot == nil {
		return PhaseIdle
	}
	if snapshot.ShowForm && snapshot.Step == entity.StepForm {
		return PhaseAwaitingForm
	}
	if len(snapshot.Buttons) > 0 && snapshot.Step <= entity.StepButtonLimit {
		return PhaseAwaitingButtons
	}
	return PhaseIdle
}
