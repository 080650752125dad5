package tui

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/onatvural/onboarding-demo/internal/cli/flow"
	"github.com/onatvural/onboarding-demo/internal/cli/types"
	"github.com/onatvural/onboarding-demo/internal/domain/entity"
)

// streamingModel fakes a turn that is mid stream: a partial snapshot has
// rendered and the channels are live.
func streamingModel() chatModel {
	m := initialModel(nil, "", 0)
	m.transcript = []types.ChatMessage{{Role: "user", Content: "Merhaba"}}
	m.entries = []chatEntry{
		{role: "user", text: "Merhaba"},
		{role: "assistant"},
	}
	m.current = &entity.Snapshot{Step: 0, Text: "Hoş geldiniz"}
	m.phase = flow.PhaseStreaming
	m.cancel = func() {}
	snapCh := make(chan *entity.Snapshot)
	errCh := make(chan error)
	m.snapCh = snapCh
	m.errCh = errCh
	return m
}

func assistantTurns(transcript []types.ChatMessage) int {
	n := 0
	for _, msg := range transcript {
		if msg.Role == "assistant" {
			n++
		}
	}
	return n
}

func TestCancelThenLateStreamError_FinishesTurnOnce(t *testing.T) {
	m := streamingModel()

	m.cancelStream()
	// The outstanding stream command still observes the canceled read and
	// delivers its message afterwards.
	m.handleStreamError(fmt.Errorf("stream read failed: %w", context.Canceled))

	if got := assistantTurns(m.transcript); got != 1 {
		t.Fatalf("transcript has %d assistant turns after one canceled exchange, want 1: %v", got, m.transcript)
	}
}

func TestCancelThenLateStreamDone_FinishesTurnOnce(t *testing.T) {
	m := streamingModel()

	m.cancelStream()
	if cmds := m.handleStreamDone(); cmds != nil {
		t.Errorf("settled turn scheduled commands: %v", cmds)
	}

	if got := assistantTurns(m.transcript); got != 1 {
		t.Fatalf("transcript has %d assistant turns, want 1: %v", got, m.transcript)
	}
}

func TestCancelKeepsPartialContent(t *testing.T) {
	m := streamingModel()

	m.cancelStream()

	last := m.transcript[len(m.transcript)-1]
	if last.Role != "assistant" || last.Content != "Hoş geldiniz" {
		t.Errorf("partial content lost on cancel: %+v", last)
	}
	if m.err != nil {
		t.Errorf("cancel surfaced an error: %v", m.err)
	}
}

func TestRevealTickAfterCancel_Ignored(t *testing.T) {
	m := streamingModel()
	m.gateActive = true
	m.submittedAt = time.Now()

	m.cancelStream()
	turns := assistantTurns(m.transcript)

	// The gate tick scheduled before the cancel still fires.
	model, _ := m.Update(revealMsg{})
	m = model.(chatModel)

	if got := assistantTurns(m.transcript); got != turns {
		t.Errorf("late reveal tick finished the turn again: %d -> %d assistant turns", turns, got)
	}
}

func TestStreamInitAfterCancel_Ignored(t *testing.T) {
	m := streamingModel()
	m.cancelStream()

	snapCh := make(chan *entity.Snapshot)
	errCh := make(chan error)
	model, _ := m.Update(streamInitMsg{snapCh: snapCh, errCh: errCh})
	m = model.(chatModel)

	if m.snapCh != nil || m.errCh != nil {
		t.Error("settled turn adopted stream channels")
	}
}

func TestMinDisplayConfigured(t *testing.T) {
	m := initialModel(nil, "", 42*time.Millisecond)
	if m.minDisplay != 42*time.Millisecond {
		t.Errorf("minDisplay = %v, want 42ms", m.minDisplay)
	}

	m = initialModel(nil, "", 0)
	if m.minDisplay != defaultMinProcessingDisplay {
		t.Errorf("minDisplay = %v, want default %v", m.minDisplay, defaultMinProcessingDisplay)
	}
}

func TestGateRespectsConfiguredMinDisplay(t *testing.T) {
	t.Run("elapsed gate reveals immediately", func(t *testing.T) {
		m := streamingModel()
		m.minDisplay = 10 * time.Millisecond
		m.gateActive = true
		m.submittedAt = time.Now().Add(-50 * time.Millisecond)

		if cmds := m.handleStreamDone(); cmds != nil {
			t.Errorf("elapsed gate scheduled a delay: %v", cmds)
		}
		if m.gateActive {
			t.Error("gate still active after reveal")
		}
	})

	t.Run("fresh gate delays the reveal", func(t *testing.T) {
		m := streamingModel()
		m.minDisplay = time.Minute
		m.gateActive = true
		m.submittedAt = time.Now()

		if cmds := m.handleStreamDone(); len(cmds) == 0 {
			t.Error("fresh gate revealed without waiting")
		}
		if !m.gateActive {
			t.Error("gate dropped before the reveal tick")
		}
	})
}

func TestFormSubmitsOnlyWhenComplete(t *testing.T) {
	m := initialModel(nil, "", 0)
	m.phase = flow.PhaseAwaitingForm
	m.entries = []chatEntry{{role: "assistant"}}

	questions := flow.Questions()
	for i := range questions {
		m.formOptIdx = 0
		cmds := m.handleEnter()
		if i < len(questions)-1 {
			if cmds != nil {
				t.Fatalf("question %d triggered a submit", i)
			}
			if len(m.transcript) != 0 {
				t.Fatalf("transcript written before the form finished: %v", m.transcript)
			}
		} else {
			if cmds == nil {
				t.Fatal("completed form did not submit")
			}
		}
	}

	if !m.formAnswers.Complete() {
		t.Errorf("submitted answers incomplete: %+v", m.formAnswers)
	}
	last := m.transcript[len(m.transcript)-1]
	if last.Role != "user" || !strings.Contains(last.Content, "Vade:") {
		t.Errorf("submitted message = %+v", last)
	}
}
