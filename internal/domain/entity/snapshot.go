package entity

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

// Step bounds of the scripted onboarding flow. Step 0 asks for the name,
// step 1 confirms readiness, step 2 shows the form, step 3 acknowledges the
// submitted form, step 4 delivers the results.
const (
	StepMin = 0
	StepMax = 4

	// StepButtonLimit is the last step at which quick-reply buttons are valid.
	StepButtonLimit = 1
	// StepForm is the step at which the inline form is triggered.
	StepForm = 2

	// RecommendedFundCount is the number of funds a complete summary carries.
	RecommendedFundCount = 3
)

// PreviousAnswers accumulates the customer's profile answers across the
// conversation. Pointer fields distinguish "not answered yet" from an empty
// answer; once a field is set it must never be cleared by a later snapshot.
type PreviousAnswers struct {
	Isim         *string  `json:"isim,omitempty"`
	Vade         *string  `json:"vade,omitempty"`
	Urun         *string  `json:"urun,omitempty"`
	Nitelikli    *bool    `json:"nitelikli,omitempty"`
	Nakit        *string  `json:"nakit,omitempty"`
	Karakter     *string  `json:"karakter,omitempty"`
	IlgiAlanlari []string `json:"ilgiAlanlari,omitempty"`
}

// Summary is the terminal payload of a successful onboarding run.
type Summary struct {
	RiskProfili      string       `json:"riskProfili"`
	OnerilecekFonlar []FundDetail `json:"onerilecekFonlar"`
}

// Snapshot is one partial-or-complete state of the assistant's current turn.
// Every field except step/text/isComplete is optional because the generator
// emits the object field by field as generation proceeds. The json tags are
// the stable wire contract of the NDJSON stream.
type Snapshot struct {
	Step            int              `json:"step"`
	Text            string           `json:"text"`
	Buttons         []string         `json:"buttons,omitempty"`
	ShowForm        bool             `json:"showForm,omitempty"`
	PreviousAnswers *PreviousAnswers `json:"previousAnswers,omitempty"`
	IsComplete      bool             `json:"isComplete"`
	Summary         *Summary         `json:"summary,omitempty"`
}

// CompleteSnapshot is the all-fields-required view of a terminal snapshot.
// It exists only behind the Complete() check so summary rendering never has
// to trust optional-field presence implicitly. Degraded marks a summary that
// arrived with fewer funds than the producing logic promises.
type CompleteSnapshot struct {
	Step     int
	Text     string
	Answers  PreviousAnswers
	Summary  *Summary
	Degraded bool
}

// ValidationError reports a type-level violation on a field that was present
// in a frame. Absent fields never produce one.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("snapshot field %q invalid: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ValidatePartial decodes a raw frame into a Snapshot. Missing fields are
// fine; a type mismatch on a present field or an out-of-range step is a
// ValidationError. The caller drops invalid frames instead of aborting the
// stream.
func ValidatePartial(raw []byte) (*Snapshot, error) {
	var s Snapshot
	if err := sonic.Unmarshal(raw, &s); err != nil {
		return nil, &ValidationError{Field: "snapshot", Err: err}
	}
	if s.Step < StepMin || s.Step > StepMax {
		return nil, &ValidationError{Field: "step", Err: fmt.Errorf("step %d outside [%d,%d]", s.Step, StepMin, StepMax)}
	}
	return &s, nil
}

// Complete returns the discriminated terminal view of the snapshot. It
// reports false until isComplete is true. A missing summary is the valid
// early-exit path; a summary with fewer than RecommendedFundCount funds is
// kept but flagged degraded.
func (s *Snapshot) Complete() (*CompleteSnapshot, bool) {
	if s == nil || !s.IsComplete {
		return nil, false
	}
	c := &CompleteSnapshot{
		Step:    s.Step,
		Text:    s.Text,
		Summary: s.Summary,
	}
	if s.PreviousAnswers != nil {
		c.Answers = *s.PreviousAnswers
	}
	if s.Summary != nil && len(s.Summary.OnerilecekFonlar) < RecommendedFundCount {
		c.Degraded = true
	}
	return c, true
}

// MergeMonotonic reconciles the next snapshot of an exchange against the
// previous one, enforcing the stream invariants: step never decreases, text
// only grows by prefix extension, answers accumulate, completion is sticky
// and the summary is stable once set. The returned snapshot is what the
// exchange should expose downstream.
func MergeMonotonic(prev, next *Snapshot) *Snapshot {
	if prev == nil {
		return next
	}
	if next == nil {
		return prev
	}

	merged := *next

	if merged.Step < prev.Step {
		merged.Step = prev.Step
	}
	if !strings.HasPrefix(merged.Text, prev.Text) {
		// A diverging or shrinking text violates prefix growth; keep what
		// the client already saw.
		merged.Text = prev.Text
	}
	if prev.IsComplete {
		merged.IsComplete = true
	}
	if prev.Summary != nil {
		merged.Summary = prev.Summary
	}
	merged.PreviousAnswers = mergeAnswers(prev.PreviousAnswers, next.PreviousAnswers)

	return &merged
}

// mergeAnswers keeps every previously set answer, letting the next snapshot
// only fill gaps.
func mergeAnswers(prev, next *PreviousAnswers) *PreviousAnswers {
	if prev == nil {
		return next
	}
	if next == nil {
		return prev
	}

	merged := *next
	if prev.Isim != nil {
		merged.Isim = prev.Isim
	}
	if prev.Vade != nil {
		merged.Vade = prev.Vade
	}
	if prev.Urun != nil {
		merged.Urun = prev.Urun
	}
	if prev.Nitelikli != nil {
		merged.Nitelikli = prev.Nitelikli
	}
	if prev.Nakit != nil {
		merged.Nakit = prev.Nakit
	}
	if prev.Karakter != nil {
		merged.Karakter = prev.Karakter
	}
	if len(prev.IlgiAlanlari) > 0 {
		merged.IlgiAlanlari = prev.IlgiAlanlari
	}
	return &merged
}

// SnapshotChunk is one increment of a streamed conversation exchange.
type SnapshotChunk struct {
	Snapshot *Snapshot
	IsEnd    bool
	Error    string
}

// TextChunk is one increment of the plain-text sibling stream.
type TextChunk struct {
	Text  string
	IsEnd bool
	Error string
}
