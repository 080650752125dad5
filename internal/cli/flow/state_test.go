package flow

import (
	"strings"
	"testing"

	"github.com/onatvural/onboarding-demo/internal/domain/entity"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		snapshot  *entity.Snapshot
		streaming bool
		want      Phase
	}{
		{
			name: "no snapshot yet",
			want: PhaseIdle,
		},
		{
			name:      "streaming locks input",
			snapshot:  &entity.Snapshot{Step: 1, Buttons: []string{"Evet, başlayalım!"}},
			streaming: true,
			want:      PhaseStreaming,
		},
		{
			name:     "buttons on the confirmation step",
			snapshot: &entity.Snapshot{Step: 1, Buttons: []string{"Evet, başlayalım!", "Daha sonra"}},
			want:     PhaseAwaitingButtons,
		},
		{
			name:     "buttons past the limit step ignored",
			snapshot: &entity.Snapshot{Step: 2, Buttons: []string{"Evet"}},
			want:     PhaseIdle,
		},
		{
			name:     "form on the form step",
			snapshot: &entity.Snapshot{Step: entity.StepForm, ShowForm: true},
			want:     PhaseAwaitingForm,
		},
		{
			name:     "form flag on the wrong step ignored",
			snapshot: &entity.Snapshot{Step: 3, ShowForm: true},
			want:     PhaseIdle,
		},
		{
			name:     "plain text reply",
			snapshot: &entity.Snapshot{Step: 0, Text: "Hoş geldiniz!"},
			want:     PhaseIdle,
		},
		{
			name:     "complete is terminal",
			snapshot: &entity.Snapshot{Step: 4, IsComplete: true},
			want:     PhaseComplete,
		},
		{
			name:      "complete wins over streaming",
			snapshot:  &entity.Snapshot{Step: 4, IsComplete: true},
			streaming: true,
			want:      PhaseComplete,
		},
		{
			name:     "early exit without summary",
			snapshot: &entity.Snapshot{Step: 1, IsComplete: true},
			want:     PhaseComplete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.snapshot, tt.streaming); got != tt.want {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuestions(t *testing.T) {
	qs := Questions()
	if len(qs) != 6 {
		t.Fatalf("got %d questions, want 6", len(qs))
	}
	for _, q := range qs {
		if q.Key == "" || q.Label == "" || len(q.Options) < 2 {
			t.Errorf("malformed question: %+v", q)
		}
	}
}

func TestFormAnswers(t *testing.T) {
	var a FormAnswers
	if a.Complete() {
		t.Error("empty answers reported complete")
	}

	for _, q := range Questions() {
		a.SetAnswer(q.Key, q.Options[0])
	}
	if !a.Complete() {
		t.Errorf("filled answers reported incomplete: %+v", a)
	}

	msg := BuildMessage(a)
	for _, label := range []string{"Vade:", "Ürün:", "Nitelikli:", "Likidite:", "Karakter:", "İlgi:"} {
		if !strings.Contains(msg, label) {
			t.Errorf("message missing %q: %q", label, msg)
		}
	}
}
