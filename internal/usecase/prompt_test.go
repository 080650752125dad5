package usecase

import (
	"strings"
	"testing"

	"github.com/onatvural/onboarding-demo/internal/cli/flow"
	"github.com/onatvural/onboarding-demo/internal/domain"
)

func TestFormMessageRoundTrip(t *testing.T) {
	// The CLI builds the form message; the prompt layer must recover every
	// field from it.
	msg := flow.BuildMessage(flow.FormAnswers{
		Vade:      "5 yıl ve üzeri",
		Urun:      "Hisse senedi",
		Nitelikli: "Evet",
		Likidite:  "Hayır",
		Karakter:  "Fırsat görür, alırım",
		Ilgi:      "Teknoloji",
	})

	if !IsFormMessage(msg) {
		t.Fatalf("built form message not recognized: %q", msg)
	}

	answers := extractAnswers([]domain.ChatMessage{{Role: "user", Content: msg}})
	if answers == nil {
		t.Fatal("no answers extracted")
	}
	if answers.Vade == nil || *answers.Vade != "5 yıl ve üzeri" {
		t.Errorf("vade = %v", answers.Vade)
	}
	if answers.Urun == nil || *answers.Urun != "Hisse senedi" {
		t.Errorf("urun = %v", answers.Urun)
	}
	if answers.Nitelikli == nil || !*answers.Nitelikli {
		t.Errorf("nitelikli = %v", answers.Nitelikli)
	}
	if answers.Nakit == nil || *answers.Nakit != "Hayır" {
		t.Errorf("nakit = %v", answers.Nakit)
	}
	if answers.Karakter == nil || *answers.Karakter != "Fırsat görür, alırım" {
		t.Errorf("karakter = %v", answers.Karakter)
	}
	if len(answers.IlgiAlanlari) != 1 || answers.IlgiAlanlari[0] != "Teknoloji" {
		t.Errorf("ilgiAlanlari = %v", answers.IlgiAlanlari)
	}
}

func TestExtractAnswers_NameFromSecondUserMessage(t *testing.T) {
	messages := []domain.ChatMessage{
		{Role: "user", Content: "Merhaba"},
		{Role: "assistant", Content: "Hoş geldiniz! İsminizi öğrenebilir miyim?"},
		{Role: "user", Content: "Ayşe"},
	}

	answers := extractAnswers(messages)
	if answers == nil || answers.Isim == nil || *answers.Isim != "Ayşe" {
		t.Fatalf("isim not extracted: %+v", answers)
	}
}

func TestExtractAnswers_NoInterest(t *testing.T) {
	msg := flow.BuildMessage(flow.FormAnswers{
		Vade: "0-1 yıl", Urun: "Hiçbiri", Nitelikli: "Hayır",
		Likidite: "Evet", Karakter: "Hemen satarım", Ilgi: "Hayır",
	})

	answers := extractAnswers([]domain.ChatMessage{{Role: "user", Content: msg}})
	if answers == nil {
		t.Fatal("no answers extracted")
	}
	if len(answers.IlgiAlanlari) != 0 {
		t.Errorf("declined interest recorded anyway: %v", answers.IlgiAlanlari)
	}
	if answers.Nitelikli == nil || *answers.Nitelikli {
		t.Errorf("nitelikli = %v, want false", answers.Nitelikli)
	}
}

func TestExtractAnswers_NothingKnown(t *testing.T) {
	messages := []domain.ChatMessage{{Role: "user", Content: "Merhaba"}}
	if answers := extractAnswers(messages); answers != nil {
		t.Errorf("got %+v, want nil", answers)
	}
}

func TestDetectSignals(t *testing.T) {
	tests := []struct {
		name         string
		messages     []domain.ChatMessage
		wantPastForm bool
		wantFormData bool
	}{
		{
			name:     "opening message",
			messages: []domain.ChatMessage{{Role: "user", Content: "Merhaba"}},
		},
		{
			name: "form submission",
			messages: []domain.ChatMessage{
				{Role: "user", Content: "Merhaba"},
				{Role: "user", Content: "Vade: 1-5 yıl, Ürün: Mevduat / Altın, Nitelikli: Hayır, Likidite: Evet, Karakter: Bekler, izlerim, İlgi: Hayır"},
			},
			wantPastForm: true,
			wantFormData: true,
		},
		{
			name: "long conversation past form",
			messages: []domain.ChatMessage{
				{Role: "user", Content: "a"}, {Role: "assistant", Content: "b"},
				{Role: "user", Content: "c"}, {Role: "assistant", Content: "d"},
				{Role: "user", Content: "e"}, {Role: "assistant", Content: "f"},
				{Role: "user", Content: "g"},
			},
			wantPastForm: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectSignals(tt.messages)
			if got.pastForm != tt.wantPastForm {
				t.Errorf("pastForm = %v, want %v", got.pastForm, tt.wantPastForm)
			}
			if got.formData != tt.wantFormData {
				t.Errorf("formData = %v, want %v", got.formData, tt.wantFormData)
			}
		})
	}
}

func TestBuildObjectInstruction_CatalogInjection(t *testing.T) {
	c := &stubCatalog{}

	early := buildObjectInstruction(conversationSignals{}, nil, c)
	if strings.Contains(early, "FON VERİTABANI") {
		t.Error("catalog injected before the form step")
	}

	late := buildObjectInstruction(conversationSignals{pastForm: true}, nil, c)
	if !strings.Contains(late, "FON VERİTABANI") {
		t.Error("catalog missing past the form step")
	}
	if !strings.Contains(late, "stub-fon") {
		t.Error("catalog content missing")
	}
}

func TestBuildObjectInstruction_KnownAnswersEchoed(t *testing.T) {
	messages := []domain.ChatMessage{
		{Role: "user", Content: "Merhaba"},
		{Role: "assistant", Content: "İsminizi öğrenebilir miyim?"},
		{Role: "user", Content: "Ayşe"},
	}
	known := extractAnswers(messages)

	out := buildObjectInstruction(conversationSignals{}, known, &stubCatalog{})
	if !strings.Contains(out, "BİLİNEN CEVAPLAR") {
		t.Error("known answers section missing")
	}
	if !strings.Contains(out, "Ayşe") {
		t.Error("extracted name not echoed")
	}
}
