package commands

import (
	"strings"
	"testing"

	"github.com/onatvural/onboarding-demo/internal/cli/flow"
	"github.com/onatvural/onboarding-demo/internal/domain/entity"
)

func sampleAnswers() flow.FormAnswers {
	return flow.FormAnswers{
		Vade:      "1-5 yıl",
		Urun:      "Yatırım fonu",
		Nitelikli: "Hayır",
		Likidite:  "Evet",
		Karakter:  "Bekler, izlerim",
		Ilgi:      "Teknoloji",
	}
}

func TestProfileTranscript_WithoutName(t *testing.T) {
	msgs := profileTranscript("", sampleAnswers())
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if msgs[0].Role != "user" || !strings.Contains(msgs[0].Content, "Vade:") {
		t.Errorf("message = %+v", msgs[0])
	}
}

func TestProfileTranscript_WithName(t *testing.T) {
	msgs := profileTranscript("Ayşe", sampleAnswers())
	if len(msgs) != 5 {
		t.Fatalf("got %d messages, want 5", len(msgs))
	}

	// The name has to sit in the second user message so the server can pick
	// it up, and the form message has to come last.
	if msgs[2].Role != "user" || msgs[2].Content != "Ayşe" {
		t.Errorf("second user message = %+v", msgs[2])
	}
	last := msgs[len(msgs)-1]
	if last.Role != "user" || !strings.Contains(last.Content, "İlgi: Teknoloji") {
		t.Errorf("last message = %+v", last)
	}
	for i, m := range msgs {
		if m.Role != "user" && m.Role != "assistant" {
			t.Errorf("message %d has role %q", i, m.Role)
		}
	}
}

func TestRenderFunds(t *testing.T) {
	summary := &entity.Summary{
		RiskProfili: entity.RiskMedium,
		OnerilecekFonlar: []entity.FundDetail{
			{Ad: "Dengeli Fon", Risk: "Orta", Kategori: "Karma", Getiri: 12.5, MinimumTutar: 1000, EnUygun: true, NedenUygun: "Orta vade hedefinize uygun."},
			{Ad: "Tahvil Fonu", Risk: "Düşük", Kategori: "Borçlanma", Getiri: 8.5, MinimumTutar: 500},
		},
	}

	out := renderFunds(summary)
	if !strings.Contains(out, "Dengeli Fon") || !strings.Contains(out, "★ En Uygun") {
		t.Errorf("best fund not marked:\n%s", out)
	}
	if !strings.Contains(out, "Orta vade hedefinize uygun.") {
		t.Errorf("suitability line missing:\n%s", out)
	}
	if strings.Contains(out, "★ En Uygun\n"+"Düşük") {
		t.Errorf("marker leaked onto the second fund:\n%s", out)
	}
}
