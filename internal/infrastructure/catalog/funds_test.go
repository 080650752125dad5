package catalog

import (
	"testing"

	"github.com/onatvural/onboarding-demo/internal/domain/entity"
)

func TestRecommend_ReturnsExactlyThree(t *testing.T) {
	c := &Catalog{}

	for _, risk := range []string{entity.RiskLow, entity.RiskMedium, entity.RiskHigh} {
		for _, interested := range []bool{true, false} {
			got := c.Recommend(risk, interested)
			if len(got) != entity.RecommendedFundCount {
				t.Errorf("Recommend(%q, %v) returned %d funds, want %d",
					risk, interested, len(got), entity.RecommendedFundCount)
			}
		}
	}
}

func TestRecommend_TopReturnsOfTier(t *testing.T) {
	c := &Catalog{}

	got := c.Recommend(entity.RiskLow, false)
	if len(got) < 2 {
		t.Fatalf("got %d funds", len(got))
	}

	// Low tier sorted by return: altın (9.8), kısa vadeli tahvil (8.5), likit (7.2).
	if got[0].ID != "bsf-altin-fon" {
		t.Errorf("first fund = %s, want bsf-altin-fon", got[0].ID)
	}
	if got[1].ID != "bsf-kisa-vadeli-tahvil" {
		t.Errorf("second fund = %s, want bsf-kisa-vadeli-tahvil", got[1].ID)
	}
	if got[0].Getiri < got[1].Getiri {
		t.Error("funds not ordered by return")
	}
}

func TestRecommend_ThematicSlotWhenInterested(t *testing.T) {
	c := &Catalog{}

	got := c.Recommend(entity.RiskLow, true)
	if len(got) != 3 {
		t.Fatalf("got %d funds", len(got))
	}

	// The third slot must come from the thematic pool, highest return first:
	// teknoloji-inovasyon at 24.2.
	if got[2].ID != "bsf-teknoloji-inovasyon" {
		t.Errorf("thematic slot = %s, want bsf-teknoloji-inovasyon", got[2].ID)
	}
}

func TestRecommend_NoDuplicates(t *testing.T) {
	c := &Catalog{}

	got := c.Recommend(entity.RiskHigh, true)
	seen := make(map[string]bool)
	for _, f := range got {
		if seen[f.ID] {
			t.Errorf("fund %s recommended twice", f.ID)
		}
		seen[f.ID] = true
	}
}

func TestRecommend_UnknownTier(t *testing.T) {
	c := &Catalog{}
	if got := c.Recommend("Bilinmeyen", false); got != nil {
		t.Errorf("unknown tier returned %d funds, want none", len(got))
	}
}

func TestSortByReturn_DoesNotMutateInput(t *testing.T) {
	c := &Catalog{}
	in := c.All()
	firstBefore := in[0].ID

	SortByReturn(in)
	if in[0].ID != firstBefore {
		t.Error("input slice reordered")
	}
}

func TestByTags(t *testing.T) {
	c := &Catalog{}

	got := c.ByTags([]string{"tematik"})
	if len(got) != 3 {
		t.Fatalf("got %d thematic funds, want 3", len(got))
	}
	for _, f := range got {
		found := false
		for _, tag := range f.Tags {
			if tag == "tematik" {
				found = true
			}
		}
		if !found {
			t.Errorf("fund %s has no tematik tag", f.ID)
		}
	}
}
