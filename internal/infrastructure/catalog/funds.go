// Package catalog holds the demo fund dataset and the selection rules used
// to build recommendations. It is a fixture, not a market-data feed: the
// dataset is injected into the generator's system instruction once the
// conversation reaches the recommendation step.
package catalog

import (
	"sort"

	"github.com/onatvural/onboarding-demo/internal/domain"
	"github.com/onatvural/onboarding-demo/internal/domain/entity"
)

var funds = []entity.FundDetail{
	{
		ID:           "bsf-kisa-vadeli-tahvil",
		Ad:           "BSF Kısa Vadeli Tahvil Fonu",
		Risk:         entity.RiskLow,
		Getiri:       8.5,
		MinimumTutar: 1000,
		Kategori:     "Tahvil",
		Aciklama:     "Kısa vadeli devlet tahvillerine yatırım yaparak istikrarlı getiri hedefler. Düşük riskli yatırımcılar için idealdir.",
		DetayURL:     "/fonlar/kisa-vadeli-tahvil",
		Tags:         []string{"güvenli", "kısa-vade"},
	},
	{
		ID:           "bsf-likit-fon",
		Ad:           "BSF Likit Fon",
		Risk:         entity.RiskLow,
		Getiri:       7.2,
		MinimumTutar: 500,
		Kategori:     "Likit",
		Aciklama:     "Yüksek likidite sağlayan, günlük erişim imkanı sunan para piyasası fonu. Acil nakit ihtiyaçları için uygundur.",
		DetayURL:     "/fonlar/likit-fon",
		Tags:         []string{"likit", "güvenli"},
	},
	{
		ID:           "bsf-altin-fon",
		Ad:           "BSF Altın Fonu",
		Risk:         entity.RiskLow,
		Getiri:       9.8,
		MinimumTutar: 2000,
		Kategori:     "Kıymetli Maden",
		Aciklama:     "Altın ve değerli madenlere yatırım yaparak enflasyona karşı koruma sağlar. Uzun vadeli değer koruma aracıdır.",
		DetayURL:     "/fonlar/altin-fon",
		Tags:         []string{"altın", "enflasyon-koruması"},
	},
	{
		ID:           "bsf-dengeli-karma",
		Ad:           "BSF Dengeli Karma Fon",
		Risk:         entity.RiskMedium,
		Getiri:       12.5,
		MinimumTutar: 1500,
		Kategori:     "Karma",
		Aciklama:     "Hem hisse senedi hem tahvil içeren dengeli portföy. Orta düzey risk ve getiri dengesi sunar.",
		DetayURL:     "/fonlar/dengeli-karma",
		Tags:         []string{"dengeli", "çeşitlendirilmiş"},
	},
	{
		ID:           "bsf-degisken-fon",
		Ad:           "BSF Değişken Fon",
		Risk:         entity.RiskMedium,
		Getiri:       14.3,
		MinimumTutar: 2500,
		Kategori:     "Değişken",
		Aciklama:     "Piyasa koşullarına göre varlık dağılımını değiştiren esnek yapılı fon. Aktif yönetim stratejisi uygular.",
		DetayURL:     "/fonlar/degisken-fon",
		Tags:         []string{"esnek", "aktif-yönetim"},
	},
	{
		ID:           "bsf-baslangic-fon-sepeti",
		Ad:           "BSF Başlangıç Fon Sepeti",
		Risk:         entity.RiskMedium,
		Getiri:       11.8,
		MinimumTutar: 1000,
		Kategori:     "Fon Sepeti",
		Aciklama:     "Yeni başlayanlar için özel olarak hazırlanmış çeşitlendirilmiş fon sepeti. Kolay yatırım deneyimi sunar.",
		DetayURL:     "/fonlar/baslangic-fon-sepeti",
		Tags:         []string{"başlangıç", "çeşitlendirilmiş"},
	},
	{
		ID:           "bsf-hisse-senedi-fon",
		Ad:           "BSF Hisse Senedi Fonu",
		Risk:         entity.RiskHigh,
		Getiri:       18.7,
		MinimumTutar: 3000,
		Kategori:     "Hisse Senedi",
		Aciklama:     "Borsa İstanbul'da işlem gören seçkin hisse senetlerine yatırım yapar. Yüksek getiri potansiyeli sunar.",
		DetayURL:     "/fonlar/hisse-senedi-fon",
		Tags:         []string{"hisse", "yüksek-getiri"},
	},
	{
		ID:           "bsf-teknoloji-yogun",
		Ad:           "BSF Teknoloji Yoğun Fon",
		Risk:         entity.RiskHigh,
		Getiri:       22.4,
		MinimumTutar: 5000,
		Kategori:     "Sektörel",
		Aciklama:     "Teknoloji şirketlerine odaklanan tematik fon. Gelecek teknolojilerine yatırım fırsatı sağlar.",
		DetayURL:     "/fonlar/teknoloji-yogun",
		Tags:         []string{"teknoloji", "inovasyon", "tematik"},
	},
	{
		ID:           "bsf-gelisen-piyasalar",
		Ad:           "BSF Gelişen Piyasalar Fonu",
		Risk:         entity.RiskHigh,
		Getiri:       20.1,
		MinimumTutar: 4000,
		Kategori:     "Uluslararası",
		Aciklama:     "Gelişmekte olan ülke piyasalarına yatırım yapar. Küresel çeşitlendirme ve yüksek büyüme potansiyeli sunar.",
		DetayURL:     "/fonlar/gelisen-piyasalar",
		Tags:         []string{"uluslararası", "büyüme"},
	},
	{
		ID:           "bsf-surdurulebilirlik-temali",
		Ad:           "BSF Sürdürülebilirlik Temalı Fon",
		Risk:         entity.RiskMedium,
		Getiri:       13.9,
		MinimumTutar: 2500,
		Kategori:     "Tematik",
		Aciklama:     "Çevre dostu ve sosyal sorumluluk sahibi şirketlere yatırım yapar. ESG kriterlerine uygun portföy yönetimi.",
		DetayURL:     "/fonlar/surdurulebilirlik-temali",
		Tags:         []string{"sürdürülebilirlik", "ESG", "çevre", "tematik"},
	},
	{
		ID:           "bsf-teknoloji-inovasyon",
		Ad:           "BSF Teknoloji ve İnovasyon Fonu",
		Risk:         entity.RiskHigh,
		Getiri:       24.2,
		MinimumTutar: 5000,
		Kategori:     "Tematik",
		Aciklama:     "Yapay zeka, elektrikli araçlar, yenilenebilir enerji gibi geleceğin teknolojilerine odaklanan fon.",
		DetayURL:     "/fonlar/teknoloji-inovasyon",
		Tags:         []string{"teknoloji", "inovasyon", "yapay-zeka", "elektrikli-araç", "tematik"},
	},
}

// Catalog is the in-memory fund dataset.
type Catalog struct{}

// New creates the catalog.
func New() domain.FundCatalog {
	return &Catalog{}
}

// All returns a copy of every fund record.
func (c *Catalog) All() []entity.FundDetail {
	out := make([]entity.FundDetail, len(funds))
	copy(out, funds)
	return out
}

// ByRisk filters funds by risk tier.
func (c *Catalog) ByRisk(risk string) []entity.FundDetail {
	var out []entity.FundDetail
	for _, f := range funds {
		if f.Risk == risk {
			out = append(out, f)
		}
	}
	return out
}

// ByTags returns funds carrying at least one of the given tags.
func (c *Catalog) ByTags(tags []string) []entity.FundDetail {
	wanted := make(map[string]bool, len(tags))
	for _, t := range tags {
		wanted[t] = true
	}
	var out []entity.FundDetail
	for _, f := range funds {
		for _, t := range f.Tags {
			if wanted[t] {
				out = append(out, f)
				break
			}
		}
	}
	return out
}

// SortByReturn orders funds by annual return, descending. The input slice
// is not modified.
func SortByReturn(in []entity.FundDetail) []entity.FundDetail {
	out := make([]entity.FundDetail, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Getiri > out[j].Getiri
	})
	return out
}

// Recommend applies the recommendation rule: the two highest-return funds of
// the risk tier, then a thematic (teknoloji/sürdürülebilirlik) fund as the
// third slot when the customer showed interest, otherwise the third-highest
// return. Always returns exactly three funds when the tier is known.
func (c *Catalog) Recommend(riskProfile string, interested bool) []entity.FundDetail {
	tier := SortByReturn(c.ByRisk(riskProfile))
	if len(tier) == 0 {
		return nil
	}

	out := make([]entity.FundDetail, 0, entity.RecommendedFundCount)
	out = append(out, tier[:min(2, len(tier))]...)

	if interested {
		for _, f := range SortByReturn(c.ByTags([]string{"teknoloji", "sürdürülebilirlik"})) {
			if !containsFund(out, f.ID) {
				out = append(out, f)
				break
			}
		}
	}

	// Fill any remaining slots from the tier, then from the whole catalog.
	for _, pool := range [][]entity.FundDetail{tier, SortByReturn(c.All())} {
		for _, f := range pool {
			if len(out) >= entity.RecommendedFundCount {
				return out
			}
			if !containsFund(out, f.ID) {
				out = append(out, f)
			}
		}
	}
	return out
}

func containsFund(list []entity.FundDetail, id string) bool {
	for _, f := range list {
		if f.ID == id {
			return true
		}
	}
	return false
}
