package usecase

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/onatvural/onboarding-demo/internal/domain"
	"github.com/onatvural/onboarding-demo/internal/domain/entity"
)

// Form field labels of the submitted inline form, in wire order:
// "Vade: X, Ürün: Y, Nitelikli: Z, Likidite: A, Karakter: B, İlgi: C".
const (
	formLabelVade      = "Vade"
	formLabelUrun      = "Ürün"
	formLabelNitelikli = "Nitelikli"
	formLabelLikidite  = "Likidite"
	formLabelKarakter  = "Karakter"
	formLabelIlgi      = "İlgi"
)

// conversationSignals are the step-detection side signals computed from the
// transcript. They only steer prompt construction (whether the fund catalog
// is injected); they never appear on the wire.
type conversationSignals struct {
	// pastForm is true once the conversation has reached the result step.
	pastForm bool
	// formData is true when the last message is a submitted form.
	formData bool
}

func detectSignals(messages []domain.ChatMessage) conversationSignals {
	var s conversationSignals
	if len(messages) >= 6 {
		s.pastForm = true
	}
	last := messages[len(messages)-1]
	if IsFormMessage(last.Content) {
		s.formData = true
		s.pastForm = true
	}
	return s
}

// IsFormMessage reports whether a message content carries submitted form
// answers.
func IsFormMessage(content string) bool {
	return strings.Contains(content, formLabelVade+":") && strings.Contains(content, formLabelUrun+":")
}

// EncodeFormMessage renders form answers as the fixed-order comma string the
// protocol smuggles through the plain {role, content} transcript.
func EncodeFormMessage(vade, urun, nitelikli, likidite, karakter, ilgi string) string {
	return fmt.Sprintf("%s: %s, %s: %s, %s: %s, %s: %s, %s: %s, %s: %s",
		formLabelVade, vade,
		formLabelUrun, urun,
		formLabelNitelikli, nitelikli,
		formLabelLikidite, likidite,
		formLabelKarakter, karakter,
		formLabelIlgi, ilgi,
	)
}

// extractAnswers recovers profile answers from the full, unwindowed
// transcript. The history window forwarded to the model may drop the
// earliest turns; echoing these into the system instruction keeps the
// model's context complete regardless of window size.
func extractAnswers(messages []domain.ChatMessage) *entity.PreviousAnswers {
	answers := &entity.PreviousAnswers{}
	found := false

	userIdx := 0
	for _, m := range messages {
		if m.Role != "user" {
			continue
		}
		userIdx++

		if IsFormMessage(m.Content) {
			parseFormMessage(m.Content, answers)
			found = true
			continue
		}

		// The second user message answers the name question (the first one
		// merely opened the conversation).
		if userIdx == 2 && answers.Isim == nil {
			name := strings.TrimSpace(m.Content)
			if name != "" && len(name) <= 100 {
				answers.Isim = &name
				found = true
			}
		}
	}

	if !found {
		return nil
	}
	return answers
}

// parseFormMessage splits on the known labels rather than commas because
// answer values themselves may contain commas ("Bekler, izlerim").
func parseFormMessage(content string, answers *entity.PreviousAnswers) {
	labels := []string{
		formLabelVade, formLabelUrun, formLabelNitelikli,
		formLabelLikidite, formLabelKarakter, formLabelIlgi,
	}

	type fieldPos struct {
		label    string
		start    int
		valStart int
	}
	var fields []fieldPos
	for _, label := range labels {
		idx := strings.Index(content, label+":")
		if idx < 0 {
			continue
		}
		fields = append(fields, fieldPos{label, idx, idx + len(label) + 1})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].start < fields[j].start })

	for i, f := range fields {
		end := len(content)
		if i+1 < len(fields) {
			end = fields[i+1].start
		}
		value := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(content[f.valStart:end]), ","))
		if value == "" {
			continue
		}
		switch f.label {
		case formLabelVade:
			answers.Vade = &value
		case formLabelUrun:
			answers.Urun = &value
		case formLabelNitelikli:
			qualified := strings.EqualFold(value, "Evet")
			answers.Nitelikli = &qualified
		case formLabelLikidite:
			answers.Nakit = &value
		case formLabelKarakter:
			answers.Karakter = &value
		case formLabelIlgi:
			if !strings.EqualFold(value, "Hayır") {
				answers.IlgiAlanlari = []string{value}
			}
		}
	}
}

// buildObjectInstruction assembles the system instruction for the
// schema-constrained onboarding flow. The fund catalog is appended only
// once the signals say the conversation is past the form step, to keep
// early prompts small.
func buildObjectInstruction(signals conversationSignals, known *entity.PreviousAnswers, catalog domain.FundCatalog) string {
	var b strings.Builder

	currentTime := time.Now().Format("02 January 2006 Monday 15:04")

	b.WriteString(`Sen Beta Space Finans müşteri asistanısın. Doğal, samimi ve insan gibi konuş.
Şu an: ` + currentTime + `

Yanıtını HER ZAMAN şu şemaya uyan tek bir JSON nesnesi olarak üret:
{"step": 0-4, "text": string, "buttons": [string] (opsiyonel), "showForm": bool (opsiyonel),
 "previousAnswers": {"isim","vade","urun","nitelikli","nakit","karakter","ilgiAlanlari"} (opsiyonel),
 "isComplete": bool, "summary": {"riskProfili", "onerilecekFonlar": [fon]} (opsiyonel)}

## DOĞAL KONUŞMA KURALLARI
- Her cümle maksimum 25 kelime (İSTİSNA: fon önerileri ve açıklama gereken durumlar)
- Kısa, net, samimi cümleler kur
- İsmi ara ara doğal şekilde kullan (her cümlede değil)

## AKIŞ: 5 ADIM
Her adımda previousAnswers'ı güncelle. Kullanıcı buton yerine yazı ile de cevap verebilir, anla ve ilerle.

**Step 0 - İsim (serbest metin):** "Hoş geldiniz! İlk olarak isminizi öğrenebilir miyim?"
→ buton YOK, previousAnswers.isim kaydet, doğal karşılama yap.

**Step 1 - Hazırlık Onayı:** "Sana en uygun yatırım fonlarını önerebilmem için birkaç soru soracağım, hazır mısın?"
buttons: ["Evet, başlayalım!", "Daha sonra"]
→ "Daha sonra" ise isComplete: true, süreci bitir, summary YOK.

**Step 2 - Form:** kısa bir açıklama yaz ve showForm: true gönder. Buton gösterme.

**Step 3 - Form İşleme:** form cevapları tek mesajda gelir
("Vade: X, Ürün: Y, Nitelikli: Z, Likidite: A, Karakter: B, İlgi: C").
→ previousAnswers'ı doldur ve HEMEN Step 4'e geç.

**Step 4 - Sonuçlar:** step: 4, isComplete: true, text: "" (boş),
summary.riskProfili belirle ve summary.onerilecekFonlar'a TAM 3 fon yaz
(id, ad, risk, getiri, minimumTutar, kategori, aciklama, detayUrl).

## RİSK PROFİLİ BELİRLEME
- Düşük Risk: kısa vade + güvenli ürünler (mevduat/altın) + kriz tepkisi: hemen satar
- Orta Risk: orta vade + karma ürünler + kriz tepkisi: bekler/izler
- Yüksek Risk: uzun vade (5 yıl+) + hisse/fon + kriz tepkisi: fırsat görür

## ÖNEMLİ KURALLAR
1. step asla geri gitmez; isComplete bir kez true olduysa true kalır.
2. previousAnswers'ta dolu bir alanı asla silme veya değiştirme.
3. Step 4'te: risk seviyesine göre filtrele, getiriye göre sırala, ilk 2 fonu al;
   ilgi alanı varsa 3. fon olarak teknoloji/sürdürülebilirlik etiketli fonu ekle.
`)

	if known != nil {
		if data, err := sonic.Marshal(known); err == nil {
			b.WriteString("\n## BİLİNEN CEVAPLAR\nKonuşma geçmişi kırpılmış olabilir; şu cevaplar kesin, previousAnswers'a aynen taşı:\n")
			b.Write(data)
			b.WriteString("\n")
		}
	}

	if signals.pastForm {
		if data, err := sonic.MarshalIndent(catalog.All(), "", "  "); err == nil {
			b.WriteString("\n## FON VERİTABANI\n")
			b.Write(data)
			b.WriteString("\n")
		}
	}

	return b.String()
}

// buildTextInstruction is the plain Q&A variant with no schema constraint.
func buildTextInstruction() string {
	return `Sen Beta Space Finans müşteri asistanısın. Yatırım fonları ve Beta Space Finans
hizmetleri hakkındaki soruları kısa, net ve samimi bir dille yanıtla. Yanıtını düz metin olarak üret.`
}
