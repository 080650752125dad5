package flow

import (
	"fmt"
	"strings"
)

// FormQuestion is one step of the inline profile form.
type FormQuestion struct {
	Key     string
	Label   string
	Options []string
}

// FormAnswers holds the selections in question order.
type FormAnswers struct {
	Vade      string
	Urun      string
	Nitelikli string
	Likidite  string
	Karakter  string
	Ilgi      string
}

// Questions returns the profile form in presentation order.
func Questions() []FormQuestion {
	return []FormQuestion{
		{
			Key:     "vade",
			Label:   "Yatırımınızı ne kadar süre değerlendirmeyi düşünüyorsunuz?",
			Options: []string{"0-1 yıl", "1-5 yıl", "5 yıl ve üzeri"},
		},
		{
			Key:     "urun",
			Label:   "Daha önce hangi yatırım ürünlerini kullandınız?",
			Options: []string{"Mevduat / Altın", "Yatırım fonu", "Hisse senedi", "Hiçbiri"},
		},
		{
			Key:     "nitelikli",
			Label:   "Nitelikli yatırımcı mısınız?",
			Options: []string{"Evet", "Hayır"},
		},
		{
			Key:     "likidite",
			Label:   "Yatırdığınız paraya kısa sürede ihtiyacınız olabilir mi?",
			Options: []string{"Evet", "Hayır"},
		},
		{
			Key:     "karakter",
			Label:   "Piyasalar sert düştüğünde ne yaparsınız?",
			Options: []string{"Hemen satarım", "Bekler, izlerim", "Fırsat görür, alırım"},
		},
		{
			Key:     "ilgi",
			Label:   "İlginizi çeken bir yatırım teması var mı?",
			Options: []string{"Teknoloji", "Sürdürülebilirlik", "Hayır"},
		},
	}
}

// BuildMessage renders the answers as the single transcript message the
// server expects: fixed labels, comma separated, fixed order.
func BuildMessage(a FormAnswers) string {
	return fmt.Sprintf("Vade: %s, Ürün: %s, Nitelikli: %s, Likidite: %s, Karakter: %s, İlgi: %s",
		a.Vade, a.Urun, a.Nitelikli, a.Likidite, a.Karakter, a.Ilgi)
}

// SetAnswer fills the field matching the question key.
func (a *FormAnswers) SetAnswer(key, value string) {
	switch key {
	case "vade":
		a.Vade = value
	case "urun":
		a.Urun = value
	case "nitelikli":
		a.Nitelikli = value
	case "likidite":
		a.Likidite = value
	case "karakter":
		a.Karakter = value
	case "ilgi":
		a.Ilgi = value
	}
}

// Complete reports whether every question has an answer.
func (a FormAnswers) Complete() bool {
	for _, v := range []string{a.Vade, a.Urun, a.Nitelikli, a.Likidite, a.Karakter, a.Ilgi} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}
