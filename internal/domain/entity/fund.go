package entity

// Risk tier labels, fixed by the wire contract.
const (
	RiskLow    = "Düşük Risk"
	RiskMedium = "Orta Risk"
	RiskHigh   = "Yüksek Risk"
)

// FundDetail is one investment fund record. The json tags match the
// summary.onerilecekFonlar wire format; Tags exist only for catalog
// filtering and prompt injection, the generator never echoes them.
type FundDetail struct {
	ID           string   `json:"id"`
	Ad           string   `json:"ad"`
	Risk         string   `json:"risk"`
	Getiri       float64  `json:"getiri"`
	MinimumTutar float64  `json:"minimumTutar"`
	Kategori     string   `json:"kategori"`
	Aciklama     string   `json:"aciklama"`
	DetayURL     string   `json:"detayUrl"`
	EnUygun      bool     `json:"enUygun,omitempty"`
	NedenUygun   string   `json:"nedenUygun,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}
