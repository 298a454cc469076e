package contracts

// Estimate is a fair-value estimate for one instrument. It is immutable once
// computed: a change in price or fundamentals produces a new Estimate, never
// an in-place update.
type Estimate struct {
	FairValue   float64 `json:"fair_value"`
	Potential   float64 `json:"potential"` // percent gap to fair value, signed
	ImpliedEPS  float64 `json:"implied_eps"`
	ImpliedBVPS float64 `json:"implied_bvps"`
}

// HasValue reports whether the valuation formula produced a usable estimate.
// A zero fair value means "no fair value available", not a value of zero.
func (e *Estimate) HasValue() bool {
	return e.FairValue > 0
}

// Rating is the categorical recommendation derived from the score.
type Rating string

const (
	RatingGreatOpportunity Rating = "Ótima Oportunidade"
	RatingBuy              Rating = "Compra"
	RatingHold             Rating = "Manter"
	RatingNeutral          Rating = "Neutro"
	RatingSell             Rating = "Venda"
)

// Evaluation is the scored assessment of one instrument. Given the same
// snapshot and estimate, Evaluate produces a bit-identical Evaluation.
type Evaluation struct {
	Score         int      `json:"score"`
	Rating        Rating   `json:"rating"`
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	IsOpportunity bool     `json:"is_opportunity"`
	Potential     float64  `json:"potential"`
}

// StockAnalysis bundles everything known about one instrument after an
// analysis cycle. It is the unit the portfolio is composed of.
type StockAnalysis struct {
	Snapshot   FinancialSnapshot `json:"snapshot"`
	Estimate   Estimate          `json:"estimate"`
	Evaluation Evaluation        `json:"evaluation"`
}

// Symbol returns the instrument's symbol.
func (a *StockAnalysis) Symbol() string {
	return a.Snapshot.Symbol
}

// Region returns the instrument's market region.
func (a *StockAnalysis) Region() Region {
	return a.Snapshot.Region
}

// Score returns the evaluation score.
func (a *StockAnalysis) Score() int {
	return a.Evaluation.Score
}
