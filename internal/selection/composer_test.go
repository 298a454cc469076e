package selection

import (
	"fmt"
	"testing"
	"time"

	"github.com/clearview/vista/backend/internal/contracts"
)

func candidate(symbol string, region contracts.Region, score int) contracts.StockAnalysis {
	return contracts.StockAnalysis{
		Snapshot:   contracts.FinancialSnapshot{Symbol: symbol, Region: region},
		Evaluation: contracts.Evaluation{Score: score},
	}
}

func symbols(p *contracts.Portfolio) []string {
	out := make([]string, 0, len(p.Stocks))
	for i := range p.Stocks {
		out = append(out, p.Stocks[i].Symbol())
	}
	return out
}

func TestCompose_RanksByScore(t *testing.T) {
	candidates := []contracts.StockAnalysis{
		candidate("BBB3", contracts.RegionBR, 5),
		candidate("AAA3", contracts.RegionBR, 9),
		candidate("CCC3", contracts.RegionBR, 7),
	}

	p := Compose(candidates, time.Now())

	want := []string{"AAA3", "CCC3", "BBB3"}
	got := symbols(p)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Order = %v, want %v", got, want)
		}
	}
	if p.TotalScore != 21 {
		t.Errorf("TotalScore = %d, want 21", p.TotalScore)
	}
}

func TestCompose_TieBreakBySymbol(t *testing.T) {
	candidates := []contracts.StockAnalysis{
		candidate("ZZZZ3", contracts.RegionBR, 5),
		candidate("AAAA3", contracts.RegionBR, 5),
		candidate("MMMM3", contracts.RegionBR, 5),
	}

	p := Compose(candidates, time.Now())

	want := []string{"AAAA3", "MMMM3", "ZZZZ3"}
	got := symbols(p)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Order = %v, want %v", got, want)
		}
	}
}

func TestCompose_CapsAtMaxSize(t *testing.T) {
	var candidates []contracts.StockAnalysis
	for i := 0; i < 15; i++ {
		candidates = append(candidates, candidate(fmt.Sprintf("BR%02d", i), contracts.RegionBR, 15-i))
	}

	p := Compose(candidates, time.Now())
	if p.Count() != contracts.MaxPortfolioSize {
		t.Errorf("Count = %d, want %d", p.Count(), contracts.MaxPortfolioSize)
	}
}

func TestCompose_QuotaReplacesUS(t *testing.T) {
	// Ten stronger US candidates would fill the book alone. The quota
	// must pull every one of the five Brazilian candidates in, even the
	// score-zero one, leaving five US members.
	candidates := []contracts.StockAnalysis{
		candidate("BRA3", contracts.RegionBR, 10),
		candidate("BRB3", contracts.RegionBR, 9),
		candidate("BRC3", contracts.RegionBR, 8),
		candidate("BRD3", contracts.RegionBR, 1),
		candidate("BRE3", contracts.RegionBR, 0),
	}
	for i := 0; i < 10; i++ {
		candidates = append(candidates, candidate(fmt.Sprintf("US%02d", i), contracts.RegionUS, 20))
	}

	p := Compose(candidates, time.Now())

	if p.Count() != contracts.MaxPortfolioSize {
		t.Fatalf("Count = %d, want %d", p.Count(), contracts.MaxPortfolioSize)
	}
	if got := p.CountRegion(contracts.RegionBR); got != 5 {
		t.Errorf("BR members = %d, want all 5", got)
	}
	for _, sym := range []string{"BRA3", "BRB3", "BRC3", "BRD3", "BRE3"} {
		if _, ok := p.GetStock(sym); !ok {
			t.Errorf("Missing Brazilian candidate %s", sym)
		}
	}
}

func TestCompose_QuotaSatisfiedNoReplacement(t *testing.T) {
	var candidates []contracts.StockAnalysis
	for i := 0; i < 7; i++ {
		candidates = append(candidates, candidate(fmt.Sprintf("BR%02d", i), contracts.RegionBR, 20-i))
	}
	for i := 0; i < 5; i++ {
		candidates = append(candidates, candidate(fmt.Sprintf("US%02d", i), contracts.RegionUS, 10-i))
	}

	p := Compose(candidates, time.Now())

	if got := p.CountRegion(contracts.RegionBR); got != 7 {
		t.Errorf("BR members = %d, want 7", got)
	}
	if got := p.CountRegion(contracts.RegionUS); got != 3 {
		t.Errorf("US members = %d, want 3", got)
	}
}

func TestCompose_ReplacementTargetsLowestRankedUS(t *testing.T) {
	// Six BR in the top ten plus four US. The seventh BR candidate must
	// displace the last US member in rank order, not the first.
	candidates := []contracts.StockAnalysis{
		candidate("USAA", contracts.RegionUS, 18),
		candidate("USBB", contracts.RegionUS, 17),
		candidate("USCC", contracts.RegionUS, 16),
		candidate("USDD", contracts.RegionUS, 15),
	}
	for i := 0; i < 6; i++ {
		candidates = append(candidates, candidate(fmt.Sprintf("BR%02d", i), contracts.RegionBR, 14-i))
	}
	candidates = append(candidates, candidate("BRX3", contracts.RegionBR, 2))

	p := Compose(candidates, time.Now())

	if _, ok := p.GetStock("USDD"); ok {
		t.Error("USDD should have been displaced")
	}
	if _, ok := p.GetStock("USAA"); !ok {
		t.Error("USAA should have survived")
	}
	if _, ok := p.GetStock("BRX3"); !ok {
		t.Error("BRX3 should have been admitted")
	}
	if got := p.CountRegion(contracts.RegionBR); got != 7 {
		t.Errorf("BR members = %d, want 7", got)
	}
}

func TestCompose_FewCandidates(t *testing.T) {
	candidates := []contracts.StockAnalysis{
		candidate("AAPL", contracts.RegionUS, 3),
		candidate("PETR4", contracts.RegionBR, 2),
	}

	p := Compose(candidates, time.Now())
	if p.Count() != 2 {
		t.Errorf("Count = %d, want 2", p.Count())
	}
}

func TestCompose_Empty(t *testing.T) {
	p := Compose(nil, time.Now())
	if p.Count() != 0 {
		t.Errorf("Count = %d, want 0", p.Count())
	}
	if p.TotalScore != 0 {
		t.Errorf("TotalScore = %d, want 0", p.TotalScore)
	}
}

func TestCompose_DoesNotMutateInput(t *testing.T) {
	candidates := []contracts.StockAnalysis{
		candidate("BBB3", contracts.RegionBR, 1),
		candidate("AAA3", contracts.RegionBR, 9),
	}

	Compose(candidates, time.Now())

	if candidates[0].Symbol() != "BBB3" {
		t.Error("Compose must not reorder the caller's slice")
	}
}
