package contracts

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func samplePortfolio() *Portfolio {
	debt := 1.5
	return &Portfolio{
		Stocks: []StockAnalysis{
			{
				Snapshot: FinancialSnapshot{
					Symbol: "PETR4",
					Region: RegionBR,
					Name:   "PETROBRAS PN",
					Price:  36.75,
					Fundamentals: Fundamentals{
						PE: 6.8, PB: 1.2, ROE: 0.185, DividendYield: 0.124, DebtToEBITDA: &debt,
					},
					FetchedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
				},
				Estimate: Estimate{FairValue: 52.10, Potential: 41.77, ImpliedEPS: 5.40, ImpliedBVPS: 30.62},
				Evaluation: Evaluation{
					Score:         8,
					Rating:        RatingGreatOpportunity,
					Strengths:     []string{"P/L baixo: 6.8"},
					Weaknesses:    []string{},
					IsOpportunity: true,
					Potential:     41.77,
				},
			},
			{
				Snapshot: FinancialSnapshot{
					Symbol:    "AAPL",
					Region:    RegionUS,
					Name:      "Apple Inc.",
					Price:     212.4,
					FetchedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
				},
				Estimate:   Estimate{FairValue: 150.0, Potential: -29.38},
				Evaluation: Evaluation{Score: -3, Rating: RatingNeutral, Potential: -29.38},
			},
		},
		LastUpdate: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		TotalScore: 5,
	}
}

func TestPortfolio_JSONRoundTrip(t *testing.T) {
	original := samplePortfolio()

	first, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var decoded Portfolio
	if err := json.Unmarshal(first, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	second, err := json.Marshal(&decoded)
	if err != nil {
		t.Fatalf("Failed to re-marshal: %v", err)
	}

	// Serialize, deserialize, re-serialize must be byte-identical.
	if !bytes.Equal(first, second) {
		t.Errorf("Round trip not byte-identical:\nfirst:  %s\nsecond: %s", first, second)
	}

	if decoded.TotalScore != original.TotalScore {
		t.Errorf("TotalScore mismatch: got %d, want %d", decoded.TotalScore, original.TotalScore)
	}
	if len(decoded.Stocks) != len(original.Stocks) {
		t.Fatalf("Stocks count mismatch: got %d, want %d", len(decoded.Stocks), len(original.Stocks))
	}
	if decoded.Stocks[0].Symbol() != "PETR4" {
		t.Errorf("Symbol mismatch: got %s, want PETR4", decoded.Stocks[0].Symbol())
	}
	if decoded.Stocks[0].Snapshot.Fundamentals.DebtToEBITDA == nil {
		t.Error("DebtToEBITDA should survive the round trip")
	}
}

func TestPortfolio_CountRegion(t *testing.T) {
	p := samplePortfolio()

	if got := p.CountRegion(RegionBR); got != 1 {
		t.Errorf("CountRegion(BR) = %d, want 1", got)
	}
	if got := p.CountRegion(RegionUS); got != 1 {
		t.Errorf("CountRegion(US) = %d, want 1", got)
	}
}

func TestPortfolio_GetStock(t *testing.T) {
	p := samplePortfolio()

	stock, exists := p.GetStock("PETR4")
	if !exists {
		t.Fatal("Expected to find PETR4")
	}
	if stock.Snapshot.Name != "PETROBRAS PN" {
		t.Errorf("Got name %s, want PETROBRAS PN", stock.Snapshot.Name)
	}

	_, exists = p.GetStock("XXXX9")
	if exists {
		t.Error("Expected not to find XXXX9")
	}
}

func TestPortfolio_Favorites(t *testing.T) {
	p := samplePortfolio()
	p.Stocks = append(p.Stocks, StockAnalysis{
		Snapshot:   FinancialSnapshot{Symbol: "VALE3", Region: RegionBR},
		Estimate:   Estimate{FairValue: 90, Potential: 65.0},
		Evaluation: Evaluation{Score: 9, Rating: RatingGreatOpportunity, IsOpportunity: true, Potential: 65.0},
	})

	favorites := p.Favorites()
	if len(favorites) != 2 {
		t.Fatalf("Expected 2 favorites, got %d", len(favorites))
	}

	// Sorted by potential descending.
	if favorites[0].Symbol() != "VALE3" {
		t.Errorf("Expected VALE3 first, got %s", favorites[0].Symbol())
	}
	if favorites[1].Symbol() != "PETR4" {
		t.Errorf("Expected PETR4 second, got %s", favorites[1].Symbol())
	}
}

func TestSnapshot_IsStale(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	fresh := FinancialSnapshot{FetchedAt: now.Add(-1 * time.Hour)}
	if fresh.IsStale(now, 24*time.Hour) {
		t.Error("Snapshot 1h old should not be stale at 24h")
	}

	old := FinancialSnapshot{FetchedAt: now.Add(-25 * time.Hour)}
	if !old.IsStale(now, 24*time.Hour) {
		t.Error("Snapshot 25h old should be stale at 24h")
	}

	var zero FinancialSnapshot
	if !zero.IsStale(now, 24*time.Hour) {
		t.Error("Zero snapshot should always be stale")
	}
}
