package market

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/clearview/vista/backend/internal/contracts"
)

var companyNames = map[string]string{
	"PETR4":  "Petrobras PN",
	"VALE3":  "Vale ON",
	"ITUB4":  "Itaú Unibanco PN",
	"BBDC4":  "Bradesco PN",
	"ABEV3":  "Ambev ON",
	"WEGE3":  "WEG ON",
	"RENT3":  "Localiza ON",
	"BBAS3":  "Banco do Brasil ON",
	"EGIE3":  "Engie Brasil ON",
	"TAEE11": "Taesa UNT",
	"AAPL":   "Apple Inc.",
	"MSFT":   "Microsoft Corporation",
	"AMZN":   "Amazon.com Inc.",
	"GOOGL":  "Alphabet Inc.",
	"META":   "Meta Platforms Inc.",
	"TSLA":   "Tesla Inc.",
	"NVDA":   "NVIDIA Corporation",
	"BRK-B":  "Berkshire Hathaway Inc.",
	"JPM":    "JPMorgan Chase & Co.",
	"JNJ":    "Johnson & Johnson",
}

// SimulatedProvider derives plausible fundamentals from the symbol and
// the calendar day, so repeated fetches within a day agree exactly.
type SimulatedProvider struct {
	now func() time.Time
}

// NewSimulatedProvider uses the wall clock.
func NewSimulatedProvider() *SimulatedProvider {
	return &SimulatedProvider{now: time.Now}
}

// NewSimulatedProviderAt pins the clock, for tests.
func NewSimulatedProviderAt(now func() time.Time) *SimulatedProvider {
	return &SimulatedProvider{now: now}
}

func daySeed(symbol string, day time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	h.Write([]byte(day.Format("2006-01-02")))
	return int64(h.Sum64())
}

// Fetch implements Provider.
func (p *SimulatedProvider) Fetch(ctx context.Context, symbol string, region contracts.Region) (*contracts.FinancialSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := p.now()
	rng := rand.New(rand.NewSource(daySeed(symbol, now)))

	name, known := companyNames[symbol]
	if !known {
		name = symbol
	}

	currency := "BRL"
	exchange := "B3"
	if region == contracts.RegionUS {
		currency = "USD"
		exchange = "NASDAQ"
	}

	price := 10 + rng.Float64()*240

	snap := &contracts.FinancialSnapshot{
		Symbol:        symbol,
		Region:        region,
		Name:          name,
		LongName:      name,
		Currency:      currency,
		Exchange:      exchange,
		Price:         round2(price),
		PreviousClose: round2(price * (1 + (rng.Float64()-0.5)*0.04)),
		Change1Y:      round2((rng.Float64() - 0.35) * 60),
		Fundamentals: contracts.Fundamentals{
			PE:            round2(3 + rng.Float64()*37),
			PB:            round2(0.5 + rng.Float64()*4.5),
			ROE:           round4(0.02 + rng.Float64()*0.28),
			DividendYield: round4(rng.Float64() * 0.11),
			NetMargin:     round4(0.02 + rng.Float64()*0.28),
			EBITDAMargin:  round4(0.05 + rng.Float64()*0.40),
			RevenueGrowth: round4((rng.Float64() - 0.3) * 0.5),
		},
		FetchedAt: now,
	}
	snap.Change1D = round2((snap.Price - snap.PreviousClose) / snap.PreviousClose * 100)

	// Roughly one in five companies reports no net debt figure.
	if rng.Float64() > 0.2 {
		debt := round2(0.3 + rng.Float64()*4.2)
		snap.Fundamentals.DebtToEBITDA = &debt
	}

	return snap, nil
}

// Overview implements OverviewProvider.
func (p *SimulatedProvider) Overview(ctx context.Context) (*contracts.MarketOverview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := p.now()
	rng := rand.New(rand.NewSource(daySeed("market-overview", now)))

	index := func(name string, base float64) contracts.IndexQuote {
		change := round2((rng.Float64() - 0.45) * 4)
		return contracts.IndexQuote{
			Name:   name,
			Points: round2(base * (1 + change/100)),
			Change: change,
		}
	}
	currency := func(name string, base float64) contracts.CurrencyQuote {
		change := round2((rng.Float64() - 0.5) * 2)
		return contracts.CurrencyQuote{
			Name:   name,
			Rate:   round4(base * (1 + change/100)),
			Change: change,
		}
	}

	return &contracts.MarketOverview{
		Indices: []contracts.IndexQuote{
			index("IBOVESPA", 128000),
			index("S&P 500", 5600),
			index("NASDAQ", 18200),
		},
		Currencies: []contracts.CurrencyQuote{
			currency("USD/BRL", 5.45),
			currency("EUR/BRL", 5.95),
		},
		UpdatedAt: now,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
