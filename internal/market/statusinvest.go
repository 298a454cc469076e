package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/clearview/vista/backend/internal/contracts"
	"github.com/clearview/vista/backend/pkg/httputil"
	"github.com/clearview/vista/backend/pkg/logger"
)

const (
	defaultStatusInvestURL = "https://statusinvest.com.br"
	yahooChartURL          = "https://query1.finance.yahoo.com/v8/finance/chart/%s"

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// yahooChart is the subset of the Yahoo chart response we read.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				Symbol             string  `json:"symbol"`
				ExchangeName       string  `json:"exchangeName"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"previousClose"`
			} `json:"meta"`
		} `json:"result"`
	} `json:"chart"`
}

// StatusInvestProvider scrapes Brazilian fundamentals from Status Invest
// and quotes both regions through the Yahoo chart API. All outbound
// requests share one rate limiter.
type StatusInvestProvider struct {
	client  *httputil.Client
	limiter *rate.Limiter
	baseURL string
	log     *logger.Logger
	now     func() time.Time
}

// NewStatusInvestProvider builds a provider bounded to requestsPerSec.
func NewStatusInvestProvider(client *httputil.Client, baseURL string, requestsPerSec float64, log *logger.Logger) *StatusInvestProvider {
	if baseURL == "" {
		baseURL = defaultStatusInvestURL
	}
	return &StatusInvestProvider{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSec), 1),
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
		now:     time.Now,
	}
}

// Fetch implements Provider.
func (p *StatusInvestProvider) Fetch(ctx context.Context, symbol string, region contracts.Region) (*contracts.FinancialSnapshot, error) {
	snap := &contracts.FinancialSnapshot{
		Symbol:    symbol,
		Region:    region,
		FetchedAt: p.now(),
	}

	if err := p.fetchQuote(ctx, snap); err != nil {
		return nil, err
	}

	if region == contracts.RegionBR {
		if err := p.fetchFundamentals(ctx, snap); err != nil {
			p.log.WithError(err).WithField("symbol", symbol).Warn("Fundamentals scrape failed, keeping quote only")
		}
	}

	return snap, nil
}

func (p *StatusInvestProvider) fetchQuote(ctx context.Context, snap *contracts.FinancialSnapshot) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}

	ticker := snap.Symbol
	if snap.Region == contracts.RegionBR {
		ticker = snap.Symbol + ".SA"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(yahooChartURL, ticker), nil)
	if err != nil {
		return fmt.Errorf("failed to create quote request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("quote request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("quote API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read quote response: %w", err)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return fmt.Errorf("failed to decode quote response: %w", err)
	}
	if len(chart.Chart.Result) == 0 {
		return ErrNotFound
	}

	meta := chart.Chart.Result[0].Meta
	snap.Name = meta.Symbol
	snap.LongName = meta.Symbol
	snap.Currency = meta.Currency
	snap.Exchange = meta.ExchangeName
	snap.Price = meta.RegularMarketPrice
	snap.PreviousClose = meta.PreviousClose
	if snap.PreviousClose > 0 {
		snap.Change1D = (snap.Price - snap.PreviousClose) / snap.PreviousClose * 100
	}
	return nil
}

func (p *StatusInvestProvider) fetchFundamentals(ctx context.Context, snap *contracts.FinancialSnapshot) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}

	url := fmt.Sprintf("%s/acoes/%s", p.baseURL, strings.ToLower(snap.Symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create fundamentals request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("fundamentals request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fundamentals page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to parse fundamentals page: %w", err)
	}

	indicators := scrapeIndicators(doc)
	f := &snap.Fundamentals

	if v, ok := indicators["p/l"]; ok {
		f.PE = v
	}
	if v, ok := indicators["p/vp"]; ok {
		f.PB = v
	}
	if v, ok := indicators["roe"]; ok {
		f.ROE = v / 100
	}
	if v, ok := indicators["dy"]; ok {
		f.DividendYield = v / 100
	}
	if v, ok := indicators["dív. líquida/ebitda"]; ok {
		debt := v
		f.DebtToEBITDA = &debt
	}
	if v, ok := indicators["m. líquida"]; ok {
		f.NetMargin = v / 100
	}
	if v, ok := indicators["m. ebitda"]; ok {
		f.EBITDAMargin = v / 100
	}
	if v, ok := indicators["cagr receitas 5 anos"]; ok {
		f.RevenueGrowth = v / 100
	}

	if name := strings.TrimSpace(doc.Find("h1 small").First().Text()); name != "" {
		snap.LongName = name
	}

	return nil
}

// scrapeIndicators walks the indicator cells, keyed by lowercased title.
func scrapeIndicators(doc *goquery.Document) map[string]float64 {
	out := make(map[string]float64)

	doc.Find("div.indicator-today-container div[title], div.top-info div[title]").Each(func(_ int, sel *goquery.Selection) {
		title := strings.ToLower(strings.TrimSpace(sel.AttrOr("title", "")))
		if title == "" {
			return
		}
		raw := strings.TrimSpace(sel.Find("strong.value").First().Text())
		if raw == "" {
			raw = strings.TrimSpace(sel.Find("strong").First().Text())
		}
		if v, err := parseBRNumber(raw); err == nil {
			out[title] = v
		}
	})

	return out
}

// parseBRNumber handles pt-BR formatted numbers like "1.234,56" and "8,5%".
func parseBRNumber(raw string) (float64, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimSuffix(cleaned, "%")
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" || cleaned == "-" || cleaned == "--" {
		return 0, fmt.Errorf("no value")
	}
	return strconv.ParseFloat(cleaned, 64)
}
