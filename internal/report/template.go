package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/clearview/vista/backend/internal/contracts"
)

// TemplateGenerator writes deterministic Portuguese text from the data
// alone. It is the fallback when no AI collaborator is configured.
type TemplateGenerator struct {
	now func() time.Time
}

// NewTemplateGenerator uses the wall clock for report dates.
func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{now: time.Now}
}

// NewTemplateGeneratorAt pins the clock, for tests.
func NewTemplateGeneratorAt(now func() time.Time) *TemplateGenerator {
	return &TemplateGenerator{now: now}
}

func sign(v float64) string {
	if v >= 0 {
		return "+"
	}
	return ""
}

// StockReport implements TextGenerator.
func (g *TemplateGenerator) StockReport(ctx context.Context, analysis *contracts.StockAnalysis) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	snap := analysis.Snapshot
	est := analysis.Estimate
	ev := analysis.Evaluation

	var b strings.Builder
	fmt.Fprintf(&b, "Análise de %s - %s\n\n", snap.Symbol, snap.Name)

	b.WriteString("Resumo:\n")
	fmt.Fprintf(&b, "Cotação atual: R$ %.2f (%s%.2f%%)\n", snap.Price, sign(snap.Change1D), snap.Change1D)
	if est.HasValue() {
		fmt.Fprintf(&b, "Valor justo (Graham): R$ %.2f\n", est.FairValue)
		fmt.Fprintf(&b, "Potencial: %s%.2f%%\n", sign(est.Potential), est.Potential)
	}
	fmt.Fprintf(&b, "Avaliação: %s\n\n", ev.Rating)

	b.WriteString("Indicadores Fundamentalistas:\n")
	f := snap.Fundamentals
	if f.PE > 0 {
		fmt.Fprintf(&b, "- P/L: %.2f\n", f.PE)
	}
	if f.PB > 0 {
		fmt.Fprintf(&b, "- P/VP: %.2f\n", f.PB)
	}
	if f.ROE > 0 {
		fmt.Fprintf(&b, "- ROE: %.1f%%\n", f.ROE*100)
	}
	if f.DividendYield > 0 {
		fmt.Fprintf(&b, "- Dividend Yield: %.1f%%\n", f.DividendYield*100)
	}
	if f.DebtToEBITDA != nil {
		fmt.Fprintf(&b, "- Dívida/EBITDA: %.1fx\n", *f.DebtToEBITDA)
	}
	b.WriteString("\n")

	b.WriteString("Pontos Fortes:\n")
	if len(ev.Strengths) == 0 {
		b.WriteString("- Nenhum ponto forte identificado\n")
	}
	for _, s := range ev.Strengths {
		fmt.Fprintf(&b, "- %s\n", s)
	}

	b.WriteString("\nPontos Fracos:\n")
	if len(ev.Weaknesses) == 0 {
		b.WriteString("- Nenhum ponto fraco identificado\n")
	}
	for _, w := range ev.Weaknesses {
		fmt.Fprintf(&b, "- %s\n", w)
	}

	b.WriteString("\nConclusão:\n")
	switch ev.Rating {
	case contracts.RatingGreatOpportunity:
		fmt.Fprintf(&b, "%s está negociada com grande desconto sobre o valor justo. ", snap.Symbol)
		b.WriteString("Consideramos uma oportunidade rara para investidores de longo prazo.")
	case contracts.RatingBuy:
		fmt.Fprintf(&b, "%s apresenta bons fundamentos e está com preço atrativo. ", snap.Symbol)
		b.WriteString("Recomendamos a compra para investidores de longo prazo.")
	case contracts.RatingHold:
		fmt.Fprintf(&b, "%s apresenta fundamentos adequados ao preço atual. ", snap.Symbol)
		b.WriteString("Recomendamos manter para quem já possui a ação.")
	case contracts.RatingSell:
		fmt.Fprintf(&b, "%s apresenta fundamentos fracos ou está sobreavaliada. ", snap.Symbol)
		b.WriteString("Recomendamos a venda ou substituição por ativos mais atrativos.")
	default:
		fmt.Fprintf(&b, "%s apresenta um equilíbrio entre pontos fortes e fracos. ", snap.Symbol)
		b.WriteString("Recomendamos análise mais aprofundada antes de tomar decisões.")
	}

	return b.String(), nil
}

// MarketSummary implements TextGenerator.
func (g *TemplateGenerator) MarketSummary(ctx context.Context, overview *contracts.MarketOverview, portfolio *contracts.Portfolio, news []contracts.NewsItem) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Resumo do Mercado - %s\n\n", g.now().Format("02/01/2006"))

	b.WriteString("Principais Índices:\n")
	for _, idx := range overview.Indices {
		fmt.Fprintf(&b, "- %s: %.2f (%s%.2f%%)\n", idx.Name, idx.Points, sign(idx.Change), idx.Change)
	}
	b.WriteString("\nCâmbio:\n")
	for _, cur := range overview.Currencies {
		fmt.Fprintf(&b, "- %s: %.2f (%s%.2f%%)\n", cur.Name, cur.Rate, sign(cur.Change), cur.Change)
	}
	b.WriteString("\n")

	b.WriteString("Destaques da Carteira Clearview Capital:\n")
	ranked := make([]contracts.StockAnalysis, len(portfolio.Stocks))
	copy(ranked, portfolio.Stocks)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Snapshot.Change1D > ranked[j].Snapshot.Change1D
	})

	top := 3
	if len(ranked) < top {
		top = len(ranked)
	}
	b.WriteString("Melhores desempenhos:\n")
	for _, stock := range ranked[:top] {
		fmt.Fprintf(&b, "- %s: %.2f%%\n", stock.Symbol(), stock.Snapshot.Change1D)
	}
	b.WriteString("\nPiores desempenhos:\n")
	for _, stock := range ranked[len(ranked)-top:] {
		fmt.Fprintf(&b, "- %s: %.2f%%\n", stock.Symbol(), stock.Snapshot.Change1D)
	}
	b.WriteString("\n")

	b.WriteString("Principais Notícias:\n")
	limit := 5
	if len(news) < limit {
		limit = len(news)
	}
	for i, item := range news[:limit] {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item.Title)
		fmt.Fprintf(&b, "   %s\n\n", truncate(item.Summary, 100))
	}

	b.WriteString("Perspectivas para o Próximo Pregão:\n")
	b.WriteString(g.outlook(overview))

	return b.String(), nil
}

func (g *TemplateGenerator) outlook(overview *contracts.MarketOverview) string {
	var ibov, sp500 float64
	for _, idx := range overview.Indices {
		switch idx.Name {
		case "IBOVESPA":
			ibov = idx.Change
		case "S&P 500":
			sp500 = idx.Change
		}
	}

	switch {
	case ibov > 1 && sp500 > 0.5:
		return "O mercado apresenta tendência de alta, com bom desempenho tanto do Ibovespa quanto do S&P 500. " +
			"Esperamos continuidade do movimento positivo no próximo pregão, especialmente para ações de consumo e tecnologia."
	case ibov < -1 && sp500 < -0.5:
		return "O mercado apresenta tendência de baixa, com fraco desempenho tanto do Ibovespa quanto do S&P 500. " +
			"Recomendamos cautela no próximo pregão, com atenção especial para ações defensivas e dividendos."
	default:
		return "O mercado apresenta movimento lateral, sem tendência clara. " +
			"Para o próximo pregão, recomendamos seletividade nas operações, priorizando ações com bons fundamentos."
	}
}

// OpportunityMessage writes the short alert text pushed when a stock
// crosses the opportunity line.
func OpportunityMessage(analysis *contracts.StockAnalysis) string {
	snap := analysis.Snapshot
	est := analysis.Estimate
	return fmt.Sprintf(
		"🔔 Oportunidade detectada: %s (%s)\nCotação: R$ %.2f\nValor justo: R$ %.2f\nPotencial: %s%.2f%%",
		snap.Symbol, snap.Name, snap.Price, est.FairValue, sign(est.Potential), est.Potential,
	)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
