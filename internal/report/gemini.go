package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/clearview/vista/backend/internal/contracts"
	"github.com/clearview/vista/backend/pkg/logger"
)

// GeminiGenerator drafts the analyst texts through the Gemini API.
type GeminiGenerator struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	log     *logger.Logger
}

// NewGeminiGenerator creates the client. The API key comes from cfg;
// an empty model falls back to gemini-2.5-flash.
func NewGeminiGenerator(ctx context.Context, apiKey, model string, timeout time.Duration, log *logger.Logger) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiGenerator{
		client:  client,
		model:   model,
		timeout: timeout,
		log:     log,
	}, nil
}

func (g *GeminiGenerator) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		g.log.WithError(err).Warn("Gemini request failed")
		return "", ErrUnavailable
	}

	text := resp.Text()
	if text == "" {
		return "", ErrUnavailable
	}
	return text, nil
}

// StockReport implements TextGenerator.
func (g *GeminiGenerator) StockReport(ctx context.Context, analysis *contracts.StockAnalysis) (string, error) {
	fundamentals, _ := json.MarshalIndent(analysis.Snapshot.Fundamentals, "", "  ")
	evaluation, _ := json.MarshalIndent(analysis.Evaluation, "", "  ")

	prompt := fmt.Sprintf(`Você é um analista financeiro da Clearview Capital, especializado em análise fundamentalista de ações.

Gere um relatório em linguagem natural para a seguinte ação:

Símbolo: %s
Nome: %s
Preço: %.2f
Variação: %.2f%%
Valor justo (Graham): %.2f
Potencial: %.2f%%

Indicadores Fundamentalistas:
%s

Avaliação:
%s

O relatório deve ter linguagem leve, acessível e humana, como se fosse escrito por um analista da Clearview Capital.
Deve explicar de forma clara os pontos fortes e fracos da ação, e justificar a recomendação.
Use linguagem em português brasileiro.`,
		analysis.Symbol(), analysis.Snapshot.Name,
		analysis.Snapshot.Price, analysis.Snapshot.Change1D,
		analysis.Estimate.FairValue, analysis.Estimate.Potential,
		fundamentals, evaluation)

	return g.generate(ctx, prompt)
}

// MarketSummary implements TextGenerator.
func (g *GeminiGenerator) MarketSummary(ctx context.Context, overview *contracts.MarketOverview, portfolio *contracts.Portfolio, news []contracts.NewsItem) (string, error) {
	if len(news) > 5 {
		news = news[:5]
	}
	overviewJSON, _ := json.MarshalIndent(overview, "", "  ")
	portfolioJSON, _ := json.MarshalIndent(portfolio, "", "  ")
	newsJSON, _ := json.MarshalIndent(news, "", "  ")

	prompt := fmt.Sprintf(`Você é um analista financeiro da Clearview Capital, especializado em análise de mercado e comunicação com investidores.

Gere um resumo do mercado financeiro para a newsletter diária da Clearview Capital.

Dados do Mercado:
%s

Carteira:
%s

Principais Notícias:
%s

O resumo deve ter linguagem leve, acessível e humana. Deve incluir:
1. Um resumo do dia no mercado (principais índices e movimentos)
2. Destaques da carteira da Clearview Capital
3. Principais notícias e seus impactos
4. Perspectivas para o próximo pregão

Use linguagem em português brasileiro.`,
		overviewJSON, portfolioJSON, newsJSON)

	return g.generate(ctx, prompt)
}
