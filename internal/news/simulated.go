package news

import (
	"context"
	"time"

	"github.com/clearview/vista/backend/internal/contracts"
)

// Languages accepted by the feed.
const (
	LanguagePT = "pt-br"
	LanguageEN = "en-us"
)

// SimulatedSource serves a fixed set of plausible headlines, dated at
// fetch time. A real aggregator would sit behind the same interface.
type SimulatedSource struct {
	now func() time.Time
}

// NewSimulatedSource uses the wall clock.
func NewSimulatedSource() *SimulatedSource {
	return &SimulatedSource{now: time.Now}
}

// Fetch implements Source.
func (s *SimulatedSource) Fetch(ctx context.Context, language string) ([]contracts.NewsItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := s.now()

	brNews := []contracts.NewsItem{
		{
			Title:         "Banco Central mantém taxa Selic em 10,5% ao ano",
			Summary:       "O Comitê de Política Monetária (Copom) do Banco Central decidiu, por unanimidade, manter a taxa Selic em 10,5% ao ano, em linha com as expectativas do mercado.",
			Source:        "Banco Central",
			URL:           "https://www.bcb.gov.br/noticias",
			Language:      LanguagePT,
			Date:          now,
			RelatedStocks: []string{"BBAS3", "ITUB4", "BBDC4"},
		},
		{
			Title:         "Inflação de março fica em 0,4%, abaixo das expectativas",
			Summary:       "O IPCA de março ficou em 0,4%, abaixo da expectativa do mercado que era de 0,5%. No acumulado de 12 meses, a inflação está em 4,2%.",
			Source:        "IBGE",
			URL:           "https://www.ibge.gov.br/noticias",
			Language:      LanguagePT,
			Date:          now,
			RelatedStocks: []string{},
		},
		{
			Title:         "Petrobras anuncia novo plano de investimentos",
			Summary:       "A Petrobras anunciou hoje seu novo plano de investimentos para os próximos 5 anos, com foco em exploração e produção no pré-sal.",
			Source:        "InfoMoney",
			URL:           "https://www.infomoney.com.br/noticias",
			Language:      LanguagePT,
			Date:          now,
			RelatedStocks: []string{"PETR4", "PETR3"},
		},
		{
			Title:         "Vale reporta produção recorde de minério de ferro no primeiro trimestre",
			Summary:       "A Vale reportou produção recorde de minério de ferro no primeiro trimestre, superando as expectativas do mercado e indicando forte demanda global.",
			Source:        "Valor Econômico",
			URL:           "https://www.valor.com.br/noticias",
			Language:      LanguagePT,
			Date:          now,
			RelatedStocks: []string{"VALE3"},
		},
		{
			Title:         "WEG supera expectativas e reporta lucro 15% maior no trimestre",
			Summary:       "A WEG, fabricante de motores elétricos e equipamentos de automação, reportou lucro líquido 15% superior ao mesmo período do ano anterior, superando as expectativas dos analistas.",
			Source:        "Exame",
			URL:           "https://www.exame.com/noticias",
			Language:      LanguagePT,
			Date:          now,
			RelatedStocks: []string{"WEGE3"},
		},
	}

	usNews := []contracts.NewsItem{
		{
			Title:         "Fed signals potential interest rate cut later this year",
			Summary:       "The Federal Reserve signaled it could reduce interest rates in the United States later this year if inflation continues to slow down.",
			Source:        "Bloomberg",
			URL:           "https://www.bloomberg.com/news",
			Language:      LanguageEN,
			Date:          now,
			RelatedStocks: []string{"AAPL", "MSFT", "GOOGL"},
		},
		{
			Title:         "Apple unveils new AI features for iPhone and Mac",
			Summary:       "Apple announced a suite of new AI features for its iPhone and Mac products, leveraging large language models to enhance user experience across its ecosystem.",
			Source:        "TechCrunch",
			URL:           "https://www.techcrunch.com/news",
			Language:      LanguageEN,
			Date:          now,
			RelatedStocks: []string{"AAPL"},
		},
		{
			Title:         "Tesla delivers record number of vehicles in Q1",
			Summary:       "Tesla delivered a record number of electric vehicles in the first quarter, beating analyst expectations despite increasing competition in the EV market.",
			Source:        "Reuters",
			URL:           "https://www.reuters.com/news",
			Language:      LanguageEN,
			Date:          now,
			RelatedStocks: []string{"TSLA"},
		},
		{
			Title:         "Amazon expands same-day delivery to more cities",
			Summary:       "Amazon announced the expansion of its same-day delivery service to 15 additional cities, increasing its competitive edge in the e-commerce space.",
			Source:        "CNBC",
			URL:           "https://www.cnbc.com/news",
			Language:      LanguageEN,
			Date:          now,
			RelatedStocks: []string{"AMZN"},
		},
		{
			Title:         "Microsoft's cloud revenue surges 30% in latest quarter",
			Summary:       "Microsoft reported a 30% increase in cloud revenue for its Azure platform, highlighting the continued strong demand for cloud computing services.",
			Source:        "Wall Street Journal",
			URL:           "https://www.wsj.com/news",
			Language:      LanguageEN,
			Date:          now,
			RelatedStocks: []string{"MSFT"},
		},
	}

	switch language {
	case LanguagePT:
		return brNews, nil
	case LanguageEN:
		return usNews, nil
	default:
		return append(brNews, usNews...), nil
	}
}
