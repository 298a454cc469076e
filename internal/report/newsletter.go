package report

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/clearview/vista/backend/internal/contracts"
)

// Newsletter is a rendered daily edition.
type Newsletter struct {
	Subject string
	HTML    string
}

const newsletterTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Subject}}</title>
<style>
body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; padding: 20px; }
.header { text-align: center; margin-bottom: 30px; }
h1, h2, h3 { color: #0047AB; }
.section { margin-bottom: 30px; padding: 20px; background-color: #f9f9f9; border-radius: 5px; }
.stock-table { width: 100%; border-collapse: collapse; margin-bottom: 20px; }
.stock-table th, .stock-table td { padding: 10px; text-align: left; border-bottom: 1px solid #ddd; }
.stock-table th { background-color: #0047AB; color: white; }
.positive { color: green; }
.negative { color: red; }
.footer { text-align: center; margin-top: 30px; font-size: 12px; color: #777; }
</style>
</head>
<body>
<div class="header">
<h1>Newsletter Diária</h1>
<p>{{.Date}}</p>
</div>

<div class="section">
<h2>Resumo do Mercado</h2>
<p>{{.Summary}}</p>
</div>

<div class="section">
<h2>Carteira da Clearview Capital</h2>
<table class="stock-table">
<tr><th>Código</th><th>Empresa</th><th>Cotação</th><th>Variação</th><th>Avaliação</th></tr>
{{range .Portfolio}}<tr>
<td>{{.Symbol}}</td>
<td>{{.Name}}</td>
<td>R$ {{.Price}}</td>
<td class="{{.ChangeClass}}">{{.Change}}</td>
<td>{{.Rating}}</td>
</tr>
{{end}}</table>
</div>

<div class="section">
<h2>Favoritas da Clearview</h2>
<table class="stock-table">
<tr><th>Código</th><th>Empresa</th><th>Cotação</th><th>Valor Justo</th><th>Potencial</th></tr>
{{range .Favorites}}<tr>
<td>{{.Symbol}}</td>
<td>{{.Name}}</td>
<td>R$ {{.Price}}</td>
<td>R$ {{.FairValue}}</td>
<td class="{{.PotentialClass}}">{{.Potential}}</td>
</tr>
{{end}}</table>
</div>

<div class="section">
<h2>Notícias do Dia</h2>
{{range .News}}<div>
<h3><a href="{{.URL}}">{{.Title}}</a></h3>
<p>{{.Summary}}</p>
<p><small>Fonte: {{.Source}}</small></p>
</div>
<hr>
{{end}}</div>

<div class="footer">
<p>© Clearview Capital. Todos os direitos reservados.</p>
<p>Este e-mail foi enviado para você porque você se inscreveu em nossa newsletter.</p>
<p>Para cancelar a inscrição, <a href="#">clique aqui</a>.</p>
</div>
</body>
</html>`

var newsletterTmpl = template.Must(template.New("newsletter").Parse(newsletterTemplate))

type portfolioRow struct {
	Symbol      string
	Name        string
	Price       string
	Change      string
	ChangeClass string
	Rating      contracts.Rating
}

type favoriteRow struct {
	Symbol         string
	Name           string
	Price          string
	FairValue      string
	Potential      string
	PotentialClass string
}

type newsletterData struct {
	Subject   string
	Date      string
	Summary   template.HTML
	Portfolio []portfolioRow
	Favorites []favoriteRow
	News      []contracts.NewsItem
}

func changeClass(v float64) string {
	if v >= 0 {
		return "positive"
	}
	return "negative"
}

// BuildNewsletter renders the daily edition. The summary comes from the
// configured TextGenerator, everything else straight from the data.
func BuildNewsletter(ctx context.Context, gen TextGenerator, overview *contracts.MarketOverview, portfolio *contracts.Portfolio, news []contracts.NewsItem, now time.Time) (*Newsletter, error) {
	summary, err := gen.MarketSummary(ctx, overview, portfolio, news)
	if err != nil {
		return nil, fmt.Errorf("failed to generate market summary: %w", err)
	}

	date := now.Format("02/01/2006")
	data := newsletterData{
		Subject: fmt.Sprintf("Newsletter Clearview Capital - %s", date),
		Date:    date,
		Summary: template.HTML(strings.ReplaceAll(template.HTMLEscapeString(summary), "\n", "<br>")),
	}

	members := portfolio.Stocks
	if len(members) > contracts.MaxPortfolioSize {
		members = members[:contracts.MaxPortfolioSize]
	}
	for _, stock := range members {
		snap := stock.Snapshot
		data.Portfolio = append(data.Portfolio, portfolioRow{
			Symbol:      snap.Symbol,
			Name:        snap.Name,
			Price:       fmt.Sprintf("%.2f", snap.Price),
			Change:      fmt.Sprintf("%s%.2f%%", sign(snap.Change1D), snap.Change1D),
			ChangeClass: changeClass(snap.Change1D),
			Rating:      stock.Evaluation.Rating,
		})
	}

	favorites := portfolio.Favorites()
	if len(favorites) > 5 {
		favorites = favorites[:5]
	}
	for _, stock := range favorites {
		data.Favorites = append(data.Favorites, favoriteRow{
			Symbol:         stock.Symbol(),
			Name:           stock.Snapshot.Name,
			Price:          fmt.Sprintf("%.2f", stock.Snapshot.Price),
			FairValue:      fmt.Sprintf("%.2f", stock.Estimate.FairValue),
			Potential:      fmt.Sprintf("%s%.2f%%", sign(stock.Estimate.Potential), stock.Estimate.Potential),
			PotentialClass: changeClass(stock.Estimate.Potential),
		})
	}

	if len(news) > 5 {
		news = news[:5]
	}
	data.News = news

	var b strings.Builder
	if err := newsletterTmpl.Execute(&b, data); err != nil {
		return nil, fmt.Errorf("failed to render newsletter: %w", err)
	}

	return &Newsletter{Subject: data.Subject, HTML: b.String()}, nil
}
