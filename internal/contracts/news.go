package contracts

import "time"

// Sentiment classifies the tone of a news item for investors.
type Sentiment string

const (
	SentimentPositive Sentiment = "positivo"
	SentimentNeutral  Sentiment = "neutro"
	SentimentNegative Sentiment = "negativo"
)

// NewsItem is one financial news article with its analysis attached.
type NewsItem struct {
	Title         string    `json:"title"`
	Summary       string    `json:"summary"`
	Source        string    `json:"source"`
	URL           string    `json:"url"`
	Language      string    `json:"language"` // "pt-br" or "en-us"
	Date          time.Time `json:"date"`
	RelatedStocks []string  `json:"related_stocks,omitempty"`
	Sentiment     Sentiment `json:"sentiment,omitempty"`
	Relevance     int       `json:"relevance,omitempty"` // 1..10
}

// NewsFeed is the persisted collection of analyzed news.
type NewsFeed struct {
	News       []NewsItem `json:"news"`
	LastUpdate time.Time  `json:"last_update"`
}
