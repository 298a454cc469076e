// Package news assembles the financial news feed with sentiment tags.
package news

import (
	"context"
	"strings"
	"time"

	"github.com/clearview/vista/backend/internal/contracts"
	"github.com/clearview/vista/backend/internal/store"
	"github.com/clearview/vista/backend/pkg/logger"
)

// Source produces raw news items without sentiment.
type Source interface {
	Fetch(ctx context.Context, language string) ([]contracts.NewsItem, error)
}

// Service fetches news, scores sentiment and persists the feed.
type Service struct {
	source Source
	store  store.Store
	log    *logger.Logger
	now    func() time.Time
}

// NewService wires the feed.
func NewService(source Source, st store.Store, log *logger.Logger) *Service {
	return &Service{
		source: source,
		store:  st,
		log:    log,
		now:    time.Now,
	}
}

// Refresh fetches the feed for a language, runs sentiment on each item
// and persists the result. Language "" mixes both feeds.
func (s *Service) Refresh(ctx context.Context, language string, limit int) (*contracts.NewsFeed, error) {
	items, err := s.source.Fetch(ctx, language)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	for i := range items {
		items[i].Sentiment, items[i].Relevance = Classify(items[i].Title, items[i].Summary)
	}

	feed := &contracts.NewsFeed{
		News:       items,
		LastUpdate: s.now(),
	}
	if err := s.store.Put(ctx, store.KeyNews, feed); err != nil {
		return nil, err
	}

	s.log.WithFields(map[string]interface{}{
		"items":    len(items),
		"language": language,
	}).Info("News feed refreshed")

	return feed, nil
}

// Feed loads the persisted feed, refreshing when nothing is stored yet.
func (s *Service) Feed(ctx context.Context, language string, limit int) (*contracts.NewsFeed, error) {
	var feed contracts.NewsFeed
	err := s.store.Get(ctx, store.KeyNews, &feed)
	if err == store.ErrNotFound {
		return s.Refresh(ctx, language, limit)
	}
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(feed.News) > limit {
		feed.News = feed.News[:limit]
	}
	return &feed, nil
}

var positiveWords = []string{
	"aumento", "crescimento", "lucro", "recorde", "supera", "alta",
	"positivo", "expansão", "valorização", "sucesso", "melhora",
	"increase", "growth", "profit", "record", "exceeds", "rise",
	"positive", "expansion", "appreciation", "success", "improvement",
}

var negativeWords = []string{
	"queda", "redução", "prejuízo", "abaixo", "crise", "baixa",
	"negativo", "contração", "desvalorização", "fracasso", "piora",
	"decline", "reduction", "loss", "below", "crisis", "fall",
	"negative", "contraction", "depreciation", "failure", "worsening",
}

// Classify scores a headline and summary by keyword counting. Relevance
// grows with keyword density, clamped to 1..10.
func Classify(title, summary string) (contracts.Sentiment, int) {
	text := strings.ToLower(title + " " + summary)

	positive := 0
	for _, w := range positiveWords {
		if strings.Contains(text, w) {
			positive++
		}
	}
	negative := 0
	for _, w := range negativeWords {
		if strings.Contains(text, w) {
			negative++
		}
	}

	sentiment := contracts.SentimentNeutral
	if positive > negative {
		sentiment = contracts.SentimentPositive
	} else if negative > positive {
		sentiment = contracts.SentimentNegative
	}

	relevance := positive + negative
	if relevance < 1 {
		relevance = 1
	}
	if relevance > 10 {
		relevance = 10
	}
	return sentiment, relevance
}
