package news

import (
	"context"
	"testing"

	"github.com/clearview/vista/backend/internal/contracts"
	"github.com/clearview/vista/backend/internal/store"
	"github.com/clearview/vista/backend/pkg/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir(), logger.NewNop())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return NewService(NewSimulatedSource(), st, logger.NewNop())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		summary   string
		sentiment contracts.Sentiment
	}{
		{
			"positive keywords",
			"WEG supera expectativas e reporta lucro recorde",
			"Crescimento forte no trimestre.",
			contracts.SentimentPositive,
		},
		{
			"negative keywords",
			"Empresa reporta prejuízo e queda nas vendas",
			"Resultado abaixo do esperado em meio à crise.",
			contracts.SentimentNegative,
		},
		{
			"no keywords",
			"Copom se reúne nesta quarta",
			"Decisão sai após o fechamento.",
			contracts.SentimentNeutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sentiment, relevance := Classify(tt.title, tt.summary)
			if sentiment != tt.sentiment {
				t.Errorf("sentiment = %s, want %s", sentiment, tt.sentiment)
			}
			if relevance < 1 || relevance > 10 {
				t.Errorf("relevance = %d, out of 1..10", relevance)
			}
		})
	}
}

func TestClassify_RelevanceGrowsWithKeywords(t *testing.T) {
	_, low := Classify("Notícia comum", "Nada de especial aqui.")
	_, high := Classify(
		"Lucro recorde com crescimento e alta",
		"Aumento de receita supera expectativas, valorização e sucesso na expansão.",
	)

	if high <= low {
		t.Errorf("Keyword-dense news should rank higher: %d vs %d", high, low)
	}
}

func TestService_Refresh(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	feed, err := s.Refresh(ctx, LanguagePT, 20)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if len(feed.News) != 5 {
		t.Fatalf("Items = %d, want 5", len(feed.News))
	}
	for _, item := range feed.News {
		if item.Language != LanguagePT {
			t.Errorf("Item %q has language %s", item.Title, item.Language)
		}
		if item.Sentiment == "" {
			t.Errorf("Item %q missing sentiment", item.Title)
		}
		if item.Relevance < 1 || item.Relevance > 10 {
			t.Errorf("Item %q relevance %d out of range", item.Title, item.Relevance)
		}
	}
}

func TestService_RefreshLimit(t *testing.T) {
	s := newTestService(t)

	feed, err := s.Refresh(context.Background(), "", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(feed.News) != 3 {
		t.Errorf("Items = %d, want 3", len(feed.News))
	}
}

func TestService_FeedUsesPersisted(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	if _, err := s.Refresh(ctx, LanguageEN, 20); err != nil {
		t.Fatal(err)
	}

	feed, err := s.Feed(ctx, LanguagePT, 20)
	if err != nil {
		t.Fatalf("Feed failed: %v", err)
	}
	// Persisted feed wins over the requested language until refresh.
	if feed.News[0].Language != LanguageEN {
		t.Errorf("Expected persisted feed, got language %s", feed.News[0].Language)
	}
}

func TestService_FeedRefreshesWhenEmpty(t *testing.T) {
	s := newTestService(t)

	feed, err := s.Feed(context.Background(), LanguagePT, 20)
	if err != nil {
		t.Fatalf("Feed failed: %v", err)
	}
	if len(feed.News) == 0 {
		t.Error("Expected feed to auto-refresh when nothing is stored")
	}
}
