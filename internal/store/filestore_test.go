package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/clearview/vista/backend/internal/contracts"
	"github.com/clearview/vista/backend/pkg/logger"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir(), logger.NewNop())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return s
}

func TestFileStore_PutGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	original := &contracts.Portfolio{
		Stocks: []contracts.StockAnalysis{
			{
				Snapshot:   contracts.FinancialSnapshot{Symbol: "PETR4", Region: contracts.RegionBR, Price: 36.75},
				Evaluation: contracts.Evaluation{Score: 8, Rating: contracts.RatingGreatOpportunity},
			},
		},
		LastUpdate: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		TotalScore: 8,
	}

	if err := s.Put(ctx, KeyPortfolio, original); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	var loaded contracts.Portfolio
	if err := s.Get(ctx, KeyPortfolio, &loaded); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if loaded.TotalScore != 8 {
		t.Errorf("TotalScore = %d, want 8", loaded.TotalScore)
	}
	if loaded.Stocks[0].Symbol() != "PETR4" {
		t.Errorf("Symbol = %s, want PETR4", loaded.Stocks[0].Symbol())
	}
}

func TestFileStore_RoundTripIdentical(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	original := &contracts.Portfolio{
		Stocks:     []contracts.StockAnalysis{},
		LastUpdate: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}

	first, err := json.Marshal(original)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Put(ctx, KeyPortfolio, original); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	var loaded contracts.Portfolio
	if err := s.Get(ctx, KeyPortfolio, &loaded); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	second, err := json.Marshal(&loaded)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("Persisted round trip changed bytes:\nfirst:  %s\nsecond: %s", first, second)
	}
}

func TestFileStore_NotFound(t *testing.T) {
	s := newTestStore(t)

	var v map[string]string
	err := s.Get(context.Background(), "missing", &v)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestFileStore_Overwrite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "doc", map[string]int{"v": 1}); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, "doc", map[string]int{"v": 2}); err != nil {
		t.Fatal(err)
	}

	var v map[string]int
	if err := s.Get(ctx, "doc", &v); err != nil {
		t.Fatal(err)
	}
	if v["v"] != 2 {
		t.Errorf("v = %d, want 2", v["v"])
	}
}

func TestFileStore_NoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Put(context.Background(), "doc", map[string]int{"v": 1}); err != nil {
		t.Fatal(err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("Temp files left behind: %v", matches)
	}

	if _, err := os.Stat(filepath.Join(dir, "doc.json")); err != nil {
		t.Errorf("Expected doc.json to exist: %v", err)
	}
}

func TestFileStore_ConcurrentWrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if err := s.Put(ctx, "doc", map[string]int{"v": n}); err != nil {
				t.Errorf("Put failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	var v map[string]int
	if err := s.Get(ctx, "doc", &v); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if _, ok := v["v"]; !ok {
		t.Error("Document corrupted by concurrent writes")
	}
}

func TestFileStore_CancelledContext(t *testing.T) {
	s := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Put(ctx, "doc", map[string]int{"v": 1}); err == nil {
		t.Error("Expected error from cancelled context")
	}
}

func TestFileStore_Delete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "doc", map[string]int{"v": 1}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Delete(ctx, "doc"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var v map[string]int
	if err := s.Get(ctx, "doc", &v); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}

	// Deleting a key that was never written is not an error.
	if err := s.Delete(ctx, "ghost"); err != nil {
		t.Errorf("Delete of missing key failed: %v", err)
	}
}

func TestFileStore_List(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, key := range []string{KeyPortfolio, KeyStocks, KeyAlerts} {
		if err := s.Put(ctx, key, map[string]int{"v": 1}); err != nil {
			t.Fatalf("Put(%s) failed: %v", key, err)
		}
	}

	keys, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	want := []string{KeyAlerts, KeyPortfolio, KeyStocks}
	if len(keys) != len(want) {
		t.Fatalf("List returned %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}
