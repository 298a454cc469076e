package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clearview/vista/backend/internal/alerts"
	"github.com/clearview/vista/backend/internal/analysis"
	"github.com/clearview/vista/backend/internal/api/handlers"
	"github.com/clearview/vista/backend/internal/market"
	"github.com/clearview/vista/backend/internal/news"
	"github.com/clearview/vista/backend/internal/notify"
	"github.com/clearview/vista/backend/internal/report"
	"github.com/clearview/vista/backend/internal/store"
	"github.com/clearview/vista/backend/internal/subscribers"
	"github.com/clearview/vista/backend/pkg/logger"
)

type testEnv struct {
	router   http.Handler
	analyzer *analysis.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logger.NewNop()
	st, err := store.NewFileStore(t.TempDir(), log)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	provider := market.NewSimulatedProvider()
	analyzer := analysis.NewService(provider, st, log)
	newsSvc := news.NewService(news.NewSimulatedSource(), st, log)
	subSvc := subscribers.NewService(st, nil, log)
	dispatcher := notify.NewDispatcher(st, log)
	alertSvc := alerts.NewService(st, dispatcher, log)
	generator := &report.Fallback{Backup: report.NewTemplateGenerator()}

	router := NewRouter(
		handlers.NewStockHandler(analyzer, generator, log),
		handlers.NewMarketHandler(provider, newsSvc, log),
		handlers.NewNewsletterHandler(subSvc, log),
		handlers.NewAlertHandler(alertSvc, dispatcher, log),
		notify.NewHub(log),
		log,
	)

	return &testEnv{router: router, analyzer: analyzer}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return envelope
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestStocksEmptyBeforeRebuild(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/stocks", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	envelope := decodeEnvelope(t, rec)
	var stocks []json.RawMessage
	if err := json.Unmarshal(envelope["data"], &stocks); err != nil {
		t.Fatalf("decoding data: %v", err)
	}
	if len(stocks) != 0 {
		t.Errorf("expected empty stock list, got %d", len(stocks))
	}
}

func TestPortfolioLifecycle(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/portfolio", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status before rebuild = %d, want 404", rec.Code)
	}

	if _, err := env.analyzer.RebuildPortfolio(context.Background()); err != nil {
		t.Fatalf("RebuildPortfolio() error = %v", err)
	}

	rec = env.do(t, http.MethodGet, "/api/portfolio", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status after rebuild = %d, want 200", rec.Code)
	}

	envelope := decodeEnvelope(t, rec)
	var portfolio struct {
		Stocks []struct {
			Snapshot struct {
				Symbol string `json:"symbol"`
			} `json:"snapshot"`
		} `json:"stocks"`
	}
	if err := json.Unmarshal(envelope["data"], &portfolio); err != nil {
		t.Fatalf("decoding portfolio: %v", err)
	}
	if len(portfolio.Stocks) == 0 {
		t.Fatal("expected a non-empty portfolio")
	}
}

func TestRebuildEndpointAccepted(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/portfolio/rebuild", nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
}

func TestStockOnDemand(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/stock/petr4", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	envelope := decodeEnvelope(t, rec)
	var stock struct {
		Snapshot struct {
			Symbol string `json:"symbol"`
			Region string `json:"region"`
		} `json:"snapshot"`
	}
	if err := json.Unmarshal(envelope["data"], &stock); err != nil {
		t.Fatalf("decoding stock: %v", err)
	}
	if stock.Snapshot.Symbol != "PETR4" {
		t.Errorf("symbol = %q, want PETR4", stock.Snapshot.Symbol)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/search", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestReportEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/report/AAPL", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	envelope := decodeEnvelope(t, rec)
	var data struct {
		Symbol string `json:"symbol"`
		Report string `json:"report"`
	}
	if err := json.Unmarshal(envelope["data"], &data); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if data.Symbol != "AAPL" {
		t.Errorf("symbol = %q, want AAPL", data.Symbol)
	}
	if data.Report == "" {
		t.Error("expected a non-empty report")
	}
}

func TestMarketOverviewEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/market", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	envelope := decodeEnvelope(t, rec)
	var overview struct {
		Indices []struct {
			Name string `json:"name"`
		} `json:"indices"`
	}
	if err := json.Unmarshal(envelope["data"], &overview); err != nil {
		t.Fatalf("decoding overview: %v", err)
	}
	found := false
	for _, idx := range overview.Indices {
		if idx.Name == "IBOVESPA" {
			found = true
		}
	}
	if !found {
		t.Error("expected IBOVESPA in indices")
	}
}

func TestNewsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/news?limit=3", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	envelope := decodeEnvelope(t, rec)
	var feed struct {
		News []json.RawMessage `json:"news"`
	}
	if err := json.Unmarshal(envelope["data"], &feed); err != nil {
		t.Fatalf("decoding feed: %v", err)
	}
	if len(feed.News) == 0 || len(feed.News) > 3 {
		t.Errorf("len(news) = %d, want 1..3", len(feed.News))
	}
}

func TestNewsletterSubscribeFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/newsletter/subscribe", map[string]string{
		"email": "alice@example.com",
		"name":  "Alice",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("subscribe status = %d, want 201", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/newsletter/subscribe", map[string]string{
		"email": "alice@example.com",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/newsletter/subscribe", map[string]string{
		"email": "not-an-email",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid email status = %d, want 400", rec.Code)
	}

	rec = env.do(t, http.MethodDelete, "/api/newsletter/subscribe", map[string]string{
		"email": "alice@example.com",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("unsubscribe status = %d, want 200", rec.Code)
	}

	rec = env.do(t, http.MethodDelete, "/api/newsletter/subscribe", map[string]string{
		"email": "ghost@example.com",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown unsubscribe status = %d, want 404", rec.Code)
	}
}

func TestAlertCRUD(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/alerts", map[string]interface{}{
		"user_id": "user-1",
		"type":    "price",
		"params": map[string]interface{}{
			"symbol":    "PETR4",
			"condition": ">",
			"price":     40.0,
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}

	envelope := decodeEnvelope(t, rec)
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(envelope["data"], &created); err != nil {
		t.Fatalf("decoding alert: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected an alert id")
	}

	rec = env.do(t, http.MethodGet, "/api/alerts?user_id=user-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	envelope = decodeEnvelope(t, rec)
	var list []json.RawMessage
	if err := json.Unmarshal(envelope["data"], &list); err != nil {
		t.Fatalf("decoding list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("len(alerts) = %d, want 1", len(list))
	}

	active := false
	rec = env.do(t, http.MethodPut, "/api/alerts/"+created.ID, map[string]interface{}{
		"active": active,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodDelete, "/api/alerts/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodDelete, "/api/alerts/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
}

func TestAlertCreateValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/alerts", map[string]interface{}{
		"type": "price",
		"params": map[string]interface{}{
			"symbol": "PETR4",
		},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing user_id status = %d, want 400", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/alerts", map[string]interface{}{
		"user_id": "user-1",
		"type":    "price",
		"params": map[string]interface{}{
			"symbol":    "PETR4",
			"condition": "!!",
		},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad condition status = %d, want 400", rec.Code)
	}
}

func TestNotificationsEmpty(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/notifications?user_id=user-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	envelope := decodeEnvelope(t, rec)
	var history []json.RawMessage
	if err := json.Unmarshal(envelope["data"], &history); err != nil {
		t.Fatalf("decoding history: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("len(history) = %d, want 0", len(history))
	}
}
