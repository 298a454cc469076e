package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clearview/vista/backend/pkg/httputil"
	"github.com/clearview/vista/backend/pkg/logger"
)

func TestTelegramChannel_Send(t *testing.T) {
	var received map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottest-token/sendMessage" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("Failed to decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := httputil.New(logger.NewNop(), 5*time.Second).DisableRetry()
	ch := NewTelegramChannel(client, "test-token", "@Clearview_Capital_Bot", srv.URL)

	err := ch.Send(context.Background(), alertNotification("user@example.com"))
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if received["chat_id"] != "@Clearview_Capital_Bot" {
		t.Errorf("chat_id = %q", received["chat_id"])
	}
	if received["text"] == "" {
		t.Error("Message text missing")
	}
	if received["parse_mode"] != "Markdown" {
		t.Errorf("parse_mode = %q", received["parse_mode"])
	}
}

func TestTelegramChannel_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := httputil.New(logger.NewNop(), 5*time.Second).DisableRetry()
	ch := NewTelegramChannel(client, "test-token", "@chan", srv.URL)

	if err := ch.Send(context.Background(), alertNotification("u")); err == nil {
		t.Error("Expected error from non-200 response")
	}
}
