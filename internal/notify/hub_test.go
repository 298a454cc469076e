package notify

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/clearview/vista/backend/internal/contracts"
	"github.com/clearview/vista/backend/pkg/logger"
)

func TestHub_BroadcastToClient(t *testing.T) {
	hub := NewHub(logger.NewNop())
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	// Wait for registration.
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.ClientCount() != 1 {
		t.Fatalf("ClientCount = %d, want 1", hub.ClientCount())
	}

	if err := hub.Send(context.Background(), alertNotification("alice@example.com")); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}

	var received contracts.Notification
	if err := json.Unmarshal(payload, &received); err != nil {
		t.Fatalf("Failed to decode payload: %v", err)
	}
	if received.Title != "Alerta Clearview Capital - PETR4" {
		t.Errorf("Title = %q", received.Title)
	}
}

func TestHub_RemovesClosedClients(t *testing.T) {
	hub := NewHub(logger.NewNop())
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	conn.Close()

	deadline = time.Now().Add(2 * time.Second)
	for hub.ClientCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount = %d after close, want 0", hub.ClientCount())
	}
}

func TestHub_SendWithNoClients(t *testing.T) {
	hub := NewHub(logger.NewNop())

	if err := hub.Send(context.Background(), alertNotification("nobody")); err != nil {
		t.Errorf("Send with no clients should not fail: %v", err)
	}
}
