package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/clearview/vista/backend/internal/contracts"
	"github.com/clearview/vista/backend/internal/store"
	"github.com/clearview/vista/backend/pkg/logger"
)

type recordingChannel struct {
	name string
	sent []*contracts.Notification
	fail bool
}

func (c *recordingChannel) Name() string { return c.name }

func (c *recordingChannel) Send(ctx context.Context, n *contracts.Notification) error {
	if c.fail {
		return errors.New("boom")
	}
	c.sent = append(c.sent, n)
	return nil
}

func newTestDispatcher(t *testing.T, channels ...Channel) *Dispatcher {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir(), logger.NewNop())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return NewDispatcher(st, logger.NewNop(), channels...)
}

func alertNotification(userID string) *contracts.Notification {
	return &contracts.Notification{
		UserID:  userID,
		AlertID: "alert-1",
		Kind:    string(contracts.AlertPrice),
		Title:   "Alerta Clearview Capital - PETR4",
		Message: "O preço ultrapassou R$ 40.00",
	}
}

func TestDispatcher_SendsToAllChannels(t *testing.T) {
	a := &recordingChannel{name: "a"}
	b := &recordingChannel{name: "b"}
	d := newTestDispatcher(t, a, b)

	d.Dispatch(context.Background(), alertNotification("user@example.com"))

	if len(a.sent) != 1 || len(b.sent) != 1 {
		t.Errorf("Channels received %d and %d, want 1 each", len(a.sent), len(b.sent))
	}
}

func TestDispatcher_ChannelFailureDoesNotBlockOthers(t *testing.T) {
	failing := &recordingChannel{name: "failing", fail: true}
	working := &recordingChannel{name: "working"}
	d := newTestDispatcher(t, failing, working)

	d.Dispatch(context.Background(), alertNotification("user@example.com"))

	if len(working.sent) != 1 {
		t.Errorf("Working channel received %d, want 1", len(working.sent))
	}
}

func TestDispatcher_RecordsHistory(t *testing.T) {
	d := newTestDispatcher(t)
	ctx := context.Background()

	d.Dispatch(ctx, alertNotification("alice@example.com"))
	d.Dispatch(ctx, alertNotification("bob@example.com"))
	d.Dispatch(ctx, alertNotification("alice@example.com"))

	all, err := d.History(ctx, "")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("History = %d entries, want 3", len(all))
	}

	alice, err := d.History(ctx, "alice@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if len(alice) != 2 {
		t.Errorf("Alice history = %d entries, want 2", len(alice))
	}
	if alice[0].Date.IsZero() {
		t.Error("Dispatch should stamp the notification date")
	}
}

func TestDispatcher_EmptyHistory(t *testing.T) {
	d := newTestDispatcher(t)

	history, err := d.History(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("Expected empty history, got %d", len(history))
	}
}
