package notify

import (
	"context"
	"errors"
	"time"

	"github.com/clearview/vista/backend/internal/contracts"
	"github.com/clearview/vista/backend/internal/store"
	"github.com/clearview/vista/backend/pkg/logger"
)

// maxHistory bounds the persisted notification log.
const maxHistory = 1000

// Dispatcher fans a notification out to every channel and records it in
// the history. Channel failures are logged, never retried.
type Dispatcher struct {
	channels []Channel
	store    store.Store
	log      *logger.Logger
	now      func() time.Time
}

// NewDispatcher wires the channels.
func NewDispatcher(st store.Store, log *logger.Logger, channels ...Channel) *Dispatcher {
	return &Dispatcher{
		channels: channels,
		store:    st,
		log:      log,
		now:      time.Now,
	}
}

// Dispatch sends n through every channel and appends it to the history.
func (d *Dispatcher) Dispatch(ctx context.Context, n *contracts.Notification) {
	if n.Date.IsZero() {
		n.Date = d.now()
	}

	for _, ch := range d.channels {
		if err := ch.Send(ctx, n); err != nil {
			d.log.WithError(err).WithFields(map[string]interface{}{
				"channel": ch.Name(),
				"user_id": n.UserID,
			}).Warn("Notification delivery failed")
			continue
		}
		d.log.WithFields(map[string]interface{}{
			"channel": ch.Name(),
			"user_id": n.UserID,
		}).Debug("Notification delivered")
	}

	if err := d.record(ctx, n); err != nil {
		d.log.WithError(err).Warn("Failed to record notification history")
	}
}

func (d *Dispatcher) record(ctx context.Context, n *contracts.Notification) error {
	var history []contracts.Notification
	if err := d.store.Get(ctx, store.KeyNotifications, &history); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	history = append(history, *n)
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}
	return d.store.Put(ctx, store.KeyNotifications, history)
}

// History returns the notifications recorded for one user, newest last.
// An empty userID returns everything.
func (d *Dispatcher) History(ctx context.Context, userID string) ([]contracts.Notification, error) {
	var history []contracts.Notification
	if err := d.store.Get(ctx, store.KeyNotifications, &history); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []contracts.Notification{}, nil
		}
		return nil, err
	}
	if userID == "" {
		return history, nil
	}

	filtered := make([]contracts.Notification, 0)
	for _, n := range history {
		if n.UserID == userID {
			filtered = append(filtered, n)
		}
	}
	return filtered, nil
}
