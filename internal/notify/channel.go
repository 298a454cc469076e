// Package notify delivers alert and newsletter messages to subscribers
// over the configured channels.
package notify

import (
	"context"

	"github.com/clearview/vista/backend/internal/contracts"
)

// Channel delivers one notification to its medium. A channel failure is
// logged by the dispatcher and never retried; other channels still run.
type Channel interface {
	Name() string
	Send(ctx context.Context, n *contracts.Notification) error
}
