package contracts

import "time"

// AlertKind identifies what condition an alert watches.
type AlertKind string

const (
	// AlertPrice fires when the price crosses a fixed level.
	AlertPrice AlertKind = "price"
	// AlertTarget fires when the price comes within a threshold of a target.
	AlertTarget AlertKind = "target"
	// AlertOpportunity fires when the price drops to a fraction of fair value.
	AlertOpportunity AlertKind = "opportunity"
)

// AlertParams carries the kind-specific alert parameters.
type AlertParams struct {
	Symbol string `json:"symbol"`

	// AlertPrice
	Condition string  `json:"condition,omitempty"` // ">", "<" or "="
	Price     float64 `json:"price,omitempty"`

	// AlertTarget
	TargetPrice float64 `json:"target_price,omitempty"`

	// AlertTarget: relative tolerance (default 0.05).
	// AlertOpportunity: fraction of fair value (default 0.70).
	Threshold float64 `json:"threshold,omitempty"`
}

// Alert is a user-configured watch condition.
type Alert struct {
	ID            string      `json:"id"`
	UserID        string      `json:"user_id"`
	Kind          AlertKind   `json:"type"`
	Params        AlertParams `json:"params"`
	Active        bool        `json:"active"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     *time.Time  `json:"updated_at,omitempty"`
	LastTriggered *time.Time  `json:"last_triggered,omitempty"`
}

// Notification is one delivered message, kept as platform inbox entry and
// history record.
type Notification struct {
	UserID  string    `json:"user_id"`
	AlertID string    `json:"alert_id,omitempty"`
	Kind    string    `json:"type"`
	Title   string    `json:"title,omitempty"`
	Message string    `json:"message"`
	Read    bool      `json:"read"`
	Date    time.Time `json:"date"`
}
