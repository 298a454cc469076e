package contracts

import "time"

// Subscriber is one newsletter recipient. Removal is soft: the record stays
// with Active=false so re-subscription history is preserved.
type Subscriber struct {
	Email           string     `json:"email"`
	Name            string     `json:"name,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	Active          bool       `json:"active"`
	SubscribedAt    time.Time  `json:"date"`
	UnsubscribedAt  *time.Time `json:"unsubscribe_date,omitempty"`
}
