// internal/model/campaign.go
package model

import "time"

// Campaign modes.
const (
	ModeBroadcast = "broadcast"
	ModeDirect    = "direct"
)

// Campaign lifecycle statuses. Transitions: pending -> sending -> sent|failed.
// A terminal campaign is never re-dispatched.
const (
	StatusPending = "pending"
	StatusSending = "sending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

type Campaign struct {
	ID         int        `db:"id" json:"id"`
	Name       string     `db:"name" json:"name"`
	Mode       string     `db:"mode" json:"mode"`
	Labelled   bool       `db:"labelled" json:"labelled"`
	TemplateID string     `db:"template_id" json:"template_id"`
	CreatedBy  string     `db:"created_by" json:"created_by"`
	Status     string     `db:"status" json:"status"`
	SentAt     *time.Time `db:"sent_at" json:"sent_at,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// ValidMode reports whether mode is one of the supported delivery modes.
func ValidMode(mode string) bool {
	return mode == ModeBroadcast || mode == ModeDirect
}
