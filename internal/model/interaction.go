// internal/model/interaction.go
package model

import "time"

// InteractionEvent is one landing-page visit or form submission, keyed by the
// simulation id embedded in the link the recipient followed. Events are
// append-only. The actual submitted content is never stored, only its length
// and an entropy estimate computed by the caller.
type InteractionEvent struct {
	ID              string    `db:"id" json:"id"`
	SimID           string    `db:"sim_id" json:"sim_id"`
	RecipientID     *string   `db:"recipient_id" json:"recipient_id,omitempty"`
	UserAgent       string    `db:"user_agent" json:"user_agent"`
	SourceIP        string    `db:"source_ip" json:"source_ip"`
	Submitted       bool      `db:"submitted" json:"submitted"`
	InputLength     *int      `db:"input_length" json:"input_length,omitempty"`
	EntropyEstimate *float64  `db:"entropy_estimate" json:"entropy_estimate,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// SimAggregate is the per-simulation interaction summary: every recorded
// event counts as a visit, submissions are additionally counted separately.
type SimAggregate struct {
	SimID       string `db:"sim_id" json:"sim_id"`
	Visits      int    `db:"visits" json:"visits"`
	Submissions int    `db:"submissions" json:"submissions"`
}
