// internal/model/consent.go
package model

import "time"

// ConsentRecord tracks opt-in/opt-out state for one recipient identity.
// Records are only ever upserted, never deleted; latest write wins.
type ConsentRecord struct {
	RecipientID string    `db:"recipient_id" json:"recipient_id"`
	Consented   bool      `db:"consented" json:"consented"`
	OptedOut    bool      `db:"opted_out" json:"opted_out"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Eligible reports whether the recipient may receive simulated messages.
func (c ConsentRecord) Eligible() bool {
	return c.Consented && !c.OptedOut
}
