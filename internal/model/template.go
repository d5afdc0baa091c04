// internal/model/template.go
package model

import "time"

// Template is a named message body. Bodies may contain {{link}} and {{name}}
// placeholders which are substituted at dispatch time.
type Template struct {
	ID        string    `db:"id" json:"id"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
