// internal/db/db.go
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/unclebandit/phishsim-backend/internal/config"
)

// Open connects to Postgres and verifies the connection. The handle is
// returned to the caller rather than held in a package global so every
// component receives its dependencies explicitly.
func Open(cfg *config.Config) (*sql.DB, error) {
	conn, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err = conn.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return conn, nil
}
