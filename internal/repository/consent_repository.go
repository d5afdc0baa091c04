package repository

import (
	"database/sql"

	"github.com/unclebandit/phishsim-backend/internal/model"
)

// ConsentRepositoryInterface defines the consent registry operations. The
// dispatch engine is a read-only consumer; only explicit recipient action
// writes here.
type ConsentRepositoryInterface interface {
	OptIn(recipientID string) error
	OptOut(recipientID string) error
	// Status returns (nil, nil) for a recipient that never registered.
	Status(recipientID string) (*model.ConsentRecord, error)
	ListEligible() ([]string, error)
}

type ConsentRepository struct {
	DB *sql.DB
}

func (r *ConsentRepository) OptIn(recipientID string) error {
	query := `
        INSERT INTO consent_records (recipient_id, consented, opted_out, updated_at)
        VALUES ($1, TRUE, FALSE, NOW())
        ON CONFLICT (recipient_id)
        DO UPDATE SET consented=TRUE, opted_out=FALSE, updated_at=NOW()
    `
	_, err := r.DB.Exec(query, recipientID)
	return err
}

// OptOut upserts even for a recipient that never opted in, so an opt-out
// request is always honored going forward.
func (r *ConsentRepository) OptOut(recipientID string) error {
	query := `
        INSERT INTO consent_records (recipient_id, consented, opted_out, updated_at)
        VALUES ($1, FALSE, TRUE, NOW())
        ON CONFLICT (recipient_id)
        DO UPDATE SET consented=FALSE, opted_out=TRUE, updated_at=NOW()
    `
	_, err := r.DB.Exec(query, recipientID)
	return err
}

func (r *ConsentRepository) Status(recipientID string) (*model.ConsentRecord, error) {
	query := `
        SELECT recipient_id, consented, opted_out, updated_at
        FROM consent_records
        WHERE recipient_id = $1
    `
	var rec model.ConsentRecord
	err := r.DB.QueryRow(query, recipientID).Scan(&rec.RecipientID, &rec.Consented, &rec.OptedOut, &rec.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not registered
		}
		return nil, err
	}
	return &rec, nil
}

func (r *ConsentRepository) ListEligible() ([]string, error) {
	query := `
        SELECT recipient_id FROM consent_records
        WHERE consented = TRUE AND opted_out = FALSE
    `
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

var _ ConsentRepositoryInterface = (*ConsentRepository)(nil)
