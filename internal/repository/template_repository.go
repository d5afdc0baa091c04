package repository

import (
	"database/sql"
	"time"

	appErrors "github.com/unclebandit/phishsim-backend/internal/errors"
	"github.com/unclebandit/phishsim-backend/internal/model"
)

type TemplateRepositoryInterface interface {
	Create(t *model.Template) error
	// GetByID returns (nil, nil) when the template does not exist.
	GetByID(id string) (*model.Template, error)
	List() ([]model.Template, error)
	// Delete is rejected with ErrTemplateInUse while a pending or sending
	// campaign references the template. Deleting a missing template is a
	// no-op.
	Delete(id string) error
}

type TemplateRepository struct {
	DB *sql.DB
}

func (r *TemplateRepository) Create(t *model.Template) error {
	t.CreatedAt = time.Now()
	query := `
        INSERT INTO templates (id, body, created_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (id) DO UPDATE SET body=EXCLUDED.body
    `
	_, err := r.DB.Exec(query, t.ID, t.Body, t.CreatedAt)
	return err
}

func (r *TemplateRepository) GetByID(id string) (*model.Template, error) {
	query := `SELECT id, body, created_at FROM templates WHERE id=$1`
	var t model.Template
	err := r.DB.QueryRow(query, id).Scan(&t.ID, &t.Body, &t.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, err
	}
	return &t, nil
}

func (r *TemplateRepository) List() ([]model.Template, error) {
	rows, err := r.DB.Query(`SELECT id, body, created_at FROM templates ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := []model.Template{}
	for rows.Next() {
		var t model.Template
		if err := rows.Scan(&t.ID, &t.Body, &t.CreatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *TemplateRepository) Delete(id string) error {
	query := `
        DELETE FROM templates
        WHERE id=$1
        AND NOT EXISTS (
            SELECT 1 FROM campaigns
            WHERE template_id=$1 AND status IN ($2, $3)
        )
    `
	res, err := r.DB.Exec(query, id, model.StatusPending, model.StatusSending)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	// Nothing deleted: either the template is gone already (no-op) or an
	// in-flight campaign still references it.
	existing, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if existing != nil {
		return appErrors.NewTemplateInUse(id)
	}
	return nil
}

var _ TemplateRepositoryInterface = (*TemplateRepository)(nil)
