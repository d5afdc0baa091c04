package repository

import (
	"database/sql"
	"fmt"
	"time"

	appErrors "github.com/unclebandit/phishsim-backend/internal/errors"
	"github.com/unclebandit/phishsim-backend/internal/model"
)

type CampaignRepositoryInterface interface {
	Create(c *model.Campaign) error
	GetByID(id int) (*model.Campaign, error)

	// ClaimNextPending atomically transitions the oldest pending campaign to
	// sending and returns it. Returns (nil, nil) when no pending campaign
	// exists. Under concurrent callers exactly one wins a given campaign.
	ClaimNextPending() (*model.Campaign, error)

	// MarkSent / MarkFailed finalize a sending campaign. Calling either on a
	// campaign that is not in the sending status is a no-op.
	MarkSent(campaignID int) error
	MarkFailed(campaignID int) error

	List(offset, limit int, status string) ([]*model.Campaign, int, error)
}

type CampaignRepository struct {
	DB *sql.DB
}

const campaignColumns = `id, name, mode, labelled, template_id, created_by, status, sent_at, created_at, updated_at`

func scanCampaign(row interface{ Scan(...any) error }) (*model.Campaign, error) {
	var c model.Campaign
	err := row.Scan(&c.ID, &c.Name, &c.Mode, &c.Labelled, &c.TemplateID,
		&c.CreatedBy, &c.Status, &c.SentAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepository) Create(c *model.Campaign) error {
	c.CreatedAt = time.Now()
	if c.Status == "" {
		c.Status = model.StatusPending
	}
	query := `
        INSERT INTO campaigns (name, mode, labelled, template_id, created_by, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `
	return r.DB.QueryRow(query, c.Name, c.Mode, c.Labelled, c.TemplateID, c.CreatedBy, c.Status, c.CreatedAt).Scan(&c.ID)
}

func (r *CampaignRepository) GetByID(id int) (*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id=$1`
	c, err := scanCampaign(r.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	return c, nil
}

// ClaimNextPending is a single conditional update. The inner SELECT with
// FOR UPDATE SKIP LOCKED guarantees that two concurrent claimers cannot both
// observe the same pending row; the loser simply sees no row.
func (r *CampaignRepository) ClaimNextPending() (*model.Campaign, error) {
	query := `
        UPDATE campaigns SET status=$1, updated_at=NOW()
        WHERE id = (
            SELECT id FROM campaigns
            WHERE status=$2
            ORDER BY created_at ASC, id ASC
            LIMIT 1
            FOR UPDATE SKIP LOCKED
        )
        RETURNING ` + campaignColumns
	c, err := scanCampaign(r.DB.QueryRow(query, model.StatusSending, model.StatusPending))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // none available
		}
		return nil, err
	}
	return c, nil
}

func (r *CampaignRepository) MarkSent(campaignID int) error {
	query := `UPDATE campaigns SET status=$1, sent_at=NOW(), updated_at=NOW() WHERE id=$2 AND status=$3`
	_, err := r.DB.Exec(query, model.StatusSent, campaignID, model.StatusSending)
	return err
}

func (r *CampaignRepository) MarkFailed(campaignID int) error {
	query := `UPDATE campaigns SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3`
	_, err := r.DB.Exec(query, model.StatusFailed, campaignID, model.StatusSending)
	return err
}

func (r *CampaignRepository) List(offset, limit int, status string) ([]*model.Campaign, int, error) {
	campaigns := []*model.Campaign{}
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if status != "" {
		query += fmt.Sprintf(" AND status=$%d", argPos)
		args = append(args, status)
		argPos++
	}

	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, err
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery := `SELECT COUNT(*) FROM campaigns WHERE 1=1`
	argsCount := []interface{}{}
	if status != "" {
		countQuery += " AND status=$1"
		argsCount = append(argsCount, status)
	}

	var total int
	if err := r.DB.QueryRow(countQuery, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return campaigns, total, nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
