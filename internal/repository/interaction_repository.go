package repository

import (
	"database/sql"

	"github.com/unclebandit/phishsim-backend/internal/model"
)

type InteractionRepositoryInterface interface {
	Insert(e *model.InteractionEvent) error
	AggregateBySim() ([]model.SimAggregate, error)
	// AggregateForSim returns (0, 0, nil) for a simulation id with no events.
	AggregateForSim(simID string) (visits, submissions int, err error)
}

type InteractionRepository struct {
	DB *sql.DB
}

func (r *InteractionRepository) Insert(e *model.InteractionEvent) error {
	query := `
        INSERT INTO interaction_events
        (id, sim_id, recipient_id, user_agent, source_ip, submitted, input_length, entropy_estimate, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
	_, err := r.DB.Exec(query,
		e.ID, e.SimID, e.RecipientID, e.UserAgent, e.SourceIP,
		e.Submitted, e.InputLength, e.EntropyEstimate, e.CreatedAt,
	)
	return err
}

// AggregateBySim counts every event as a visit and submitted events
// additionally as submissions, ordered by visit count descending.
func (r *InteractionRepository) AggregateBySim() ([]model.SimAggregate, error) {
	query := `
        SELECT sim_id,
               COUNT(*) AS visits,
               COUNT(*) FILTER (WHERE submitted) AS submissions
        FROM interaction_events
        GROUP BY sim_id
        ORDER BY visits DESC
    `
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	aggs := []model.SimAggregate{}
	for rows.Next() {
		var a model.SimAggregate
		if err := rows.Scan(&a.SimID, &a.Visits, &a.Submissions); err != nil {
			return nil, err
		}
		aggs = append(aggs, a)
	}
	return aggs, rows.Err()
}

func (r *InteractionRepository) AggregateForSim(simID string) (int, int, error) {
	query := `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE submitted)
        FROM interaction_events
        WHERE sim_id = $1
    `
	var visits, submissions int
	if err := r.DB.QueryRow(query, simID).Scan(&visits, &submissions); err != nil {
		if err == sql.ErrNoRows {
			return 0, 0, nil
		}
		return 0, 0, err
	}
	return visits, submissions, nil
}

var _ InteractionRepositoryInterface = (*InteractionRepository)(nil)
