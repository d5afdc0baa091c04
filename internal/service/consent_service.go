// internal/service/consent_service.go
package service

import (
	"github.com/rs/zerolog"

	"github.com/unclebandit/phishsim-backend/internal/model"
	"github.com/unclebandit/phishsim-backend/internal/repository"
)

// ConsentService fronts the consent registry for the admin surface.
type ConsentService struct {
	Repo repository.ConsentRepositoryInterface
	Log  zerolog.Logger
}

func (s *ConsentService) OptIn(recipientID string) error {
	if err := s.Repo.OptIn(recipientID); err != nil {
		return err
	}
	s.Log.Info().Str("recipient_id", recipientID).Msg("recipient opted in")
	return nil
}

func (s *ConsentService) OptOut(recipientID string) error {
	if err := s.Repo.OptOut(recipientID); err != nil {
		return err
	}
	s.Log.Info().Str("recipient_id", recipientID).Msg("recipient opted out")
	return nil
}

// Status returns (nil, nil) for a recipient that never registered.
func (s *ConsentService) Status(recipientID string) (*model.ConsentRecord, error) {
	return s.Repo.Status(recipientID)
}

func (s *ConsentService) ListEligible() ([]string, error) {
	return s.Repo.ListEligible()
}
