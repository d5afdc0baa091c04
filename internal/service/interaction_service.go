// internal/service/interaction_service.go
package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/unclebandit/phishsim-backend/internal/metrics"
	"github.com/unclebandit/phishsim-backend/internal/model"
	"github.com/unclebandit/phishsim-backend/internal/queue"
	"github.com/unclebandit/phishsim-backend/internal/repository"
)

const interactionTopic = "interaction_events"

// InteractionService appends landing-page visits and form submissions. An
// unknown simulation id is still logged; persistence failures never block
// the caller's response.
type InteractionService struct {
	Repo repository.InteractionRepositoryInterface
	// Queue is optional; stored events are additionally published for
	// downstream consumers when set.
	Queue queue.Queue
	Log   zerolog.Logger
}

// RecordVisit appends a visit event. It always returns the event it built,
// even when storage failed.
func (s *InteractionService) RecordVisit(simID string, recipientID *string, userAgent, sourceIP string) *model.InteractionEvent {
	event := s.newEvent(simID, recipientID, userAgent, sourceIP)
	metrics.LandingVisits.Inc()
	s.store(event)
	return event
}

// RecordSubmission appends a submission event. The entropy estimate is
// computed by the caller and treated as opaque; the submitted content itself
// is never passed in or stored.
func (s *InteractionService) RecordSubmission(simID string, recipientID *string, userAgent, sourceIP string, inputLength *int, entropyEstimate *float64) *model.InteractionEvent {
	event := s.newEvent(simID, recipientID, userAgent, sourceIP)
	event.Submitted = true
	event.InputLength = inputLength
	event.EntropyEstimate = entropyEstimate
	metrics.Submissions.Inc()
	s.store(event)
	return event
}

func (s *InteractionService) AggregateBySim() ([]model.SimAggregate, error) {
	return s.Repo.AggregateBySim()
}

func (s *InteractionService) newEvent(simID string, recipientID *string, userAgent, sourceIP string) *model.InteractionEvent {
	return &model.InteractionEvent{
		ID:          uuid.NewString(),
		SimID:       simID,
		RecipientID: recipientID,
		UserAgent:   userAgent,
		SourceIP:    sourceIP,
		CreatedAt:   time.Now().UTC(),
	}
}

func (s *InteractionService) store(event *model.InteractionEvent) {
	if err := s.Repo.Insert(event); err != nil {
		s.Log.Error().Err(err).Str("sim_id", event.SimID).Msg("failed to persist interaction event")
		return
	}

	if s.Queue == nil {
		return
	}
	if err := s.Queue.Publish(interactionTopic, event); err != nil {
		s.Log.Warn().Err(err).Str("sim_id", event.SimID).Msg("failed to publish interaction event")
	}
}
