package service_test

import (
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/phishsim-backend/internal/model"
	"github.com/unclebandit/phishsim-backend/internal/service"
)

type memInteractionRepo struct {
	mu     sync.Mutex
	events []*model.InteractionEvent
}

func (m *memInteractionRepo) Insert(e *model.InteractionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *memInteractionRepo) AggregateBySim() ([]model.SimAggregate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bySim := map[string]*model.SimAggregate{}
	for _, e := range m.events {
		agg, ok := bySim[e.SimID]
		if !ok {
			agg = &model.SimAggregate{SimID: e.SimID}
			bySim[e.SimID] = agg
		}
		agg.Visits++
		if e.Submitted {
			agg.Submissions++
		}
	}
	aggs := []model.SimAggregate{}
	for _, agg := range bySim {
		aggs = append(aggs, *agg)
	}
	sort.Slice(aggs, func(i, j int) bool { return aggs[i].Visits > aggs[j].Visits })
	return aggs, nil
}

func (m *memInteractionRepo) AggregateForSim(simID string) (int, int, error) {
	aggs, _ := m.AggregateBySim()
	for _, agg := range aggs {
		if agg.SimID == simID {
			return agg.Visits, agg.Submissions, nil
		}
	}
	return 0, 0, nil
}

type failingInteractionRepo struct{}

func (f *failingInteractionRepo) Insert(e *model.InteractionEvent) error {
	return fmt.Errorf("store unavailable")
}

func (f *failingInteractionRepo) AggregateBySim() ([]model.SimAggregate, error) {
	return nil, fmt.Errorf("store unavailable")
}

func (f *failingInteractionRepo) AggregateForSim(simID string) (int, int, error) {
	return 0, 0, fmt.Errorf("store unavailable")
}

func TestRecordVisitAndSubmission(t *testing.T) {
	repo := &memInteractionRepo{}
	svc := &service.InteractionService{Repo: repo, Log: zerolog.Nop()}

	recipient := "alice"
	visit := svc.RecordVisit("42", &recipient, "agent", "10.0.0.1")
	assert.NotEmpty(t, visit.ID)
	assert.False(t, visit.Submitted)
	assert.Equal(t, "42", visit.SimID)

	length := 12
	entropy := 3.5
	sub := svc.RecordSubmission("42", &recipient, "agent", "10.0.0.1", &length, &entropy)
	assert.True(t, sub.Submitted)
	require.NotNil(t, sub.InputLength)
	assert.Equal(t, 12, *sub.InputLength)

	aggs, err := svc.AggregateBySim()
	require.NoError(t, err)
	require.Len(t, aggs, 1)
	assert.Equal(t, 2, aggs[0].Visits)
	assert.Equal(t, 1, aggs[0].Submissions)
}

func TestUnknownSimIDIsStillLogged(t *testing.T) {
	repo := &memInteractionRepo{}
	svc := &service.InteractionService{Repo: repo, Log: zerolog.Nop()}

	svc.RecordVisit("never-enqueued", nil, "agent", "10.0.0.1")

	aggs, err := svc.AggregateBySim()
	require.NoError(t, err)
	require.Len(t, aggs, 1)
	assert.Equal(t, "never-enqueued", aggs[0].SimID)
}

func TestConcurrentRecording(t *testing.T) {
	repo := &memInteractionRepo{}
	svc := &service.InteractionService{Repo: repo, Log: zerolog.Nop()}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			recipient := fmt.Sprintf("user-%d", i)
			svc.RecordVisit("7", &recipient, "agent", "10.0.0.1")
		}(i)
	}
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			recipient := fmt.Sprintf("user-%d", i)
			length := i
			svc.RecordSubmission("7", &recipient, "agent", "10.0.0.1", &length, nil)
		}(i)
	}
	wg.Wait()

	aggs, err := svc.AggregateBySim()
	require.NoError(t, err)
	require.Len(t, aggs, 1)
	assert.Equal(t, 30, aggs[0].Visits)
	assert.Equal(t, 10, aggs[0].Submissions)
}

func TestRecordVisitSurvivesStoreFailure(t *testing.T) {
	svc := &service.InteractionService{Repo: &failingInteractionRepo{}, Log: zerolog.Nop()}

	// Recording must never block or fail the caller's response path.
	event := svc.RecordVisit("42", nil, "agent", "10.0.0.1")
	assert.NotNil(t, event)
}
