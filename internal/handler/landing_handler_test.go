package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/phishsim-backend/internal/handler"
	"github.com/unclebandit/phishsim-backend/internal/model"
	"github.com/unclebandit/phishsim-backend/internal/repository"
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

func (m *memInteractionRepo) last() *model.InteractionEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.events) == 0 {
		return nil
	}
	return m.events[len(m.events)-1]
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

func newRouter(repo repository.InteractionRepositoryInterface) *chi.Mux {
	h := &handler.LandingHandler{
		Interactions: &service.InteractionService{Repo: repo, Log: zerolog.Nop()},
	}
	r := chi.NewRouter()
	r.Get("/l/{simID}", h.Landing)
	r.Post("/submit", h.Submit)
	return r
}

func TestLandingRecordsVisit(t *testing.T) {
	repo := &memInteractionRepo{}
	r := newRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/l/42?u=alice", nil)
	req.Header.Set("User-Agent", "test-agent")
	req.RemoteAddr = "10.1.2.3:5555"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "This was a simulation")
	assert.Contains(t, w.Body.String(), "42")

	event := repo.last()
	require.NotNil(t, event)
	assert.Equal(t, "42", event.SimID)
	require.NotNil(t, event.RecipientID)
	assert.Equal(t, "alice", *event.RecipientID)
	assert.Equal(t, "test-agent", event.UserAgent)
	assert.Equal(t, "10.1.2.3", event.SourceIP)
	assert.False(t, event.Submitted)
}

func TestLandingWithoutRecipient(t *testing.T) {
	repo := &memInteractionRepo{}
	r := newRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/l/unknown-sim", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	event := repo.last()
	require.NotNil(t, event)
	assert.Nil(t, event.RecipientID)
}

func TestSubmitReturnsDebrief(t *testing.T) {
	repo := &memInteractionRepo{}
	r := newRouter(repo)

	payload := map[string]interface{}{
		"simId":       "42",
		"recipientId": "alice",
		"inputLength": 16,
		"entropy":     2.8,
	}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/submit", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.NotEmpty(t, resp["debrief"])

	event := repo.last()
	require.NotNil(t, event)
	assert.True(t, event.Submitted)
	require.NotNil(t, event.InputLength)
	assert.Equal(t, 16, *event.InputLength)
	require.NotNil(t, event.EntropyEstimate)
	assert.Equal(t, 2.8, *event.EntropyEstimate)
}

func TestSubmitRejectsBadBody(t *testing.T) {
	r := newRouter(&memInteractionRepo{})

	req := httptest.NewRequest(http.MethodPost, "/submit", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitRequiresSimID(t *testing.T) {
	r := newRouter(&memInteractionRepo{})

	req := httptest.NewRequest(http.MethodPost, "/submit", bytes.NewReader([]byte(`{"recipientId":"x"}`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStoreFailureDoesNotBlockResponse(t *testing.T) {
	r := newRouter(&failingInteractionRepo{})

	req := httptest.NewRequest(http.MethodGet, "/l/42", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/submit", bytes.NewReader([]byte(`{"simId":"42"}`)))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
