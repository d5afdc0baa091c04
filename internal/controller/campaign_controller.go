// internal/controller/campaign_controller.go
package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/unclebandit/phishsim-backend/internal/errors"
	"github.com/unclebandit/phishsim-backend/internal/model"
	"github.com/unclebandit/phishsim-backend/internal/repository"
	"github.com/unclebandit/phishsim-backend/internal/service"
)

type CampaignController struct {
	Campaigns    repository.CampaignRepositoryInterface
	Interactions *service.InteractionService
}

// CreateCampaign enqueues a campaign in the pending status. The template id
// is deliberately not validated here; a missing template fails the campaign
// at dispatch time instead.
func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name       string `json:"name"`
		Mode       string `json:"mode"`
		Labelled   bool   `json:"labelled"`
		TemplateID string `json:"template_id"`
		CreatedBy  string `json:"created_by"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if !model.ValidMode(body.Mode) {
		http.Error(w, "mode must be broadcast or direct", http.StatusBadRequest)
		return
	}
	if body.Name == "" || body.TemplateID == "" {
		http.Error(w, "name and template_id are required", http.StatusBadRequest)
		return
	}

	campaign := &model.Campaign{
		Name:       body.Name,
		Mode:       body.Mode,
		Labelled:   body.Labelled,
		TemplateID: body.TemplateID,
		CreatedBy:  body.CreatedBy,
		Status:     model.StatusPending,
	}
	if err := c.Campaigns.Create(campaign); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(campaign)
}

func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	status := r.URL.Query().Get("status")

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	campaigns, total, err := c.Campaigns.List(offset, pageSize, status)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	totalPages := (total + pageSize - 1) / pageSize
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data": campaigns,
		"pagination": map[string]int{
			"page":        page,
			"page_size":   pageSize,
			"total_count": total,
			"total_pages": totalPages,
		},
	})
}

// GetCampaign returns one campaign together with its interaction counts.
func (c *CampaignController) GetCampaign(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}

	campaign, err := c.Campaigns.GetByID(id)
	if err != nil {
		var notFound *appErrors.ErrCampaignNotFound
		if errors.As(err, &notFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	visits, submissions, err := c.Interactions.Repo.AggregateForSim(idStr)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"campaign": campaign,
		"stats": map[string]int{
			"visits":      visits,
			"submissions": submissions,
		},
	})
}

// Report returns per-simulation visit and submission counts, most visited
// first.
func (c *CampaignController) Report(w http.ResponseWriter, r *http.Request) {
	aggs, err := c.Interactions.AggregateBySim()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"data": aggs})
}
