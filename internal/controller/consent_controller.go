// internal/controller/consent_controller.go
package controller

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/phishsim-backend/internal/service"
)

type ConsentController struct {
	Consents *service.ConsentService
}

func (c *ConsentController) OptIn(w http.ResponseWriter, r *http.Request) {
	recipientID := chi.URLParam(r, "recipientID")

	if err := c.Consents.OptIn(recipientID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"recipient_id": recipientID,
		"status":       "opted_in",
	})
}

func (c *ConsentController) OptOut(w http.ResponseWriter, r *http.Request) {
	recipientID := chi.URLParam(r, "recipientID")

	if err := c.Consents.OptOut(recipientID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"recipient_id": recipientID,
		"status":       "opted_out",
	})
}

func (c *ConsentController) Status(w http.ResponseWriter, r *http.Request) {
	recipientID := chi.URLParam(r, "recipientID")

	record, err := c.Consents.Status(recipientID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if record == nil {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{
			"recipient_id": recipientID,
			"status":       "not_registered",
		})
		return
	}
	json.NewEncoder(w).Encode(record)
}
