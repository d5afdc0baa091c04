// internal/controller/template_controller.go
package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/unclebandit/phishsim-backend/internal/errors"
	"github.com/unclebandit/phishsim-backend/internal/model"
	"github.com/unclebandit/phishsim-backend/internal/repository"
)

type TemplateController struct {
	Templates repository.TemplateRepositoryInterface
}

func (c *TemplateController) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID   string `json:"id"`
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if body.ID == "" || body.Body == "" {
		http.Error(w, "id and body are required", http.StatusBadRequest)
		return
	}

	tmpl := &model.Template{ID: body.ID, Body: body.Body}
	if err := c.Templates.Create(tmpl); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tmpl)
}

func (c *TemplateController) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := c.Templates.List()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"data": templates})
}

func (c *TemplateController) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := c.Templates.Delete(id); err != nil {
		var inUse *appErrors.ErrTemplateInUse
		if errors.As(err, &inUse) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
