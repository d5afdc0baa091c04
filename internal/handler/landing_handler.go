// internal/handler/landing_handler.go
package handler

import (
	"encoding/json"
	"html/template"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/phishsim-backend/internal/service"
)

const debriefText = "This was a phishing awareness simulation. No credentials were captured or stored. " +
	"Real attackers use messages like the one that brought you here; review the link and sender before clicking next time."

var landingPage = template.Must(template.New("landing").Parse(`<!DOCTYPE html>
<html>
<head><title>Phishing Awareness</title></head>
<body>
<h1>This was a simulation</h1>
<p>{{.Debrief}}</p>
<p>Simulation reference: {{.SimID}}</p>
</body>
</html>
`))

// LandingHandler serves the landing and submission surface the simulation
// links point at.
type LandingHandler struct {
	Interactions *service.InteractionService
}

// Landing handles GET /l/{simID}?u={recipientID}. The visit is recorded
// before rendering; a recording failure never fails the response.
func (h *LandingHandler) Landing(w http.ResponseWriter, r *http.Request) {
	simID := chi.URLParam(r, "simID")

	var recipientID *string
	if u := r.URL.Query().Get("u"); u != "" {
		recipientID = &u
	}

	h.Interactions.RecordVisit(simID, recipientID, r.UserAgent(), clientIP(r))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = landingPage.Execute(w, map[string]string{
		"SimID":   simID,
		"Debrief": debriefText,
	})
}

// Submit handles POST /submit. The body carries metrics about the submitted
// input, never the input itself.
func (h *LandingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SimID       string   `json:"simId"`
		RecipientID *string  `json:"recipientId"`
		InputLength *int     `json:"inputLength"`
		Entropy     *float64 `json:"entropy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if body.SimID == "" {
		http.Error(w, "simId is required", http.StatusBadRequest)
		return
	}

	h.Interactions.RecordSubmission(body.SimID, body.RecipientID, r.UserAgent(), clientIP(r), body.InputLength, body.Entropy)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"debrief": debriefText,
	})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
