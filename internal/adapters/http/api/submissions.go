package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// SubmissionsHandler records team submissions and looks up past ones.
type SubmissionsHandler struct {
	deps Dependencies
}

func NewSubmissionsHandler(deps Dependencies) *SubmissionsHandler {
	return &SubmissionsHandler{deps: deps}
}

type submitRequest struct {
	Date       string   `json:"date"`
	PlayerName string   `json:"player_name"`
	Players    []string `json:"players"`
}

// HandleSubmissions accepts a team submission for a challenge date.
func (h *SubmissionsHandler) HandleSubmissions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if strings.TrimSpace(req.PlayerName) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("player_name is required"))
		return
	}
	if req.Date == "" {
		req.Date = h.deps.Today()
	}

	sub, err := h.deps.SubmitTeam(r.Context(), req.Date, req.PlayerName, req.Players)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sub)
}

// HandleGetSubmission looks up one gamer's submission by name, taken
// from the path suffix after /api/submissions/.
func (h *SubmissionsHandler) HandleGetSubmission(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	playerName := strings.TrimPrefix(r.URL.Path, "/api/submissions/")
	if playerName == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		date = h.deps.Today()
	}

	sub, err := h.deps.Submission(r.Context(), date, playerName)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sub)
}
