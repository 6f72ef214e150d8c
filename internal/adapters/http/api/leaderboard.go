package api

import (
	"net/http"
	"strconv"

	"github.com/courtside/fastbreak/internal/domain/model"
)

// LeaderboardHandler serves the ranked standings for a challenge date.
type LeaderboardHandler struct {
	deps     Dependencies
	maxLimit int
}

func NewLeaderboardHandler(deps Dependencies, maxLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps, maxLimit: maxLimit}
}

type leaderboardResponse struct {
	Date    string                   `json:"date"`
	Entries []model.RankedSubmission `json:"entries"`
}

func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		date = h.deps.Today()
	}

	limit := h.maxLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		if n < limit {
			limit = n
		}
	}

	entries, err := h.deps.Leaderboard(r.Context(), date)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	writeJSON(w, http.StatusOK, leaderboardResponse{Date: date, Entries: entries})
}
