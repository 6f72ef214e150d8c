package api

import (
	"net/http"

	"github.com/courtside/fastbreak/internal/domain/model"
)

// PoolHandler serves the daily player pool.
type PoolHandler struct {
	deps Dependencies
}

func NewPoolHandler(deps Dependencies) *PoolHandler {
	return &PoolHandler{deps: deps}
}

type poolResponse struct {
	Date string                     `json:"date"`
	Pool map[int][]model.PoolPlayer `json:"pool"`
}

// HandleGetPool returns today's pool, or the pool for ?date=YYYY-MM-DD.
func (h *PoolHandler) HandleGetPool(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		date = h.deps.Today()
	}
	pool, err := h.deps.PlayerPool(r.Context(), date)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, poolResponse{Date: date, Pool: pool})
}
