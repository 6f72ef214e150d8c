package api

import "net/http"

// StatsHandler exposes service counters for quick inspection.
type StatsHandler struct {
	stats StatsProvider
}

func NewStatsHandler(stats StatsProvider) *StatsHandler {
	return &StatsHandler{stats: stats}
}

func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	writeJSON(w, http.StatusOK, h.stats.Stats(r.Context()))
}
