// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/courtside/fastbreak/internal/domain/challenge"
	"github.com/courtside/fastbreak/internal/domain/model"
	"github.com/courtside/fastbreak/internal/domain/roster"
)

// Dependencies required by HTTP handlers. Using an interface bundle
// keeps the handler layer loosely coupled to the service in app.
type Dependencies interface {
	Today() string
	PlayerPool(ctx context.Context, date string) (map[int][]model.PoolPlayer, error)
	ProjectTeam(ctx context.Context, names []string) (model.ProjectedRecord, error)
	SubmitTeam(ctx context.Context, date, playerName string, names []string) (model.Submission, error)
	Leaderboard(ctx context.Context, date string) ([]model.RankedSubmission, error)
	Submission(ctx context.Context, date, playerName string) (model.Submission, error)
}

// StatsProvider exposes service statistics for GET /stats.
type StatsProvider interface {
	Stats(ctx context.Context) map[string]any
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	poolHandler        *PoolHandler
	projectHandler     *ProjectHandler
	submissionsHandler *SubmissionsHandler
	leaderboardHandler *LeaderboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, stats StatsProvider, maxLeaderboardLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(stats),
		poolHandler:        NewPoolHandler(deps),
		projectHandler:     NewProjectHandler(deps),
		submissionsHandler: NewSubmissionsHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLeaderboardLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/pool", MetricsMiddleware(s.poolHandler.HandleGetPool, "pool"))
	mux.HandleFunc("/api/project", MetricsMiddleware(s.projectHandler.HandleProject, "project"))
	mux.HandleFunc("/api/submissions", MetricsMiddleware(s.submissionsHandler.HandleSubmissions, "submissions"))
	mux.HandleFunc("/api/submissions/", MetricsMiddleware(s.submissionsHandler.HandleGetSubmission, "submission"))
	mux.HandleFunc("/api/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError maps domain error kinds onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, challenge.ErrDuplicateSubmission):
		writeError(w, http.StatusConflict, "duplicate_submission", err)
	case errors.Is(err, roster.ErrIncompleteTeam):
		writeError(w, http.StatusUnprocessableEntity, "incomplete_team", err)
	case errors.Is(err, roster.ErrAmbiguousName):
		writeError(w, http.StatusUnprocessableEntity, "ambiguous_player_name", err)
	case errors.Is(err, roster.ErrWrongNameCount):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, challenge.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, challenge.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, challenge.ErrPoolUnavailable):
		writeError(w, http.StatusServiceUnavailable, "pool_unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
