package api

import (
	"encoding/json"
	"net/http"

	"github.com/courtside/fastbreak/internal/domain/model"
)

// ProjectHandler runs win projections without recording a submission.
type ProjectHandler struct {
	deps Dependencies
}

func NewProjectHandler(deps Dependencies) *ProjectHandler {
	return &ProjectHandler{deps: deps}
}

type projectRequest struct {
	Players []string `json:"players"`
}

type projectResponse struct {
	Record model.ProjectedRecord `json:"record"`
}

func (h *ProjectHandler) HandleProject(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	record, err := h.deps.ProjectTeam(r.Context(), req.Players)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, projectResponse{Record: record})
}
