package api

import (
	"context"
	"net/http"
)

// ResetDependencies discards every rating.
type ResetDependencies interface {
	Reset(ctx context.Context) error
}

// ResetHandler handles reset requests.
type ResetHandler struct {
	deps ResetDependencies
}

// NewResetHandler creates a new reset handler.
func NewResetHandler(deps ResetDependencies) *ResetHandler {
	return &ResetHandler{deps: deps}
}

type statusResponse struct {
	Status string `json:"status"`
}

// HandlePostReset handles POST /reset requests.
func (h *ResetHandler) HandlePostReset(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_reset"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.deps.Reset(r.Context()); err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "reset"})
}
