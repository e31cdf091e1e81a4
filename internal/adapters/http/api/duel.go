package api

import (
	"context"
	"net/http"

	"github.com/okian/gamemash/internal/domain/types"
)

// DuelDependencies draws the next pair to compare.
type DuelDependencies interface {
	NewDuel(ctx context.Context, contextCode string) (types.Duel, error)
}

// DuelHandler handles duel requests.
type DuelHandler struct {
	deps DuelDependencies
}

// NewDuelHandler creates a new duel handler.
func NewDuelHandler(deps DuelDependencies) *DuelHandler {
	return &DuelHandler{deps: deps}
}

// HandleGetDuel handles GET /duel?context=X requests. The context is optional
// and only selects the question shown with the pair.
func (h *DuelHandler) HandleGetDuel(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_duel"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	d, err := h.deps.NewDuel(r.Context(), r.URL.Query().Get("context"))
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
