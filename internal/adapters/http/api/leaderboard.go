package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/okian/gamemash/internal/domain/catalog"
	"github.com/okian/gamemash/internal/domain/model"
	"github.com/okian/gamemash/internal/errs"
)

// LeaderboardDependencies defines the interface for leaderboard operations.
type LeaderboardDependencies interface {
	CatalogDependencies
	TopN(ctx context.Context, key model.Key, n int) ([]Entry, error)
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps         LeaderboardDependencies
	defaultLimit int
	maxLimit     int
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies, defaultLimit, maxLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{
		deps:         deps,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

type leaderboardResponse struct {
	Segment      string  `json:"segment"`
	Context      string  `json:"context"`
	SegmentLabel string  `json:"segment_label"`
	ContextLabel string  `json:"context_label"`
	Entries      []Entry `json:"entries"`
}

// HandleGetLeaderboard handles GET /leaderboard?segment=S&context=C&limit=N
// requests. limit defaults to the configured value.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	seg, ctx := q.Get("segment"), q.Get("context")
	if seg == "" || ctx == "" {
		writeError(w, http.StatusBadRequest, "bad_request",
			errs.WrapKind(op, ErrBadRequest, errors.New("segment and context are required")))
		return
	}

	n := h.defaultLimit
	if limitStr := q.Get("limit"); limitStr != "" {
		var err error
		n, err = strconv.Atoi(limitStr)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "bad_request", errs.NewKind(op, ErrBadRequest))
			return
		}
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", errs.NewKind(op, ErrLimitExceeded))
		return
	}

	key := model.NewKey(seg, ctx)
	entries, err := h.deps.TopN(r.Context(), key, n)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}

	c := h.deps.Catalog()
	writeJSON(w, http.StatusOK, leaderboardResponse{
		Segment:      seg,
		Context:      ctx,
		SegmentLabel: c.SegmentLabel(catalog.Segment(seg)),
		ContextLabel: c.ContextLabel(catalog.Context(ctx)),
		Entries:      entries,
	})
}
