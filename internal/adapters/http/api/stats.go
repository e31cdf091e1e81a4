package api

import (
	"net/http"
)

// StatsProvider reports service statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves GET /stats: the service statistics plus the
// leaderboard limits this API enforces.
type StatsHandler struct {
	provider     StatsProvider
	defaultLimit int
	maxLimit     int
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(provider StatsProvider, defaultLimit, maxLimit int) *StatsHandler {
	return &StatsHandler{provider: provider, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	out := make(map[string]interface{})
	for k, v := range h.provider.GetStats() {
		out[k] = v
	}
	out["leaderboardDefaultLimit"] = h.defaultLimit
	out["leaderboardMaxLimit"] = h.maxLimit
	writeJSON(w, http.StatusOK, out)
}
