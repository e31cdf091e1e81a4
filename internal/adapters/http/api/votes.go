package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/gamemash/internal/domain/catalog"
	"github.com/okian/gamemash/internal/domain/model"
	"github.com/okian/gamemash/internal/domain/types"
	"github.com/okian/gamemash/internal/errs"
)

// maxVoteBody bounds the POST /votes payload.
const maxVoteBody = 1 << 16

// VoteDependencies applies a vote.
type VoteDependencies interface {
	Vote(ctx context.Context, v model.Vote) (types.VoteResult, error)
}

// VoteHandler handles vote requests.
type VoteHandler struct {
	deps VoteDependencies
}

// NewVoteHandler creates a new vote handler.
func NewVoteHandler(deps VoteDependencies) *VoteHandler {
	return &VoteHandler{deps: deps}
}

// voteRequest mirrors the OpenAPI schema for POST /votes.
type voteRequest struct {
	VoteID  string `json:"vote_id"`
	Segment string `json:"segment"`
	Context string `json:"context"`
	ItemA   string `json:"item_a"`
	ItemB   string `json:"item_b"`
	Winner  string `json:"winner"`
}

func (v voteRequest) toVote() (model.Vote, error) {
	switch {
	case strings.TrimSpace(v.Segment) == "":
		return model.Vote{}, errors.New("missing segment")
	case strings.TrimSpace(v.Context) == "":
		return model.Vote{}, errors.New("missing context")
	case v.ItemA == "":
		return model.Vote{}, errors.New("missing item_a")
	case v.ItemB == "":
		return model.Vote{}, errors.New("missing item_b")
	}
	w, err := model.ParseWinner(v.Winner)
	if err != nil {
		return model.Vote{}, err
	}
	return model.Vote{
		VoteID: strings.TrimSpace(v.VoteID),
		Key:    model.NewKey(v.Segment, v.Context),
		ItemA:  catalog.Item(v.ItemA),
		ItemB:  catalog.Item(v.ItemB),
		Winner: w,
	}, nil
}

// HandlePostVote handles POST /votes requests.
func (h *VoteHandler) HandlePostVote(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_vote"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req voteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxVoteBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errs.WrapKind(op, ErrBadRequest, err))
		return
	}
	v, err := req.toVote()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errs.WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.Vote(r.Context(), v)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
