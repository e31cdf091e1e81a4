// Package rating implements the Elo pairwise update applied after each vote.
package rating

import (
	"math"

	"github.com/okian/gamemash/internal/domain/catalog"
	"github.com/okian/gamemash/internal/domain/model"
	"github.com/okian/gamemash/internal/errs"
)

// Elo constants.
const (
	// K is the sensitivity of a single outcome. Shared by every partition.
	K = 32.0
	// scale is the rating difference at which the stronger side is 10x
	// as likely to win.
	scale = 400.0
)

// Ratings is the view of one partition the engine needs.
type Ratings interface {
	Rating(item catalog.Item) (float64, bool)
	SetRating(item catalog.Item, rating float64) error
}

// Result carries both post-vote ratings and their deltas.
type Result struct {
	RatingA float64
	RatingB float64
	DeltaA  float64
	DeltaB  float64
}

// ExpectedScore is the predicted probability that a side rated ra beats a
// side rated rb.
func ExpectedScore(ra, rb float64) float64 {
	return 1 / (1 + math.Pow(10, (rb-ra)/scale))
}

// Update computes the ratings after one outcome without touching any store.
func Update(ra, rb float64, winner model.Winner) (Result, error) {
	if !winner.Valid() {
		return Result{}, errs.Invalid("rating.update", "winner must be A or B")
	}

	scoreA := 0.0
	if winner == model.WinnerA {
		scoreA = 1
	}
	scoreB := 1 - scoreA

	da := K * (scoreA - ExpectedScore(ra, rb))
	db := K * (scoreB - ExpectedScore(rb, ra))

	return Result{
		RatingA: ra + da,
		RatingB: rb + db,
		DeltaA:  da,
		DeltaB:  db,
	}, nil
}

// ApplyOutcome validates the duel against p, computes Update and commits the
// two new ratings. Nothing is written when validation fails. Ratings are not
// bounded.
func ApplyOutcome(p Ratings, itemA, itemB catalog.Item, winner model.Winner) (Result, error) {
	const op = "rating.apply_outcome"

	if itemA == itemB {
		return Result{}, errs.Invalid(op, "duel items must differ")
	}
	ra, ok := p.Rating(itemA)
	if !ok {
		return Result{}, errs.Invalid(op, "unknown item "+string(itemA))
	}
	rb, ok := p.Rating(itemB)
	if !ok {
		return Result{}, errs.Invalid(op, "unknown item "+string(itemB))
	}

	res, err := Update(ra, rb, winner)
	if err != nil {
		return Result{}, errs.Wrap(op, err)
	}

	if err := p.SetRating(itemA, res.RatingA); err != nil {
		return Result{}, errs.Wrap(op, err)
	}
	if err := p.SetRating(itemB, res.RatingB); err != nil {
		// Roll A back so the partition never holds half an update.
		_ = p.SetRating(itemA, ra)
		return Result{}, errs.Wrap(op, err)
	}
	return res, nil
}
