package model

import (
	"strings"

	"github.com/okian/gamemash/internal/domain/catalog"
	"github.com/okian/gamemash/internal/errs"
)

// Winner names the side of a duel that won.
type Winner string

// Duel sides.
const (
	WinnerA Winner = "A"
	WinnerB Winner = "B"
)

// ParseWinner accepts "A" or "B" (case-insensitive).
func ParseWinner(s string) (Winner, error) {
	switch Winner(strings.ToUpper(strings.TrimSpace(s))) {
	case WinnerA:
		return WinnerA, nil
	case WinnerB:
		return WinnerB, nil
	}
	return "", errs.Invalid("model.parse_winner", "winner must be A or B, got "+s)
}

// Valid reports whether w is one of the two sides.
func (w Winner) Valid() bool { return w == WinnerA || w == WinnerB }

// Vote is one observed pairwise outcome within a partition.
type Vote struct {
	VoteID string // optional client id for idempotent retries
	Key    Key
	ItemA  catalog.Item
	ItemB  catalog.Item
	Winner Winner
}
