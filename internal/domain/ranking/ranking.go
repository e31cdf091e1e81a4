// Package ranking orders a partition's items by rating.
package ranking

import (
	"sort"

	"github.com/okian/gamemash/internal/domain/catalog"
	"github.com/okian/gamemash/internal/domain/types"
)

// Rated is one item with its current rating.
type Rated struct {
	Item   catalog.Item
	Rating float64
}

// Source yields a partition's entries in catalog order.
type Source interface {
	Entries() []Rated
}

// TopN returns at most n entries sorted by rating descending. Equal ratings
// keep catalog order, so repeated calls on unchanged data agree. n <= 0
// returns an empty slice.
func TopN(src Source, n int) []types.Entry {
	if n <= 0 {
		return []types.Entry{}
	}

	rows := append([]Rated(nil), src.Entries()...)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Rating > rows[j].Rating
	})

	if n > len(rows) {
		n = len(rows)
	}
	out := make([]types.Entry, n)
	for i := 0; i < n; i++ {
		out[i] = types.Entry{
			Rank:   i + 1,
			Item:   string(rows[i].Item),
			Rating: rows[i].Rating,
		}
	}
	return out
}
