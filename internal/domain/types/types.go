// Package types contains common types used across the application
package types

// Entry represents a leaderboard entry
type Entry struct {
	Rank   int     `json:"rank"`
	Item   string  `json:"item"`
	Rating float64 `json:"rating"`
}

// Duel is a pair of distinct items offered for a vote.
type Duel struct {
	ItemA    string `json:"item_a"`
	ItemB    string `json:"item_b"`
	Context  string `json:"context,omitempty"`
	Question string `json:"question,omitempty"`
}

// RatedItem reports an item's rating after a vote.
type RatedItem struct {
	Item   string  `json:"item"`
	Rating float64 `json:"rating"`
	Delta  float64 `json:"delta"`
}

// VoteResult is returned after a vote has been applied.
type VoteResult struct {
	Duplicate bool      `json:"duplicate"`
	Segment   string    `json:"segment"`
	Context   string    `json:"context"`
	Winner    string    `json:"winner"`
	ItemA     RatedItem `json:"item_a"`
	ItemB     RatedItem `json:"item_b"`
	Persisted bool      `json:"persisted"`
	Warning   string    `json:"warning,omitempty"`
}
