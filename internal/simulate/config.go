// Package simulate drives a running gamemash server with synthetic voters
// whose preferences follow hidden per-partition strengths, then checks that
// the leaderboards recover the hidden order.
package simulate

import (
	"time"

	"github.com/okian/gamemash/internal/domain/catalog"
	"github.com/okian/gamemash/internal/domain/types"
)

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL        string        // Base URL of the service
	Votes          int           // Number of votes to cast
	Workers        int           // Number of concurrent voters
	Timeout        time.Duration // HTTP request timeout
	Seed           int64         // Seed for hidden strengths and outcomes; 0 uses the clock
	Spread         float64       // Rating distance between adjacent hidden strengths
	Reset          bool          // Reset the server before voting
	MinCorrelation float64       // Mean Spearman correlation required to pass
	Verbose        bool          // Log every partition's comparison
}

// catalogResponse mirrors GET /catalog.
type catalogResponse struct {
	Items    []catalog.Item `json:"items"`
	Segments []catalog.Tag  `json:"segments"`
	Contexts []catalog.Tag  `json:"contexts"`
}

// voteRequest mirrors the POST /votes body.
type voteRequest struct {
	VoteID  string `json:"vote_id"`
	Segment string `json:"segment"`
	Context string `json:"context"`
	ItemA   string `json:"item_a"`
	ItemB   string `json:"item_b"`
	Winner  string `json:"winner"`
}

// leaderboardResponse mirrors GET /leaderboard.
type leaderboardResponse struct {
	Segment string        `json:"segment"`
	Context string        `json:"context"`
	Entries []types.Entry `json:"entries"`
}

// PartitionResult compares one partition's leaderboard with its hidden order.
type PartitionResult struct {
	Segment     string
	Context     string
	Correlation float64
	Observed    []string
	Hidden      []string
}

// Report summarises a run.
type Report struct {
	VotesSubmitted  int
	VotesSuccessful int
	VotesDuplicate  int
	VotesFailed     int
	Unpersisted     int
	Partitions      []PartitionResult
	MeanCorrelation float64
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
