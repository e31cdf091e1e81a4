package simulate

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/gamemash/internal/domain/catalog"
	"github.com/okian/gamemash/internal/domain/model"
	"github.com/okian/gamemash/pkg/logger"
)

// Run defaults.
const (
	DefaultVotes          = 20_000
	DefaultSpread         = 100.0
	DefaultMinCorrelation = 0.5
)

// ErrWeakCorrelation is returned when the leaderboards do not recover the
// hidden order well enough.
var ErrWeakCorrelation = errors.New("leaderboards do not match hidden strengths")

// Run executes a complete simulation against cfg.BaseURL.
func Run(ctx context.Context, cfg *Config) (*Report, error) {
	cfg = withDefaults(cfg)
	report := &Report{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting gamemash duel simulation",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("votes", cfg.Votes),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
		logger.Float64("spread", cfg.Spread),
	)

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	// Step 1: Check service health
	if err := client.health(ctx); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Learn the catalog
	cat, err := client.catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog retrieval failed: %w", err)
	}
	keys := make([]model.Key, 0, len(cat.Segments)*len(cat.Contexts))
	for _, s := range cat.Segments {
		for _, c := range cat.Contexts {
			keys = append(keys, model.NewKey(s.Code, c.Code))
		}
	}
	if len(keys) == 0 || len(cat.Items) < 2 {
		return nil, errors.New("catalog too small to simulate")
	}

	// Step 3: Optionally start from a clean slate
	if cfg.Reset {
		if err := client.reset(ctx); err != nil {
			return nil, fmt.Errorf("reset failed: %w", err)
		}
		log.Info(ctx, "server ratings reset")
	}

	rng := newLockedRand(cfg.Seed)
	hidden := newStrengths(rng, cat.Items, keys, cfg.Spread)

	// Step 4: Vote concurrently
	if err := castVotes(ctx, cfg, client, rng, keys, hidden, report); err != nil {
		return nil, fmt.Errorf("vote submission failed: %w", err)
	}

	// Step 5: Compare every leaderboard with its hidden order
	results, err := compare(ctx, client, keys, hidden, len(cat.Items))
	if err != nil {
		return nil, fmt.Errorf("leaderboard retrieval failed: %w", err)
	}
	report.Partitions = results
	report.MeanCorrelation = mean(results)

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	displayReport(ctx, report, cfg.Verbose)

	if report.MeanCorrelation < cfg.MinCorrelation {
		return report, fmt.Errorf("%w: mean spearman %.3f < %.3f",
			ErrWeakCorrelation, report.MeanCorrelation, cfg.MinCorrelation)
	}
	log.Info(ctx, "simulation completed successfully")
	return report, nil
}

func withDefaults(cfg *Config) *Config {
	c := *cfg
	if c.Votes <= 0 {
		c.Votes = DefaultVotes
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.Spread <= 0 {
		c.Spread = DefaultSpread
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	return &c
}

// castVotes draws a duel for a random partition and votes on it, cfg.Votes
// times, with at most cfg.Workers requests in flight.
func castVotes(
	ctx context.Context,
	cfg *Config,
	client *HTTPClient,
	rng *lockedRand,
	keys []model.Key,
	hidden strengths,
	report *Report,
) error {
	var submitted, successful, duplicate, failed, unpersisted int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for i := 0; i < cfg.Votes; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			key := keys[rng.Intn(len(keys))]
			d, err := client.duel(gctx, string(key.Context))
			if err != nil {
				atomic.AddInt64(&failed, 1)
				return nil
			}

			w := hidden.winner(rng, key, catalog.Item(d.ItemA), catalog.Item(d.ItemB))
			atomic.AddInt64(&submitted, 1)
			res, err := client.vote(gctx, voteRequest{
				VoteID:  uuid.NewString(),
				Segment: string(key.Segment),
				Context: string(key.Context),
				ItemA:   d.ItemA,
				ItemB:   d.ItemB,
				Winner:  string(w),
			})
			switch {
			case err != nil:
				atomic.AddInt64(&failed, 1)
			case res.Duplicate:
				atomic.AddInt64(&duplicate, 1)
			default:
				atomic.AddInt64(&successful, 1)
				if !res.Persisted {
					atomic.AddInt64(&unpersisted, 1)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	report.VotesSubmitted = int(submitted)
	report.VotesSuccessful = int(successful)
	report.VotesDuplicate = int(duplicate)
	report.VotesFailed = int(failed)
	report.Unpersisted = int(unpersisted)

	logger.Get().Info(ctx, "vote submission completed",
		logger.Int("successful", report.VotesSuccessful),
		logger.Int("duplicate", report.VotesDuplicate),
		logger.Int("failed", report.VotesFailed),
		logger.Int("unpersisted", report.Unpersisted),
	)
	return nil
}

// compare fetches every partition's full leaderboard concurrently.
func compare(ctx context.Context, client *HTTPClient, keys []model.Key, hidden strengths, items int) ([]PartitionResult, error) {
	results := make([]PartitionResult, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	for i, k := range keys {
		g.Go(func() error {
			lb, err := client.leaderboard(gctx, string(k.Segment), string(k.Context), items)
			if err != nil {
				return err
			}
			observed := make([]string, len(lb.Entries))
			for j, e := range lb.Entries {
				observed[j] = e.Item
			}
			want := hidden.order(k)
			rho, err := spearman(observed, want)
			if err != nil {
				return fmt.Errorf("partition %s: %w", k, err)
			}
			results[i] = PartitionResult{
				Segment:     string(k.Segment),
				Context:     string(k.Context),
				Correlation: rho,
				Observed:    observed,
				Hidden:      want,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// displayReport logs the final statistics.
func displayReport(ctx context.Context, r *Report, verbose bool) {
	log := logger.Get()
	if verbose {
		for _, p := range r.Partitions {
			log.Info(ctx, "partition",
				logger.String("segment", p.Segment),
				logger.String("context", p.Context),
				logger.Float64("spearman", p.Correlation),
				logger.Any("observed", p.Observed),
				logger.Any("hidden", p.Hidden),
			)
		}
	}

	var votesPerSecond float64
	if r.Duration > 0 {
		votesPerSecond = float64(r.VotesSubmitted) / r.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Int("votesSubmitted", r.VotesSubmitted),
		logger.Int("votesSuccessful", r.VotesSuccessful),
		logger.Int("votesFailed", r.VotesFailed),
		logger.Int("partitions", len(r.Partitions)),
		logger.Float64("meanSpearman", r.MeanCorrelation),
		logger.Duration("duration", r.Duration),
		logger.Float64("votesPerSecond", votesPerSecond),
	)
}
