// Package service owns the rating store and its load, save and reset
// lifecycle, and implements the operations the HTTP API exposes.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/gamemash/internal/adapters/export"
	"github.com/okian/gamemash/internal/adapters/persistence"
	"github.com/okian/gamemash/internal/adapters/repository"
	"github.com/okian/gamemash/internal/domain/catalog"
	"github.com/okian/gamemash/internal/domain/dedupe"
	"github.com/okian/gamemash/internal/domain/model"
	"github.com/okian/gamemash/internal/domain/ranking"
	"github.com/okian/gamemash/internal/domain/rating"
	"github.com/okian/gamemash/internal/domain/sampler"
	"github.com/okian/gamemash/internal/domain/types"
	"github.com/okian/gamemash/internal/errs"
	"github.com/okian/gamemash/pkg/logger"
	"github.com/okian/gamemash/pkg/metrics"
)

// Load outcomes reported to metrics.
const (
	loadRestored = "restored"
	loadAbsent   = "absent"
	loadFallback = "fallback"
)

// Service implements the API dependencies for the rating ledger.
//
// Every operation holds mu for its whole duration, so handlers run one at a
// time even though the HTTP server is concurrent.
type Service struct {
	mu sync.Mutex

	// Collaborators
	catalog *catalog.Catalog
	blobs   persistence.BlobStore
	codec   repository.Codec
	sampler *sampler.Sampler
	deduper dedupe.Deduper

	// Configuration
	initialRating float64
	exportTopN    int
	dedupeSize    int
	now           func() time.Time

	// State
	store      *repository.Store
	started    bool
	votes      int64
	duplicates int64
	lastSave   time.Time
	lastErr    string

	logger logger.Logger
}

// New constructs a Service. Unless overridden it uses the built-in catalog,
// an in-memory blob store and the JSON codec.
func New(opts ...Option) *Service {
	s := &Service{
		catalog:       catalog.Default(),
		blobs:         persistence.NewMemoryStore(),
		codec:         repository.JSONCodec{},
		initialRating: 1000,
		exportTopN:    export.DefaultTopN,
		dedupeSize:    10_000,
		now:           time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.sampler == nil {
		s.sampler = sampler.New()
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	return s
}

// Start restores the store from the blob store. A missing or unreadable blob
// falls back to a fresh store; Start only fails if ctx is already done.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap("service.start", err)
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting rating service...",
		logger.String("backend", s.blobs.Name()),
		logger.String("codec", s.codec.Name()),
	)

	s.store = s.load(ctx)
	s.started = true
	metrics.UpdateStoreShape(s.store.Len(), s.catalog.Len())

	s.logger.Info(ctx, "rating service started",
		logger.Int("items", s.catalog.Len()),
		logger.Int("partitions", s.store.Len()),
		logger.Float64("initialRating", s.store.InitialRating()),
	)
	return nil
}

// load never fails: anything other than a valid blob yields a fresh store.
func (s *Service) load(ctx context.Context) *repository.Store {
	start := s.now()
	blob, err := s.blobs.Load(ctx)
	ok := err == nil || errors.Is(err, persistence.ErrAbsent)
	metrics.RecordPersistence(s.blobs.Name(), "load", ok, elapsedMs(start, s.now()))

	fresh := func(reason string, err error) *repository.Store {
		metrics.RecordStateLoad(reason)
		if reason == loadFallback {
			metrics.RecordErrorByComponent("service", "state_load")
			s.logger.Warn(ctx, "stored ratings unusable, starting fresh", logger.Error(err))
		} else {
			s.logger.Info(ctx, "no stored ratings, starting fresh")
		}
		return repository.NewStore(ctx, s.catalog, s.initialRating)
	}

	switch {
	case errors.Is(err, persistence.ErrAbsent):
		return fresh(loadAbsent, nil)
	case err != nil:
		return fresh(loadFallback, err)
	}

	store, err := repository.Deserialize(ctx, blob, s.catalog, s.codec)
	if err != nil {
		return fresh(loadFallback, err)
	}

	metrics.RecordStateLoad(loadRestored)
	metrics.UpdateBlobBytes(len(blob))
	s.logger.Info(ctx, "restored stored ratings", logger.Int("bytes", len(blob)))
	return store
}

// Stop releases the blob store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping rating service...")
	if err := s.blobs.Close(); err != nil {
		s.logger.Warn(context.Background(), "closing blob store", logger.Error(err))
	}
	s.started = false
	s.logger.Info(context.Background(), "rating service stopped")
}

// Catalog returns the immutable catalog.
func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

// NewDuel draws two distinct items. A non-empty context must be known and
// its label is returned as the question.
func (s *Service) NewDuel(ctx context.Context, contextCode string) (types.Duel, error) {
	const op = "service.new_duel"

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return types.Duel{}, errs.NewKind(op, ErrNotStarted)
	}
	if contextCode != "" && !s.catalog.HasContext(catalog.Context(contextCode)) {
		return types.Duel{}, errs.Invalid(op, fmt.Sprintf("unknown context %q", contextCode))
	}

	a, b, err := s.sampler.Sample(s.catalog.Items())
	if err != nil {
		return types.Duel{}, errs.Wrap(op, err)
	}
	metrics.RecordDuel()

	d := types.Duel{ItemA: string(a), ItemB: string(b), Context: contextCode}
	if contextCode != "" {
		d.Question = s.catalog.ContextLabel(catalog.Context(contextCode))
	}
	s.logger.Debug(ctx, "duel drawn", logger.String("itemA", d.ItemA), logger.String("itemB", d.ItemB))
	return d, nil
}

// Vote applies one outcome to its partition and persists the store. A
// repeated vote id is acknowledged without touching ratings. A failed save
// does not undo the vote: the result reports Persisted=false and a warning.
func (s *Service) Vote(ctx context.Context, v model.Vote) (types.VoteResult, error) {
	const op = "service.vote"

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return types.VoteResult{}, errs.NewKind(op, ErrNotStarted)
	}
	start := s.now()

	if v.VoteID != "" && s.deduper.SeenAndRecord(ctx, v.VoteID) {
		return s.duplicate(ctx, v)
	}

	p, err := s.partitionFor(op, v.Key)
	if err != nil {
		s.reject(ctx, v)
		return types.VoteResult{}, err
	}

	res, err := rating.ApplyOutcome(p, v.ItemA, v.ItemB, v.Winner)
	if err != nil {
		s.reject(ctx, v)
		return types.VoteResult{}, errs.Wrap(op, err)
	}
	s.votes++
	metrics.RecordVote(string(v.Key.Segment), string(v.Key.Context), string(v.Winner), res.DeltaA, res.DeltaB)

	out := types.VoteResult{
		Segment: string(v.Key.Segment),
		Context: string(v.Key.Context),
		Winner:  string(v.Winner),
		ItemA:   types.RatedItem{Item: string(v.ItemA), Rating: res.RatingA, Delta: res.DeltaA},
		ItemB:   types.RatedItem{Item: string(v.ItemB), Rating: res.RatingB, Delta: res.DeltaB},
	}

	if err := s.persist(ctx); err != nil {
		out.Warning = "ratings updated but not persisted: " + err.Error()
	} else {
		out.Persisted = true
	}

	metrics.RecordVoteLatency(elapsedMs(start, s.now()))
	s.logger.Debug(ctx, "vote applied",
		logger.String("partition", v.Key.String()),
		logger.String("winner", out.Winner),
		logger.Float64("deltaA", res.DeltaA),
		logger.Bool("persisted", out.Persisted),
	)
	return out, nil
}

// partitionFor resolves a vote's partition. Unknown codes are bad input.
func (s *Service) partitionFor(op string, key model.Key) (*repository.Partition, error) {
	if !s.catalog.HasSegment(key.Segment) {
		return nil, errs.Invalid(op, fmt.Sprintf("unknown segment %q", key.Segment))
	}
	if !s.catalog.HasContext(key.Context) {
		return nil, errs.Invalid(op, fmt.Sprintf("unknown context %q", key.Context))
	}
	p, err := s.store.Get(key)
	if err != nil {
		return nil, errs.Wrap(op, err)
	}
	return p, nil
}

// duplicate reports the current ratings of an already applied vote. Every
// save writes the whole store, so while the last save is failing the retry
// saves again and reports that outcome.
func (s *Service) duplicate(ctx context.Context, v model.Vote) (types.VoteResult, error) {
	s.duplicates++
	metrics.RecordVoteDuplicate()
	s.logger.Debug(ctx, "duplicate vote", logger.String("voteID", v.VoteID))

	out := types.VoteResult{
		Duplicate: true,
		Segment:   string(v.Key.Segment),
		Context:   string(v.Key.Context),
		Winner:    string(v.Winner),
		ItemA:     types.RatedItem{Item: string(v.ItemA)},
		ItemB:     types.RatedItem{Item: string(v.ItemB)},
		Persisted: true,
	}
	if p, err := s.store.Get(v.Key); err == nil {
		out.ItemA.Rating, _ = p.Rating(v.ItemA)
		out.ItemB.Rating, _ = p.Rating(v.ItemB)
	}
	if s.lastErr != "" {
		if err := s.persist(ctx); err != nil {
			out.Persisted = false
			out.Warning = "ratings updated but not persisted: " + err.Error()
		}
	}
	return out, nil
}

// reject releases the vote id so the client may retry with corrected input.
func (s *Service) reject(ctx context.Context, v model.Vote) {
	metrics.RecordVoteRejected()
	if v.VoteID != "" {
		s.deduper.Unrecord(ctx, v.VoteID)
	}
}

// persist serialises the whole store and saves it.
func (s *Service) persist(ctx context.Context) error {
	const op = "service.persist"

	blob, err := repository.Serialize(s.store, s.codec)
	if err != nil {
		s.recordSaveError(ctx, err)
		return errs.Wrap(op, err)
	}

	start := s.now()
	err = s.blobs.Save(ctx, blob)
	metrics.RecordPersistence(s.blobs.Name(), "save", err == nil, elapsedMs(start, s.now()))
	if err != nil {
		s.recordSaveError(ctx, err)
		return errs.Wrap(op, err)
	}

	metrics.UpdateBlobBytes(len(blob))
	s.lastSave = s.now()
	s.lastErr = ""
	return nil
}

func (s *Service) recordSaveError(ctx context.Context, err error) {
	s.lastErr = err.Error()
	metrics.RecordErrorByComponent("service", "persistence")
	metrics.RecordErrorByType("persistence", "warning")
	s.logger.Warn(ctx, "failed to persist ratings", logger.Error(err))
}

// TopN returns the n best items of one partition. Unknown partitions fail
// with ErrNotFound; n <= 0 yields an empty list.
func (s *Service) TopN(ctx context.Context, key model.Key, n int) ([]types.Entry, error) {
	const op = "service.top_n"

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil, errs.NewKind(op, ErrNotStarted)
	}
	p, err := s.store.Get(key)
	if err != nil {
		return nil, errs.Wrap(op, err)
	}
	entries := ranking.TopN(p, n)
	s.logger.Debug(ctx, "leaderboard read", logger.String("partition", key.String()), logger.Int("n", len(entries)))
	return entries, nil
}

// Reset discards the stored blob and reinitialises every partition. When the
// blob cannot be deleted the in-memory ratings are left untouched.
func (s *Service) Reset(ctx context.Context) error {
	const op = "service.reset"

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return errs.NewKind(op, ErrNotStarted)
	}

	start := s.now()
	err := s.blobs.Delete(ctx)
	metrics.RecordPersistence(s.blobs.Name(), "delete", err == nil, elapsedMs(start, s.now()))
	if err != nil {
		metrics.RecordErrorByComponent("service", "persistence")
		s.logger.Error(ctx, "failed to discard stored ratings", logger.Error(err))
		return errs.Wrap(op, err)
	}

	s.store = repository.NewStore(ctx, s.catalog, s.initialRating)
	s.deduper.Reset(ctx)
	s.votes, s.duplicates = 0, 0
	s.lastErr = ""

	metrics.RecordReset()
	metrics.UpdateStoreShape(s.store.Len(), s.catalog.Len())
	s.logger.Info(ctx, "ratings reset", logger.Float64("initialRating", s.initialRating))
	return nil
}

// Export renders the top ratings of every partition, in store key order, as
// a CSV document.
func (s *Service) Export(ctx context.Context) (export.Document, error) {
	const op = "service.export"

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return export.Document{}, errs.NewKind(op, ErrNotStarted)
	}

	keys := s.store.Keys()
	sections := make([]export.Section, 0, len(keys))
	for _, k := range keys {
		p, err := s.store.Get(k)
		if err != nil {
			return export.Document{}, errs.Wrap(op, err)
		}
		sections = append(sections, export.Section{
			SegmentLabel: s.catalog.SegmentLabel(k.Segment),
			ContextLabel: s.catalog.ContextLabel(k.Context),
			Entries:      ranking.TopN(p, s.exportTopN),
		})
	}

	doc := export.CSV(sections, s.now())
	metrics.RecordExport(doc.Rows)
	s.logger.Info(ctx, "ratings exported", logger.String("file", doc.Filename), logger.Int("rows", doc.Rows))
	return doc, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := map[string]interface{}{
		"started":    s.started,
		"backend":    s.blobs.Name(),
		"codec":      s.codec.Name(),
		"items":      s.catalog.Len(),
		"segments":   len(s.catalog.Segments()),
		"contexts":   len(s.catalog.Contexts()),
		"dedupeSize": s.deduper.Size(),
		"exportTopN": s.exportTopN,
	}

	if s.started {
		stats["partitions"] = s.store.Len()
		stats["initialRating"] = s.store.InitialRating()
		stats["votes"] = s.votes
		stats["duplicates"] = s.duplicates
		if !s.lastSave.IsZero() {
			stats["lastSave"] = s.lastSave.UTC().Format(time.RFC3339)
		}
		if s.lastErr != "" {
			stats["lastPersistenceError"] = s.lastErr
		}
		metrics.UpdateStoreShape(s.store.Len(), s.catalog.Len())
	}

	return stats
}

func elapsedMs(start, end time.Time) float64 {
	return float64(end.Sub(start).Microseconds()) / 1000
}
