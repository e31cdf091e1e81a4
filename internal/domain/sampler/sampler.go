// Package sampler draws the two items of the next duel.
package sampler

import (
	"math/rand"
	"sync"
	"time"

	"github.com/okian/gamemash/internal/domain/catalog"
	"github.com/okian/gamemash/internal/errs"
)

// minItems is the smallest catalog that can produce a duel.
const minItems = 2

// Option applies a configuration option to the Sampler.
type Option func(*Sampler)

// WithSeed makes the draw sequence reproducible.
func WithSeed(seed int64) Option {
	return func(s *Sampler) {
		s.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // duel order is not security sensitive
	}
}

// WithSource uses src as the randomness source.
func WithSource(src rand.Source) Option {
	return func(s *Sampler) {
		if src != nil {
			s.rng = rand.New(src) //nolint:gosec // duel order is not security sensitive
		}
	}
}

// Sampler draws uniformly random pairs of distinct items.
// It is safe for concurrent use.
type Sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Sampler seeded from the clock unless an option overrides it.
func New(opts ...Option) *Sampler {
	s := &Sampler{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // duel order is not security sensitive
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sample picks A uniformly, then redraws B until it differs from A.
// The catalog must hold at least two items.
func (s *Sampler) Sample(items []catalog.Item) (catalog.Item, catalog.Item, error) {
	if len(items) < minItems || !hasTwoDistinct(items) {
		return "", "", errs.NewKind("sampler.sample", errs.ErrInsufficientCatalog)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := items[s.rng.Intn(len(items))]
	b := a
	for b == a {
		b = items[s.rng.Intn(len(items))]
	}
	return a, b, nil
}

// hasTwoDistinct guards the redraw loop against a slice of repeated items.
func hasTwoDistinct(items []catalog.Item) bool {
	for _, it := range items[1:] {
		if it != items[0] {
			return true
		}
	}
	return false
}
