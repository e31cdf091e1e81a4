package simulate

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/okian/gamemash/internal/domain/catalog"
	"github.com/okian/gamemash/internal/domain/model"
	"github.com/okian/gamemash/internal/domain/rating"
)

// lockedRand is a math/rand source shared by concurrent voters.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func newLockedRand(seed int64) *lockedRand {
	return &lockedRand{r: rand.New(rand.NewSource(seed))} //nolint:gosec // simulation only
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) Perm(n int) []int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Perm(n)
}

// strengths holds a hidden rating per item for every partition. Each
// partition gets its own permutation of evenly spaced values.
type strengths map[model.Key]map[catalog.Item]float64

func newStrengths(rng *lockedRand, items []catalog.Item, keys []model.Key, spread float64) strengths {
	s := make(strengths, len(keys))
	for _, k := range keys {
		perm := rng.Perm(len(items))
		m := make(map[catalog.Item]float64, len(items))
		for i, it := range items {
			m[it] = float64(perm[i]) * spread
		}
		s[k] = m
	}
	return s
}

// winner draws the outcome of a duel with the same logistic model the server
// uses to update ratings.
func (s strengths) winner(rng *lockedRand, key model.Key, a, b catalog.Item) model.Winner {
	p := rating.ExpectedScore(s[key][a], s[key][b])
	if rng.Float64() < p {
		return model.WinnerA
	}
	return model.WinnerB
}

// order returns the partition's items from strongest to weakest.
func (s strengths) order(key model.Key) []string {
	m := s[key]
	out := make([]string, 0, len(m))
	for it := range m {
		out = append(out, string(it))
	}
	sort.Slice(out, func(i, j int) bool {
		return m[catalog.Item(out[i])] > m[catalog.Item(out[j])]
	})
	return out
}
