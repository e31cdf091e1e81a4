// Package repository holds the partitioned rating store and its blob codec.
package repository

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/gamemash/internal/domain/catalog"
	"github.com/okian/gamemash/internal/domain/model"
	"github.com/okian/gamemash/internal/domain/ranking"
	"github.com/okian/gamemash/internal/errs"
)

// Partition holds the ratings of one (segment, context) universe. Ratings are
// stored in catalog order; the item set is fixed at creation.
type Partition struct {
	key     model.Key
	catalog *catalog.Catalog
	ratings []float64
}

func newPartition(key model.Key, cat *catalog.Catalog, initial float64) *Partition {
	p := &Partition{key: key, catalog: cat, ratings: make([]float64, cat.Len())}
	for i := range p.ratings {
		p.ratings[i] = initial
	}
	return p
}

// Key returns the partition key.
func (p *Partition) Key() model.Key { return p.key }

// Len returns the number of items in the partition.
func (p *Partition) Len() int { return len(p.ratings) }

// Rating returns the rating of item.
func (p *Partition) Rating(item catalog.Item) (float64, bool) {
	i, ok := p.catalog.Index(item)
	if !ok {
		return 0, false
	}
	return p.ratings[i], true
}

// SetRating replaces the rating of an existing item. Items cannot be added.
func (p *Partition) SetRating(item catalog.Item, r float64) error {
	const op = "repository.set_rating"
	i, ok := p.catalog.Index(item)
	if !ok {
		return errs.Invalid(op, "unknown item "+string(item))
	}
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return errs.Invalid(op, fmt.Sprintf("rating for %q must be finite", item))
	}
	p.ratings[i] = r
	return nil
}

// Entries returns a copy of all ratings in catalog order.
func (p *Partition) Entries() []ranking.Rated {
	items := p.catalog.Items()
	out := make([]ranking.Rated, len(items))
	for i, it := range items {
		out[i] = ranking.Rated{Item: it, Rating: p.ratings[i]}
	}
	return out
}

// Snapshot returns the item -> rating mapping.
func (p *Partition) Snapshot() map[catalog.Item]float64 {
	items := p.catalog.Items()
	out := make(map[catalog.Item]float64, len(items))
	for i, it := range items {
		out[it] = p.ratings[i]
	}
	return out
}

// Store maps every partition key to its ratings. It is not safe for
// concurrent use; the owning service serialises access.
type Store struct {
	catalog    *catalog.Catalog
	initial    float64
	keys       []model.Key
	partitions map[model.Key]*Partition
}

// NewStore builds one partition per (segment, context) pair with every
// catalog item at initialRating.
func NewStore(_ context.Context, cat *catalog.Catalog, initialRating float64) *Store {
	s := &Store{
		catalog:    cat,
		initial:    initialRating,
		partitions: make(map[model.Key]*Partition),
	}
	for _, seg := range cat.Segments() {
		for _, ctx := range cat.Contexts() {
			k := model.NewKey(seg.Code, ctx.Code)
			s.keys = append(s.keys, k)
			s.partitions[k] = newPartition(k, cat, initialRating)
		}
	}
	return s
}

// Get returns the partition for key. A key outside the enumerations is a
// caller bug and fails with errs.ErrNotFound.
func (s *Store) Get(key model.Key) (*Partition, error) {
	p, ok := s.partitions[key]
	if !ok {
		return nil, errs.WrapKind("repository.get", errs.ErrNotFound, fmt.Errorf("partition %s", key))
	}
	return p, nil
}

// Keys returns partition keys, segment-major in catalog order.
func (s *Store) Keys() []model.Key {
	out := make([]model.Key, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of partitions.
func (s *Store) Len() int { return len(s.keys) }

// Catalog returns the catalog the store was built from.
func (s *Store) Catalog() *catalog.Catalog { return s.catalog }

// InitialRating returns the rating new partitions start from.
func (s *Store) InitialRating() float64 { return s.initial }
