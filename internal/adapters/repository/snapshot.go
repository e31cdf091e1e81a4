package repository

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/gamemash/internal/domain/catalog"
	"github.com/okian/gamemash/internal/domain/model"
	"github.com/okian/gamemash/internal/errs"
)

// snapshotVersion is written into every blob.
const snapshotVersion = 1

// snapshot is the persisted shape. Partition keys are "<segment>__<context>".
// Buckets accepts the layout written by the browser version of the app.
type snapshot struct {
	Version       int                           `json:"version,omitempty" cbor:"version,omitempty"`
	InitialRating float64                       `json:"initial_rating,omitempty" cbor:"initial_rating,omitempty"`
	Partitions    map[string]map[string]float64 `json:"partitions,omitempty" cbor:"partitions,omitempty"`
	Buckets       map[string]map[string]float64 `json:"buckets,omitempty" cbor:"buckets,omitempty"`
}

// Serialize encodes every partition of s.
func Serialize(s *Store, codec Codec) ([]byte, error) {
	const op = "repository.serialize"

	snap := snapshot{
		Version:       snapshotVersion,
		InitialRating: s.initial,
		Partitions:    make(map[string]map[string]float64, len(s.keys)),
	}
	for _, k := range s.keys {
		p := s.partitions[k]
		m := make(map[string]float64, p.Len())
		for it, r := range p.Snapshot() {
			m[string(it)] = r
		}
		snap.Partitions[k.String()] = m
	}

	raw, err := codec.Marshal(snap)
	if err != nil {
		return nil, errs.WrapKind(op, errs.ErrSerialization, err)
	}
	return raw, nil
}

// Deserialize rebuilds a store for cat from blob. The blob must hold exactly
// the catalog's partitions and items with finite ratings; anything else fails
// with errs.ErrSerialization and the caller should start from NewStore.
func Deserialize(ctx context.Context, blob []byte, cat *catalog.Catalog, codec Codec) (*Store, error) {
	const op = "repository.deserialize"

	if len(blob) == 0 {
		return nil, errs.WrapKind(op, errs.ErrSerialization, fmt.Errorf("empty blob"))
	}

	var snap snapshot
	if err := codec.Unmarshal(blob, &snap); err != nil {
		return nil, errs.WrapKind(op, errs.ErrSerialization, err)
	}
	if snap.Version > snapshotVersion {
		return nil, errs.WrapKind(op, errs.ErrSerialization, fmt.Errorf("unsupported snapshot version %d", snap.Version))
	}

	parts := snap.Partitions
	if len(parts) == 0 {
		parts = snap.Buckets
	}

	// Blobs from the browser app carry no initial rating; zero is kept.
	if math.IsNaN(snap.InitialRating) || math.IsInf(snap.InitialRating, 0) {
		return nil, errs.WrapKind(op, errs.ErrSerialization, fmt.Errorf("initial rating must be finite"))
	}
	s := NewStore(ctx, cat, snap.InitialRating)

	if len(parts) != s.Len() {
		return nil, errs.WrapKind(op, errs.ErrSerialization,
			fmt.Errorf("blob has %d partitions, catalog expects %d", len(parts), s.Len()))
	}

	// Equal counts plus every blob key resolving to a catalog partition means
	// the sets match.
	for raw, ratings := range parts {
		k, err := model.ParseKey(raw)
		if err != nil {
			return nil, errs.WrapKind(op, errs.ErrSerialization, err)
		}
		p, ok := s.partitions[k]
		if !ok {
			return nil, errs.WrapKind(op, errs.ErrSerialization, fmt.Errorf("unknown partition %s", raw))
		}
		if len(ratings) != cat.Len() {
			return nil, errs.WrapKind(op, errs.ErrSerialization,
				fmt.Errorf("partition %s has %d items, catalog expects %d", k, len(ratings), cat.Len()))
		}
		for name, r := range ratings {
			if !cat.Contains(catalog.Item(name)) {
				return nil, errs.WrapKind(op, errs.ErrSerialization, fmt.Errorf("partition %s: unknown item %q", k, name))
			}
			if err := p.SetRating(catalog.Item(name), r); err != nil {
				return nil, errs.WrapKind(op, errs.ErrSerialization, fmt.Errorf("partition %s: %w", k, err))
			}
		}
	}
	return s, nil
}
