package service

import (
	"time"

	"github.com/okian/gamemash/internal/adapters/persistence"
	"github.com/okian/gamemash/internal/adapters/repository"
	"github.com/okian/gamemash/internal/domain/catalog"
	"github.com/okian/gamemash/internal/domain/sampler"
	"github.com/okian/gamemash/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCatalog replaces the built-in catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithBlobStore sets where the serialised store is kept.
func WithBlobStore(b persistence.BlobStore) Option {
	return func(s *Service) {
		if b != nil {
			s.blobs = b
		}
	}
}

// WithCodec sets the blob encoding.
func WithCodec(c repository.Codec) Option {
	return func(s *Service) {
		if c != nil {
			s.codec = c
		}
	}
}

// WithInitialRating sets the rating of every item on a fresh store.
func WithInitialRating(r float64) Option {
	return func(s *Service) {
		s.initialRating = r
	}
}

// WithSampler sets the duel pair sampler.
func WithSampler(p *sampler.Sampler) Option {
	return func(s *Service) {
		if p != nil {
			s.sampler = p
		}
	}
}

// WithExportTopN sets how many rows each partition contributes to an export.
func WithExportTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.exportTopN = n
		}
	}
}

// WithDedupeSize sets the size of the vote id cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		s.dedupeSize = size
	}
}

// WithClock overrides the time source used for export names and latencies.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
