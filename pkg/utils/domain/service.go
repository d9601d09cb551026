package domain

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vit0-9/domain_lookup/pkg/metrics"
)

// Lookuper is anything that produces a DomainRecord for a domain.
type Lookuper interface {
	Lookup(ctx context.Context, domain string) (DomainRecord, error)
}

// Service puts the result cache in front of a Lookuper.
type Service struct {
	cache    *Cache
	resolver Lookuper
	log      *zap.Logger
	metrics  *metrics.Collector
}

// NewService builds the cached lookup path; log and m may be nil.
func NewService(cache *Cache, resolver Lookuper, log *zap.Logger, m *metrics.Collector) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{cache: cache, resolver: resolver, log: log, metrics: m}
}

// Lookup returns the cached record flagged fromCache, or resolves, stores and returns a fresh one.
// Concurrent misses for the same domain each resolve; the last store wins.
func (s *Service) Lookup(ctx context.Context, domain string) (DomainRecord, error) {
	key := CacheKey(domain)

	if record, ok := s.cachedRecord(key); ok {
		s.metrics.CacheHit()
		return record.WithFromCache(true), nil
	}
	s.metrics.CacheMiss()

	record, err := s.resolver.Lookup(ctx, key)
	if err != nil {
		return DomainRecord{}, fmt.Errorf("failed to lookup domain: %w", err)
	}

	s.storeRecord(key, record)
	return record.WithFromCache(false), nil
}

// CacheSize reports the number of cache entries.
func (s *Service) CacheSize() int {
	return s.cache.Len()
}

// cachedRecord treats a misbehaving cache as a miss.
func (s *Service) cachedRecord(key string) (record DomainRecord, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("result cache read failed", zap.String("domain", key), zap.Any("panic", r))
			record, ok = DomainRecord{}, false
		}
	}()
	return s.cache.Get(key)
}

func (s *Service) storeRecord(key string, record DomainRecord) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("result cache write failed", zap.String("domain", key), zap.Any("panic", r))
		}
	}()
	s.cache.Set(key, record)
}
