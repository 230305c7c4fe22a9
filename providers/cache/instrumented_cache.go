package cache

import (
	"time"

	"weatherboard.app/metrics"
)

// InstrumentedStore wraps a cache backend with hit/miss metrics
type InstrumentedStore struct {
	wrapped Store
	metrics *metrics.CacheMetrics
}

// NewInstrumentedStore creates a metrics-recording proxy around a cache backend
func NewInstrumentedStore(wrapped Store, cacheType string) *InstrumentedStore {
	return &InstrumentedStore{
		wrapped: wrapped,
		metrics: metrics.NewCacheMetrics(cacheType),
	}
}

// Get delegates to the wrapped backend, recording the hit or miss
func (s *InstrumentedStore) Get(cityID, kind string) ([]byte, bool) {
	payload, found := s.wrapped.Get(cityID, kind)
	if found {
		s.metrics.RecordHit(kind)
	} else {
		s.metrics.RecordMiss(kind)
	}
	return payload, found
}

// Put delegates to the wrapped backend
func (s *InstrumentedStore) Put(cityID, kind string, payload []byte, ttl time.Duration) {
	s.wrapped.Put(cityID, kind, payload, ttl)
}

// Stats exposes the in-process counters for debugging endpoints
func (s *InstrumentedStore) Stats() map[string]interface{} {
	return s.metrics.GetStats()
}
