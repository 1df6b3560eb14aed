package app

import (
	"context"
	"errors"
	"time"

	"admas_hotel/internal/domain"
)

// PrefetchService warms the hotel cache ahead of traffic.
type PrefetchService struct {
	source   domain.HotelSource
	misses   domain.MissLog
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewPrefetchService(src domain.HotelSource, misses domain.MissLog, c domain.Cache, ttl time.Duration) *PrefetchService {
	return &PrefetchService{source: src, misses: misses, cache: c, cacheTTL: ttl}
}

// WarmHotel fetches, normalizes and caches one hotel. Known upstream misses
// (404, 401/403) are recorded and evicted from cache, not returned as errors.
func (s *PrefetchService) WarmHotel(ctx context.Context, id string, q domain.StayQuery) error {
	key := hotelKey(id, q)
	raw, err := s.source.GetHotelDetails(ctx, id, q)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			_ = s.misses.LogMiss(ctx, id, 404, "not found")
			s.evict(ctx, key)
			return nil
		case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrForbidden):
			_ = s.misses.LogMiss(ctx, id, 403, "inactive")
			s.evict(ctx, key)
			return nil
		}
		// network/5xx/JSON: bubble up
		return err
	}

	h, err := Normalize(raw)
	if err != nil {
		_ = s.misses.LogMiss(ctx, id, 422, "normalize")
		s.evict(ctx, key)
		return err
	}
	if h.HotelID == "" {
		h.HotelID = id
	}
	if s.cache != nil {
		return s.cache.Set(ctx, key, h, int(s.cacheTTL.Seconds()))
	}
	return nil
}

func (s *PrefetchService) evict(ctx context.Context, key string) {
	if s.cache != nil {
		_ = s.cache.Del(ctx, key)
	}
}
