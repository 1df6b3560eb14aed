package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"admas_hotel/internal/domain"
)

type QueryService struct {
	source   domain.HotelSource
	store    domain.BookingStore
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(src domain.HotelSource, store domain.BookingStore, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{source: src, store: store, cache: c, cacheTTL: ttl}
}

func hotelKey(id string, q domain.StayQuery) string {
	return strings.ToLower(fmt.Sprintf("hotel:%s:%s:%s:%d:%s:%s", id, q.CheckIn, q.CheckOut, q.Adults, q.Currency, q.Locale))
}

// GetHotel returns the normalized hotel for a stay query, served from cache when possible.
func (s *QueryService) GetHotel(ctx context.Context, id string, q domain.StayQuery) (domain.CanonicalHotel, error) {
	key := hotelKey(id, q)
	var h domain.CanonicalHotel
	if ok, _ := s.cache.Get(ctx, key, &h); ok {
		return h, nil
	}
	raw, err := s.source.GetHotelDetails(ctx, id, q)
	if err != nil {
		return domain.CanonicalHotel{}, fmt.Errorf("fetch hotel %s: %w", id, err)
	}
	h, err = Normalize(raw)
	if err != nil {
		return domain.CanonicalHotel{}, err
	}
	if h.HotelID == "" {
		h.HotelID = id
	}
	_ = s.cache.Set(ctx, key, h, int(s.cacheTTL.Seconds()))
	return h, nil
}

// GetBooking returns a booking owned by userID; other users' bookings read as not found.
func (s *QueryService) GetBooking(ctx context.Context, id, userID string) (domain.BookingRecord, error) {
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return domain.BookingRecord{}, err
	}
	if b.UserID != userID {
		return domain.BookingRecord{}, domain.ErrNotFound
	}
	return b, nil
}

func (s *QueryService) ListBookings(ctx context.Context, userID string, limit int) ([]domain.BookingRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.store.ListBookingsByUser(ctx, userID, limit)
}
