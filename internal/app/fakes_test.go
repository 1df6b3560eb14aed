package app_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"admas_hotel/internal/domain"
)

// ---- fakes ----

type fakeSource struct {
	raw   map[string]any
	err   error
	calls int
}

func (f *fakeSource) GetHotelDetails(ctx context.Context, id string, q domain.StayQuery) (map[string]any, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.raw, nil
}

type memStore struct {
	mu       sync.Mutex
	bookings map[string]domain.BookingRecord
	err      error
	seq      int
}

func (s *memStore) InsertBooking(ctx context.Context, b domain.BookingRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	if s.bookings == nil {
		s.bookings = map[string]domain.BookingRecord{}
	}
	s.seq++
	id := fmt.Sprintf("bk-%d", s.seq)
	b.ID = id
	s.bookings[id] = b
	return id, nil
}

func (s *memStore) GetBooking(ctx context.Context, id string) (domain.BookingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return domain.BookingRecord{}, domain.ErrNotFound
	}
	return b, nil
}

func (s *memStore) ListBookingsByUser(ctx context.Context, userID string, limit int) ([]domain.BookingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.BookingRecord
	for _, b := range s.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// memCache round-trips values through JSON like the Redis cache does.
type memCache struct {
	store map[string][]byte
	dels  []string
}

func (c *memCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *memCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *memCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

type fakeProfiles struct {
	p     domain.Profile
	err   error
	calls int
}

func (f *fakeProfiles) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	f.calls++
	if f.err != nil {
		return domain.Profile{}, f.err
	}
	return f.p, nil
}

type miss struct {
	hotelID string
	status  int
}

type fakeMisses struct{ got []miss }

func (f *fakeMisses) LogMiss(ctx context.Context, hotelID string, status int, reason string) error {
	f.got = append(f.got, miss{hotelID, status})
	return nil
}

// takenRegistry rejects the first n reservations.
type takenRegistry struct {
	n     int
	seen  []string
	calls int
}

func (r *takenRegistry) Reserve(ctx context.Context, ref string, ttl time.Duration) error {
	r.calls++
	r.seen = append(r.seen, ref)
	if r.calls <= r.n {
		return domain.ErrReferenceTaken
	}
	return nil
}

type fakePublisher struct{ got []domain.BookingRecord }

func (p *fakePublisher) PublishBookingCreated(ctx context.Context, b domain.BookingRecord) error {
	p.got = append(p.got, b)
	return nil
}

// ---- fixtures ----

func ptr[T any](v T) *T { return &v }

func sampleRaw() map[string]any {
	return map[string]any{
		"data": map[string]any{
			"hotel_id":      float64(42),
			"hotel_name":    "Sheraton Addis",
			"review_score":  "8,7",
			"review_nr":     float64(1200),
			"class":         float64(5),
			"address":       "Taitu Street",
			"city":          "Addis Ababa",
			"country_trans": "Ethiopia",
			"latitude":      9.02,
			"longitude":     38.76,
			"checkin":       map[string]any{"from": "14:00", "until": "23:00"},
			"checkout":      map[string]any{"from": "06:00", "until": "12:00"},
			"rooms": map[string]any{
				"101": map[string]any{
					"name":       "Deluxe King",
					"photos":     []any{map[string]any{"url_original": "https://img/101.jpg"}},
					"facilities": []any{map[string]any{"name": "Wi-Fi"}, map[string]any{"name": "Minibar"}},
					"occupancy":  map[string]any{"adults": float64(2), "children": float64(1)},
				},
				"102": map[string]any{
					"room_name": "Twin",
				},
			},
			"product_price_breakdown": map[string]any{
				"gross_amount": map[string]any{"value": float64(200), "currency": "USD"},
			},
		},
	}
}

func sampleHotel() domain.CanonicalHotel {
	return domain.CanonicalHotel{
		HotelID:  "42",
		Property: domain.Property{Name: "Sheraton Addis", Location: domain.Location{City: "Addis Ababa", Country: "Ethiopia"}},
		Rooms: map[string]domain.RoomOffering{
			"101": {ID: "101", Name: "Deluxe King", Price: domain.Price{Amount: 100, Currency: "USD", PerNight: true}, Capacity: domain.Capacity{Adults: 2}},
		},
	}
}

func completeGuest() domain.GuestRecord {
	return domain.GuestRecord{
		FullName: "Abebe Kebede", DateOfBirth: "1990-01-02", Nationality: "ET", IDNumber: "EP123", IDExpiry: "2030-01-01",
	}
}
