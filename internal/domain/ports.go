package domain

import (
	"context"
	"time"
)

// HotelSource fetches raw hotel-details payloads from the third-party hotel API.
type HotelSource interface {
	GetHotelDetails(ctx context.Context, hotelID string, q StayQuery) (map[string]any, error)
}

// BookingStore is the persistence collaborator for submitted bookings.
type BookingStore interface {
	// InsertBooking stores the record and returns its generated id.
	InsertBooking(ctx context.Context, b BookingRecord) (string, error)
	GetBooking(ctx context.Context, id string) (BookingRecord, error)
	ListBookingsByUser(ctx context.Context, userID string, limit int) ([]BookingRecord, error)
}

type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (Profile, error)
}

// MissLog records upstream hotels that could not be fetched.
type MissLog interface {
	LogMiss(ctx context.Context, hotelID string, status int, reason string) error
}

// ReferenceRegistry reserves booking references so two bookings never share one.
type ReferenceRegistry interface {
	Reserve(ctx context.Context, ref string, ttl time.Duration) error
}

type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, b BookingRecord) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
