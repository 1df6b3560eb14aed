package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"admas_hotel/internal/adapters/observability"
	"admas_hotel/internal/domain"
)

const (
	referenceAttempts = 5
	referenceTTL      = 48 * time.Hour
)

// BookingSubmitter turns a completed form into a pending BookingRecord and stores it.
type BookingSubmitter struct {
	store     domain.BookingStore
	refs      *ReferenceGenerator
	registry  domain.ReferenceRegistry // optional
	publisher domain.EventPublisher    // optional
	now       func() time.Time
}

type SubmitterOption func(*BookingSubmitter)

// WithReferenceRegistry makes reference uniqueness explicit: every minted
// reference is reserved before use and re-minted when already taken.
func WithReferenceRegistry(r domain.ReferenceRegistry) SubmitterOption {
	return func(s *BookingSubmitter) { s.registry = r }
}

func WithEventPublisher(p domain.EventPublisher) SubmitterOption {
	return func(s *BookingSubmitter) { s.publisher = p }
}

func WithClock(now func() time.Time) SubmitterOption {
	return func(s *BookingSubmitter) { s.now = now }
}

func NewBookingSubmitter(store domain.BookingStore, refs *ReferenceGenerator, opts ...SubmitterOption) *BookingSubmitter {
	s := &BookingSubmitter{store: store, refs: refs, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Submit assembles and persists the booking. Store errors are returned unmodified.
func (s *BookingSubmitter) Submit(ctx context.Context, hotel domain.CanonicalHotel, room domain.RoomOffering, form domain.BookingFormState, userID string) (domain.BookingRecord, error) {
	if _, ok := hotel.Rooms[form.RoomType]; !ok {
		return domain.BookingRecord{}, &domain.RoomNotFoundError{HotelID: hotel.HotelID, RoomID: form.RoomType}
	}
	nights, total, err := Quote(room, form)
	if err != nil {
		return domain.BookingRecord{}, err
	}
	ref, err := s.mintReference(ctx)
	if err != nil {
		return domain.BookingRecord{}, err
	}

	form = form.Clone()
	form.NumberOfNights = nights
	rec := domain.BookingRecord{
		BookingFormState: form,
		HotelID:          hotel.HotelID,
		HotelName:        hotel.Property.Name,
		BookingReference: ref,
		TotalPrice:       total,
		Status:           domain.BookingStatusPending,
		CreatedAt:        s.now().UTC(),
		UserID:           userID,
		Room:             room,
		Location:         hotel.Property.Location,
		Dates: domain.StayDates{
			CheckIn:        form.CheckInDate,
			CheckOut:       form.CheckOutDate,
			NumberOfNights: nights,
		},
	}

	id, err := s.store.InsertBooking(ctx, rec)
	if err != nil {
		observability.ObserveBooking("failed")
		return domain.BookingRecord{}, err
	}
	rec.ID = id
	observability.ObserveBooking("created")
	log.Info().
		Str("booking_id", id).
		Str("reference", ref).
		Str("hotel_id", hotel.HotelID).
		Str("user_id", userID).
		Float64("total", total.Amount).
		Msg("booking created")

	if s.publisher != nil {
		if err := s.publisher.PublishBookingCreated(ctx, rec); err != nil {
			log.Warn().Err(err).Str("booking_id", id).Msg("publish booking.created failed")
		}
	}
	return rec, nil
}

func (s *BookingSubmitter) mintReference(ctx context.Context) (string, error) {
	for i := 0; i < referenceAttempts; i++ {
		ref, err := s.refs.Next()
		if err != nil {
			return "", err
		}
		if s.registry == nil {
			return ref, nil
		}
		err = s.registry.Reserve(ctx, ref, referenceTTL)
		if err == nil {
			return ref, nil
		}
		if !errors.Is(err, domain.ErrReferenceTaken) {
			return "", fmt.Errorf("reserve reference: %w", err)
		}
		log.Debug().Str("reference", ref).Msg("reference collision, minting again")
	}
	return "", fmt.Errorf("reserve reference: %w after %d attempts", domain.ErrReferenceTaken, referenceAttempts)
}
