package app_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"admas_hotel/internal/app"
	"admas_hotel/internal/domain"
)

var fixedNow = time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC)

func completeForm() domain.BookingFormState {
	return domain.BookingFormState{
		CheckInDate:    "2024-06-01",
		CheckOutDate:   "2024-06-04",
		NumberOfRooms:  2,
		NumberOfGuests: 1,
		NumberOfNights: 3,
		RoomType:       "101",
		Guests:         []domain.GuestRecord{completeGuest()},
		ContactName:    "Abebe Kebede",
		ContactEmail:   "abebe@example.com",
		ContactPhone:   "+251911000000",
	}
}

func TestSubmit_BuildsPendingRecord(t *testing.T) {
	store := &memStore{}
	pub := &fakePublisher{}
	s := app.NewBookingSubmitter(store, app.NewReferenceGenerator("ADMAS"),
		app.WithClock(func() time.Time { return fixedNow }), app.WithEventPublisher(pub))

	hotel := sampleHotel()
	rec, err := s.Submit(context.Background(), hotel, hotel.Rooms["101"], completeForm(), "user-1")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rec.ID == "" || rec.Status != domain.BookingStatusPending || !rec.CreatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected record header: %+v", rec)
	}
	if rec.TotalPrice != (domain.Money{Amount: 600, Currency: "USD"}) {
		t.Fatalf("want 600 USD, got %+v", rec.TotalPrice)
	}
	if rec.Dates != (domain.StayDates{CheckIn: "2024-06-01", CheckOut: "2024-06-04", NumberOfNights: 3}) {
		t.Fatalf("unexpected dates: %+v", rec.Dates)
	}
	if rec.HotelName != "Sheraton Addis" || rec.Room.ID != "101" || rec.Location.City != "Addis Ababa" || rec.UserID != "user-1" {
		t.Fatalf("unexpected snapshots: %+v", rec)
	}
	if !regexp.MustCompile(`^ADMAS-2405-[A-Z0-9]{3}\d{3}$`).MatchString(rec.BookingReference) {
		t.Fatalf("bad reference %q", rec.BookingReference)
	}
	stored, _ := store.GetBooking(context.Background(), rec.ID)
	if stored.BookingReference != rec.BookingReference {
		t.Fatalf("stored record differs: %+v", stored)
	}
	if len(pub.got) != 1 || pub.got[0].ID != rec.ID {
		t.Fatalf("expected one booking.created event, got %+v", pub.got)
	}
}

func TestSubmit_RoomNotFound(t *testing.T) {
	store := &memStore{}
	s := app.NewBookingSubmitter(store, app.NewReferenceGenerator("ADMAS"))
	form := completeForm()
	form.RoomType = "999"

	_, err := s.Submit(context.Background(), sampleHotel(), domain.RoomOffering{}, form, "user-1")
	var rnf *domain.RoomNotFoundError
	if !errors.As(err, &rnf) || rnf.RoomID != "999" {
		t.Fatalf("expected RoomNotFoundError, got %v", err)
	}
	if len(store.bookings) != 0 {
		t.Fatalf("nothing should be stored")
	}
}

func TestSubmit_StoreErrorPropagatesUnmodified(t *testing.T) {
	boom := errors.New("connection refused")
	s := app.NewBookingSubmitter(&memStore{err: boom}, app.NewReferenceGenerator("ADMAS"))
	hotel := sampleHotel()
	_, err := s.Submit(context.Background(), hotel, hotel.Rooms["101"], completeForm(), "user-1")
	if err != boom {
		t.Fatalf("expected the store error itself, got %v", err)
	}
}

func TestSubmit_RemintsTakenReferences(t *testing.T) {
	reg := &takenRegistry{n: 2}
	s := app.NewBookingSubmitter(&memStore{}, app.NewReferenceGenerator("ADMAS"), app.WithReferenceRegistry(reg))
	hotel := sampleHotel()

	rec, err := s.Submit(context.Background(), hotel, hotel.Rooms["101"], completeForm(), "user-1")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if reg.calls != 3 || rec.BookingReference != reg.seen[2] {
		t.Fatalf("expected third reference to win, calls=%d ref=%s seen=%v", reg.calls, rec.BookingReference, reg.seen)
	}
}

func TestSubmit_GivesUpAfterRepeatedCollisions(t *testing.T) {
	reg := &takenRegistry{n: 100}
	store := &memStore{}
	s := app.NewBookingSubmitter(store, app.NewReferenceGenerator("ADMAS"), app.WithReferenceRegistry(reg))
	hotel := sampleHotel()

	_, err := s.Submit(context.Background(), hotel, hotel.Rooms["101"], completeForm(), "user-1")
	if !errors.Is(err, domain.ErrReferenceTaken) || reg.calls != 5 {
		t.Fatalf("expected ErrReferenceTaken after 5 attempts, got %v (calls=%d)", err, reg.calls)
	}
	if len(store.bookings) != 0 {
		t.Fatalf("nothing should be stored")
	}
}

func TestSubmit_InvalidDates(t *testing.T) {
	s := app.NewBookingSubmitter(&memStore{}, app.NewReferenceGenerator("ADMAS"))
	form := completeForm()
	form.CheckOutDate = form.CheckInDate
	hotel := sampleHotel()

	_, err := s.Submit(context.Background(), hotel, hotel.Rooms["101"], form, "user-1")
	var ide *domain.InvalidDateRangeError
	if !errors.As(err, &ide) {
		t.Fatalf("expected InvalidDateRangeError, got %v", err)
	}
}
