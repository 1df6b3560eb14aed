package app_test

import (
	"errors"
	"testing"
	"time"

	"admas_hotel/internal/app"
	"admas_hotel/internal/domain"
)

func TestComputeNights(t *testing.T) {
	addis := time.FixedZone("EAT", 3*60*60)
	cases := []struct {
		name     string
		in, out  time.Time
		want     int
		rangeErr bool
	}{
		{"one night", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), 1, false},
		{"clock time ignored", time.Date(2024, 6, 1, 22, 0, 0, 0, time.UTC), time.Date(2024, 6, 4, 6, 0, 0, 0, time.UTC), 3, false},
		{"zoned dates", time.Date(2024, 3, 30, 15, 0, 0, 0, addis), time.Date(2024, 4, 2, 10, 0, 0, 0, addis), 3, false},
		{"same day", time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC), time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC), 0, true},
		{"reversed", time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := app.ComputeNights(tc.in, tc.out)
			var ide *domain.InvalidDateRangeError
			if tc.rangeErr {
				if !errors.As(err, &ide) {
					t.Fatalf("expected InvalidDateRangeError, got %v", err)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Fatalf("got %d, %v; want %d", got, err, tc.want)
			}
		})
	}
}

func TestComputeNightsBetween(t *testing.T) {
	n, err := app.ComputeNightsBetween("2024-02-28", "2024-03-01")
	if err != nil || n != 2 {
		t.Fatalf("leap year: got %d, %v", n, err)
	}
	var ide *domain.InvalidDateRangeError
	if _, err := app.ComputeNightsBetween("2024-06-01", "2024-06-01"); !errors.As(err, &ide) {
		t.Fatalf("same day should be rejected, got %v", err)
	}
	if _, err := app.ComputeNightsBetween("06/01/2024", "2024-06-02"); !errors.As(err, &ide) {
		t.Fatalf("bad format should be rejected, got %v", err)
	}
}

func TestComputeTotal(t *testing.T) {
	if got := app.ComputeTotal(100, 3, 2); got != 600 {
		t.Fatalf("want 600, got %v", got)
	}
	if got := app.ComputeTotal(66.5, 1, 1); got != 66.5 {
		t.Fatalf("want 66.5, got %v", got)
	}
}

func TestQuote(t *testing.T) {
	room := domain.RoomOffering{ID: "101", Price: domain.Price{Amount: 100, Currency: "USD", PerNight: true}}
	form := domain.BookingFormState{CheckInDate: "2024-06-01", CheckOutDate: "2024-06-04", NumberOfRooms: 2}

	nights, total, err := app.Quote(room, form)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if nights != 3 || total != (domain.Money{Amount: 600, Currency: "USD"}) {
		t.Fatalf("unexpected quote: %d %+v", nights, total)
	}
}
