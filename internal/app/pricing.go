package app

import (
	"fmt"
	"math"
	"time"

	"admas_hotel/internal/domain"
)

const dateLayout = "2006-01-02"

// ParseStayDate parses a YYYY-MM-DD stay date at midnight.
func ParseStayDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stay date %q: %w", s, err)
	}
	return t, nil
}

// ComputeNights returns the number of nights between two stay dates.
// Only the calendar date of each argument is used, so clock time and DST shifts
// never add a night. checkOut must be strictly after checkIn.
func ComputeNights(checkIn, checkOut time.Time) (int, error) {
	in, out := calendarDay(checkIn), calendarDay(checkOut)
	if !out.After(in) {
		return 0, &domain.InvalidDateRangeError{CheckIn: in.Format(dateLayout), CheckOut: out.Format(dateLayout)}
	}
	return int(math.Ceil(out.Sub(in).Hours() / 24)), nil
}

// ComputeNightsBetween is ComputeNights over YYYY-MM-DD strings.
func ComputeNightsBetween(checkIn, checkOut string) (int, error) {
	in, err := ParseStayDate(checkIn)
	if err != nil {
		return 0, &domain.InvalidDateRangeError{CheckIn: checkIn, CheckOut: checkOut}
	}
	out, err := ParseStayDate(checkOut)
	if err != nil {
		return 0, &domain.InvalidDateRangeError{CheckIn: checkIn, CheckOut: checkOut}
	}
	return ComputeNights(in, out)
}

// ComputeTotal is pricePerNight * nights * rooms. Callers guarantee nights and rooms are >= 1.
func ComputeTotal(pricePerNight float64, nights, rooms int) float64 {
	return pricePerNight * float64(nights) * float64(rooms)
}

// Quote prices a form against a room offering.
func Quote(room domain.RoomOffering, form domain.BookingFormState) (nights int, total domain.Money, err error) {
	nights, err = ComputeNightsBetween(form.CheckInDate, form.CheckOutDate)
	if err != nil {
		return 0, domain.Money{}, err
	}
	return nights, domain.Money{
		Amount:   ComputeTotal(room.Price.Amount, nights, form.NumberOfRooms),
		Currency: room.Price.Currency,
	}, nil
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
