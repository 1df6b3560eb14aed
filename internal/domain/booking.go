package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type GuestRecord struct {
	FullName    string `json:"fullName"    validate:"required"`
	DateOfBirth string `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	Nationality string `json:"nationality" validate:"required"`
	IDNumber    string `json:"idNumber"    validate:"required"`
	IDExpiry    string `json:"idExpiry"    validate:"required,datetime=2006-01-02"`
}

// IsBlank reports whether no field of the guest has been filled in.
func (g GuestRecord) IsBlank() bool {
	return g == GuestRecord{}
}

// BookingFormState is the in-progress data collected by the booking wizard.
type BookingFormState struct {
	CheckInDate     string        `json:"checkInDate"`
	CheckOutDate    string        `json:"checkOutDate"`
	NumberOfRooms   int           `json:"numberOfRooms"`
	NumberOfGuests  int           `json:"numberOfGuests"`
	NumberOfNights  int           `json:"numberOfNights"`
	RoomType        string        `json:"roomType"`
	Guests          []GuestRecord `json:"guests"`
	ContactName     string        `json:"contactName"`
	ContactEmail    string        `json:"contactEmail"`
	ContactPhone    string        `json:"contactPhone"`
	SpecialRequests string        `json:"specialRequests,omitempty"`
}

// Clone returns a copy that shares no slice storage with f.
func (f BookingFormState) Clone() BookingFormState {
	out := f
	if f.Guests != nil {
		out.Guests = make([]GuestRecord, len(f.Guests))
		copy(out.Guests, f.Guests)
	}
	return out
}

type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type StayDates struct {
	CheckIn        string `json:"checkIn"`
	CheckOut       string `json:"checkOut"`
	NumberOfNights int    `json:"numberOfNights"`
}

// BookingRecord is the submitted reservation document.
type BookingRecord struct {
	BookingFormState

	ID               string        `json:"id,omitempty"`
	HotelID          string        `json:"hotelId"`
	HotelName        string        `json:"hotelName"`
	BookingReference string        `json:"bookingReference"`
	TotalPrice       Money         `json:"totalPrice"`
	Status           BookingStatus `json:"status"`
	CreatedAt        time.Time     `json:"createdAt"`
	UserID           string        `json:"userId"`
	Room             RoomOffering  `json:"room"`
	Location         Location      `json:"location"`
	Dates            StayDates     `json:"dates"`
}

// Profile is what the identity collaborator knows about a signed-in user.
type Profile struct {
	UserID      string
	DisplayName string
	Email       string
	DateOfBirth *string
	Nationality *string
	IDNumber    *string
	IDExpiry    *string
	PhoneNumber *string
}
