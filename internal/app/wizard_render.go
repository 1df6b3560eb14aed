package app

import "admas_hotel/internal/domain"

// StepView is what a client needs to draw the current wizard page.
type StepView struct {
	Step        string               `json:"step"`
	Index       int                  `json:"index"`
	Last        bool                 `json:"last"`
	Guests      []domain.GuestRecord `json:"guests,omitempty"`
	CanAddGuest bool                 `json:"canAddGuest,omitempty"`
	Contact     *ContactView         `json:"contact,omitempty"`
	Review      *ReviewView          `json:"review,omitempty"`
}

type ContactView struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	SpecialRequests string `json:"specialRequests,omitempty"`
}

type ReviewView struct {
	HotelName string               `json:"hotelName"`
	Room      *domain.RoomOffering `json:"room,omitempty"`
	Dates     domain.StayDates     `json:"dates"`
	Rooms     int                  `json:"rooms"`
	Guests    int                  `json:"guests"`
	Total     *domain.Money        `json:"total,omitempty"`
	Problem   string               `json:"problem,omitempty"`
}

// Render builds the view for step s.
func (w *Wizard) Render(s Step) StepView {
	v := StepView{Step: s.String(), Index: int(s), Last: s == lastStep}
	f := w.state.Form.Clone()
	switch s {
	case StepGuestInfo:
		v.Guests = f.Guests
		v.CanAddGuest = w.CanAddGuest()
	case StepContactDetails:
		v.Contact = &ContactView{
			Name:            f.ContactName,
			Email:           f.ContactEmail,
			Phone:           f.ContactPhone,
			SpecialRequests: f.SpecialRequests,
		}
	case StepReview:
		v.Review = w.renderReview(f)
	}
	return v
}

func (w *Wizard) renderReview(f domain.BookingFormState) *ReviewView {
	rv := &ReviewView{
		HotelName: w.hotel.Property.Name,
		Dates:     domain.StayDates{CheckIn: f.CheckInDate, CheckOut: f.CheckOutDate, NumberOfNights: f.NumberOfNights},
		Rooms:     f.NumberOfRooms,
		Guests:    f.NumberOfGuests,
	}
	room, ok := w.hotel.Rooms[f.RoomType]
	if !ok {
		rv.Problem = (&domain.RoomNotFoundError{HotelID: w.hotel.HotelID, RoomID: f.RoomType}).Error()
		return rv
	}
	rv.Room = &room
	nights, total, err := Quote(room, f)
	if err != nil {
		rv.Problem = err.Error()
		return rv
	}
	rv.Dates.NumberOfNights = nights
	rv.Total = &total
	return rv
}
