package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"admas_hotel/internal/app"
	"admas_hotel/internal/domain"
)

type startSessionRequest struct {
	HotelID  string `json:"hotelId"`
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
	Rooms    int    `json:"rooms"`
	Guests   int    `json:"guests"`
	RoomType string `json:"roomType"`
	Currency string `json:"currency"`
	Locale   string `json:"locale"`
}

// patchSessionRequest carries only the fields the client wants to change.
type patchSessionRequest struct {
	CheckIn         *string `json:"checkIn"`
	CheckOut        *string `json:"checkOut"`
	Rooms           *int    `json:"rooms"`
	Guests          *int    `json:"guests"`
	RoomType        *string `json:"roomType"`
	ContactName     *string `json:"contactName"`
	ContactEmail    *string `json:"contactEmail"`
	ContactPhone    *string `json:"contactPhone"`
	SpecialRequests *string `json:"specialRequests"`
}

type sessionError struct {
	Message string              `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

type sessionView struct {
	ID        string                  `json:"id"`
	HotelID   string                  `json:"hotelId"`
	Step      string                  `json:"step"`
	Form      domain.BookingFormState `json:"form"`
	Filled    bool                    `json:"filled"`
	Submitted bool                    `json:"submitted"`
	Error     *sessionError           `json:"error,omitempty"`
	View      app.StepView            `json:"view"`
	Booking   *domain.BookingRecord   `json:"booking,omitempty"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", err.Error())
		return false
	}
	return true
}

func (h *Handlers) startSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.HotelID) == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "hotelId is required")
		return
	}
	if req.CheckIn != "" || req.CheckOut != "" {
		if _, err := app.ComputeNightsBetween(req.CheckIn, req.CheckOut); err != nil {
			writeError(w, err)
			return
		}
	}

	sess, _ := SessionFrom(r.Context())
	in := app.StartInput{
		HotelID: req.HotelID,
		Query: domain.StayQuery{
			CheckIn:  req.CheckIn,
			CheckOut: req.CheckOut,
			Adults:   max(req.Guests, 1),
			Currency: strings.ToUpper(req.Currency),
			Locale:   req.Locale,
		},
		Defaults: app.FormDefaults{
			CheckIn:  req.CheckIn,
			CheckOut: req.CheckOut,
			Rooms:    req.Rooms,
			Guests:   req.Guests,
			RoomType: req.RoomType,
		},
	}
	if in.Query.Locale == "" {
		in.Query.Locale = selectLocale(r.Header.Get("Accept-Language"))
	}

	bs, err := h.Flow.Start(r.Context(), sess, in)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	w.Header().Set("Location", "/v1/booking-sessions/"+bs.ID)
	writeJSON(w, http.StatusCreated, viewOf(bs))
}

// session resolves {sid} for the calling user, writing a 404 when it is not theirs.
func (h *Handlers) session(w http.ResponseWriter, r *http.Request) (*app.BookingSession, bool) {
	sess, _ := SessionFrom(r.Context())
	bs, err := h.Flow.Sessions().Get(chi.URLParam(r, "sid"), sess.UserID)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "booking session not found")
		return nil, false
	}
	return bs, true
}

// viewOf snapshots the session; it takes the session lock and must not be
// called from inside Do.
func viewOf(bs *app.BookingSession) sessionView {
	var v sessionView
	_ = bs.Do(func(wz *app.Wizard) error {
		st := wz.State()
		v = sessionView{
			ID:        bs.ID,
			HotelID:   wz.Hotel().HotelID,
			Step:      st.Step.String(),
			Form:      st.Form,
			Filled:    st.Filled,
			Submitted: st.Submitted,
			View:      wz.Render(st.Step),
		}
		if st.Err != nil {
			v.Error = &sessionError{Message: st.Err.Error()}
			var ve *domain.ValidationError
			if errors.As(st.Err, &ve) {
				v.Error.Fields = ve.Fields
			}
		}
		return nil
	})
	v.Booking = bs.Record()
	return v
}

// mutate runs fn against the session's wizard and answers with the new state.
func (h *Handlers) mutate(w http.ResponseWriter, r *http.Request, status int, fn func(wz *app.Wizard) error) {
	bs, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := bs.Do(fn); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, viewOf(bs))
}

func (h *Handlers) getSession(w http.ResponseWriter, r *http.Request) {
	bs, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(bs))
}

func (h *Handlers) deleteSession(w http.ResponseWriter, r *http.Request) {
	bs, ok := h.session(w, r)
	if !ok {
		return
	}
	h.Flow.Sessions().Delete(bs.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) patchSession(w http.ResponseWriter, r *http.Request) {
	var req patchSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.mutate(w, r, http.StatusOK, func(wz *app.Wizard) error {
		// all or nothing: a rejected field leaves the form as it was
		return wz.Edit(func() error {
			f := wz.State().Form
			if req.CheckIn != nil || req.CheckOut != nil {
				in, out := f.CheckInDate, f.CheckOutDate
				if req.CheckIn != nil {
					in = *req.CheckIn
				}
				if req.CheckOut != nil {
					out = *req.CheckOut
				}
				if err := wz.SetDates(in, out); err != nil {
					return err
				}
			}
			if req.Rooms != nil {
				if err := wz.SetNumberOfRooms(*req.Rooms); err != nil {
					return err
				}
			}
			if req.Guests != nil {
				if err := wz.SetNumberOfGuests(*req.Guests); err != nil {
					return err
				}
			}
			if req.RoomType != nil {
				if err := wz.SetRoomType(*req.RoomType); err != nil {
					return err
				}
			}
			if req.ContactName != nil || req.ContactEmail != nil || req.ContactPhone != nil {
				name, email, phone := f.ContactName, f.ContactEmail, f.ContactPhone
				if req.ContactName != nil {
					name = *req.ContactName
				}
				if req.ContactEmail != nil {
					email = *req.ContactEmail
				}
				if req.ContactPhone != nil {
					phone = *req.ContactPhone
				}
				wz.SetContact(name, email, phone)
			}
			if req.SpecialRequests != nil {
				wz.SetSpecialRequests(*req.SpecialRequests)
			}
			return nil
		})
	})
}

func (h *Handlers) addGuest(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, http.StatusOK, func(wz *app.Wizard) error { return wz.AddGuest() })
}

func (h *Handlers) updateGuest(w http.ResponseWriter, r *http.Request) {
	i, err := strconv.Atoi(chi.URLParam(r, "i"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid index", "guest index must be a number")
		return
	}
	var g domain.GuestRecord
	if !decodeJSON(w, r, &g) {
		return
	}
	h.mutate(w, r, http.StatusOK, func(wz *app.Wizard) error { return wz.UpdateGuest(i, g) })
}

func (h *Handlers) next(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, http.StatusOK, func(wz *app.Wizard) error { return wz.Next(r.Context()) })
}

func (h *Handlers) back(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, http.StatusOK, func(wz *app.Wizard) error { wz.Back(); return nil })
}

func (h *Handlers) autofill(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, http.StatusOK, func(wz *app.Wizard) error { return wz.AutoFill(r.Context()) })
}
