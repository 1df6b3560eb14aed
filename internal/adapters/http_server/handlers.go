// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"admas_hotel/internal/app"
	"admas_hotel/internal/domain"
)

type Handlers struct {
	Q    *app.QueryService
	Flow *app.BookingFlow
	Auth TokenValidator
}

type problem struct {
	Type   string              `json:"type"`
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Detail string              `json:"detail,omitempty"`
	Step   string              `json:"step,omitempty"`
	Errors []domain.FieldError `json:"errors,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Group(func(r chi.Router) {
		r.Use(Authenticate(h.Auth, false))
		r.Get("/v1/hotels/{id}", h.getHotel)
	})

	s.mux.Group(func(r chi.Router) {
		r.Use(Authenticate(h.Auth, true))

		r.Post("/v1/booking-sessions", h.startSession)
		r.Route("/v1/booking-sessions/{sid}", func(r chi.Router) {
			r.Get("/", h.getSession)
			r.Patch("/", h.patchSession)
			r.Delete("/", h.deleteSession)
			r.Post("/guests", h.addGuest)
			r.Put("/guests/{i}", h.updateGuest)
			r.Post("/next", h.next)
			r.Post("/back", h.back)
			r.Post("/autofill", h.autofill)
		})

		r.Get("/v1/bookings", h.listBookings)
		r.Get("/v1/bookings/{id}", h.getBooking)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemDoc(w, problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

func writeProblemDoc(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain and wizard errors onto problem responses.
func writeError(w http.ResponseWriter, err error) {
	var (
		ve  *domain.ValidationError
		idr *domain.InvalidDateRangeError
		rnf *domain.RoomNotFoundError
		se  *domain.SubmissionError
		ne  *domain.NormalizationError
	)
	switch {
	case errors.As(err, &ve):
		writeProblemDoc(w, problem{Type: "about:blank", Title: "Validation Failed", Status: http.StatusUnprocessableEntity,
			Detail: ve.Error(), Step: ve.Step, Errors: ve.Fields})
	case errors.As(err, &idr):
		writeProblem(w, http.StatusUnprocessableEntity, "Invalid Date Range", idr.Error())
	case errors.As(err, &rnf):
		writeProblem(w, http.StatusConflict, "Room Not Found", rnf.Error())
	case errors.As(err, &se):
		log.Error().Err(se.Err).Msg("booking submission failed")
		writeProblem(w, http.StatusBadGateway, "Submission Failed", "the booking could not be saved, please retry")
	case errors.As(err, &ne):
		log.Error().Err(err).Msg("hotel payload rejected")
		writeProblem(w, http.StatusBadGateway, "Bad Gateway", "hotel data is unavailable")
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "")
	case errors.Is(err, domain.ErrForbidden):
		writeProblem(w, http.StatusForbidden, "Forbidden", "")
	case errors.Is(err, app.ErrAlreadySubmitted), errors.Is(err, app.ErrGuestLimit), errors.Is(err, app.ErrAutofillUnavailable):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, app.ErrGuestIndex):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, app.ErrWizardDisposed):
		writeProblem(w, http.StatusGone, "Gone", "booking session closed")
	default:
		log.Error().Err(err).Msg("unhandled error")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// writeUpstreamError is writeError for hotel lookups: any upstream failure
// other than a missing hotel is the data source's fault.
func writeUpstreamError(w http.ResponseWriter, err error) {
	var ne *domain.NormalizationError
	if errors.Is(err, domain.ErrNotFound) || errors.As(err, &ne) {
		writeError(w, err)
		return
	}
	log.Error().Err(err).Msg("hotel lookup failed")
	writeProblem(w, http.StatusBadGateway, "Bad Gateway", "hotel data is unavailable")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func stayQuery(r *http.Request) domain.StayQuery {
	q := r.URL.Query()
	adults, err := strconv.Atoi(q.Get("adults"))
	if err != nil || adults < 1 {
		adults = 1
	}
	locale := q.Get("locale")
	if locale == "" {
		locale = selectLocale(r.Header.Get("Accept-Language"))
	}
	return domain.StayQuery{
		CheckIn:  q.Get("checkin"),
		CheckOut: q.Get("checkout"),
		Adults:   adults,
		Currency: strings.ToUpper(q.Get("currency")),
		Locale:   locale,
	}
}

// selectLocale takes the first language tag of an Accept-Language header.
func selectLocale(al string) string {
	tag := strings.TrimSpace(strings.SplitN(al, ",", 2)[0])
	tag = strings.SplitN(tag, ";", 2)[0]
	if tag == "" || tag == "*" {
		return "en-us"
	}
	return strings.ToLower(tag)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	q := stayQuery(r)
	if q.CheckIn != "" || q.CheckOut != "" {
		if _, err := app.ComputeNightsBetween(q.CheckIn, q.CheckOut); err != nil {
			writeError(w, err)
			return
		}
	}

	resp, err := h.Q.GetHotel(r.Context(), id, q)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	etag, body := calcETagAndBody(resp)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Language", q.Locale)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getHotel body")
	}
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFrom(r.Context())
	b, err := h.Q.GetBooking(r.Context(), chi.URLParam(r, "id"), sess.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		limit = l
	}
	sess, _ := SessionFrom(r.Context())
	out, err := h.Q.ListBookings(r.Context(), sess.UserID, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if out == nil {
		out = []domain.BookingRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}
