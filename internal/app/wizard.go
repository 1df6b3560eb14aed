package app

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"admas_hotel/internal/domain"
)

// Step is one page of the booking wizard.
type Step int

const (
	StepGuestInfo Step = iota
	StepContactDetails
	StepReview
)

const lastStep = StepReview

var steps = []Step{StepGuestInfo, StepContactDetails, StepReview}

func (s Step) String() string {
	switch s {
	case StepGuestInfo:
		return "guest_info"
	case StepContactDetails:
		return "contact_details"
	case StepReview:
		return "review"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

var (
	ErrAlreadySubmitted    = errors.New("booking already submitted")
	ErrAutofillUnavailable = errors.New("autofill unavailable")
	ErrGuestLimit          = errors.New("guest count already matches number of guests")
	ErrGuestIndex          = errors.New("guest index out of range")
	ErrWizardDisposed      = errors.New("wizard disposed")
)

// SubmitFunc receives a copy of the form when the user advances past the review step.
type SubmitFunc func(ctx context.Context, form domain.BookingFormState) error

// FormDefaults seed a new wizard, typically from the hotel page query string.
type FormDefaults struct {
	CheckIn  string
	CheckOut string
	Rooms    int
	Guests   int
	RoomType string
}

// WizardState is everything the wizard tracks for one booking attempt.
type WizardState struct {
	Step      Step                    `json:"-"`
	Form      domain.BookingFormState `json:"form"`
	Filled    bool                    `json:"filled"` // automatic autofill already ran
	Submitted bool                    `json:"submitted"`
	Err       error                   `json:"-"`
}

// Wizard drives BookingFormState through GuestInfo -> ContactDetails -> Review.
// Steps can be visited with incomplete data; full validation only gates submission.
// A Wizard is not safe for concurrent use.
type Wizard struct {
	hotel    domain.CanonicalHotel
	state    WizardState
	autofill Autofill
	submit   SubmitFunc
	disposed atomic.Bool // set from other goroutines while a call is in flight
}

type WizardOption func(*Wizard)

func WithAutofill(a Autofill) WizardOption {
	return func(w *Wizard) { w.autofill = a }
}

func NewWizard(hotel domain.CanonicalHotel, d FormDefaults, submit SubmitFunc, opts ...WizardOption) *Wizard {
	form := domain.BookingFormState{
		CheckInDate:    d.CheckIn,
		CheckOutDate:   d.CheckOut,
		NumberOfRooms:  max(d.Rooms, 1),
		NumberOfGuests: max(d.Guests, 1),
		NumberOfNights: 1,
		RoomType:       d.RoomType,
		Guests:         []domain.GuestRecord{{}},
	}
	if n, err := ComputeNightsBetween(d.CheckIn, d.CheckOut); err == nil {
		form.NumberOfNights = n
	}
	w := &Wizard{hotel: hotel, state: WizardState{Step: StepGuestInfo, Form: form}, submit: submit}
	for _, o := range opts {
		o(w)
	}
	return w
}

func (w *Wizard) Hotel() domain.CanonicalHotel { return w.hotel }

// State returns a snapshot; mutating it does not affect the wizard.
func (w *Wizard) State() WizardState {
	s := w.state
	s.Form = w.state.Form.Clone()
	return s
}

func (w *Wizard) Step() Step { return w.state.Step }

// Next advances one step. On the review step it validates the whole form and
// hands it to the submit callback instead; the step index never moves past Review.
func (w *Wizard) Next(ctx context.Context) error {
	if w.disposed.Load() {
		return ErrWizardDisposed
	}
	if w.state.Step < lastStep {
		w.state.Step++
		w.state.Err = nil
		return nil
	}
	return w.submitForm(ctx)
}

func (w *Wizard) Back() {
	if w.state.Step > StepGuestInfo {
		w.state.Step--
	}
	w.state.Err = nil
}

// Dispose detaches the wizard. Autofill results and submission failures that
// arrive afterwards are dropped; a submission that succeeded is still reported,
// since the booking already exists.
func (w *Wizard) Dispose() { w.disposed.Store(true) }

func (w *Wizard) submitForm(ctx context.Context) error {
	if w.state.Submitted {
		return ErrAlreadySubmitted
	}
	for _, s := range steps {
		if err := w.Validate(s); err != nil {
			w.state.Err = err
			return err
		}
	}
	err := w.submit(ctx, w.state.Form.Clone())
	if err != nil {
		if w.disposed.Load() {
			return ErrWizardDisposed
		}
		var rnf *domain.RoomNotFoundError
		var idr *domain.InvalidDateRangeError
		if !errors.As(err, &rnf) && !errors.As(err, &idr) {
			err = &domain.SubmissionError{Err: err}
		}
		w.state.Err = err
		return err
	}
	w.state.Err = nil
	w.state.Submitted = true
	return nil
}

/********** form mutations **********/

// Edit applies several mutations as one: if fn fails, the form is restored to
// what it was before the call.
func (w *Wizard) Edit(fn func() error) error {
	before := w.state.Form.Clone()
	if err := fn(); err != nil {
		w.state.Form = before
		return err
	}
	return nil
}

// SetDates applies a new stay range and recomputes the number of nights.
// An invalid range leaves the form untouched.
func (w *Wizard) SetDates(checkIn, checkOut string) error {
	n, err := ComputeNightsBetween(checkIn, checkOut)
	if err != nil {
		return err
	}
	w.state.Form.CheckInDate, w.state.Form.CheckOutDate, w.state.Form.NumberOfNights = checkIn, checkOut, n
	return nil
}

func (w *Wizard) SetNumberOfRooms(n int) error {
	if n < 1 {
		return fieldErr(w.state.Step, "numberOfRooms", "min")
	}
	w.state.Form.NumberOfRooms = n
	return nil
}

// SetNumberOfGuests resizes the guest list to n, dropping trailing guests or
// appending blank ones.
func (w *Wizard) SetNumberOfGuests(n int) error {
	if n < 1 {
		return fieldErr(w.state.Step, "numberOfGuests", "min")
	}
	f := &w.state.Form
	f.NumberOfGuests = n
	switch {
	case len(f.Guests) > n:
		f.Guests = f.Guests[:n:n]
	case len(f.Guests) < n:
		f.Guests = append(f.Guests, make([]domain.GuestRecord, n-len(f.Guests))...)
	}
	return nil
}

func (w *Wizard) SetRoomType(roomID string) error {
	if _, ok := w.hotel.Rooms[roomID]; !ok {
		return &domain.RoomNotFoundError{HotelID: w.hotel.HotelID, RoomID: roomID}
	}
	w.state.Form.RoomType = roomID
	return nil
}

func (w *Wizard) CanAddGuest() bool {
	return len(w.state.Form.Guests) < w.state.Form.NumberOfGuests
}

func (w *Wizard) AddGuest() error {
	if !w.CanAddGuest() {
		return ErrGuestLimit
	}
	w.state.Form.Guests = append(w.state.Form.Guests, domain.GuestRecord{})
	return nil
}

func (w *Wizard) UpdateGuest(i int, g domain.GuestRecord) error {
	if i < 0 || i >= len(w.state.Form.Guests) {
		return ErrGuestIndex
	}
	w.state.Form.Guests[i] = g
	return nil
}

func (w *Wizard) SetContact(name, email, phone string) {
	w.state.Form.ContactName = name
	w.state.Form.ContactEmail = email
	w.state.Form.ContactPhone = phone
}

func (w *Wizard) SetSpecialRequests(s string) { w.state.Form.SpecialRequests = s }

/********** autofill **********/

// Mount runs the automatic autofill once per wizard: it fills guest[0] and any
// empty contact field. Later calls are no-ops so user edits are never overwritten.
func (w *Wizard) Mount(ctx context.Context) {
	if w.autofill == nil || w.state.Filled || w.disposed.Load() {
		return
	}
	w.state.Filled = true
	f := w.state.Form
	if !f.Guests[0].IsBlank() && f.ContactName != "" && f.ContactEmail != "" && f.ContactPhone != "" {
		return
	}
	if err := w.fill(ctx, false); err != nil && !errors.Is(err, ErrWizardDisposed) {
		log.Warn().Err(err).Str("hotel_id", w.hotel.HotelID).Msg("autofill on mount failed")
	}
}

// AutoFill is the manual trigger: it always overwrites guest[0] and the contact
// fields with whatever the profile provides, re-reading the profile first.
func (w *Wizard) AutoFill(ctx context.Context) error {
	if w.autofill == nil {
		return ErrAutofillUnavailable
	}
	if w.disposed.Load() {
		return ErrWizardDisposed
	}
	if r, ok := w.autofill.(interface{ Refresh() }); ok {
		r.Refresh()
	}
	w.state.Filled = true
	return w.fill(ctx, true)
}

func (w *Wizard) fill(ctx context.Context, overwrite bool) error {
	guest, err := w.autofill.AutoFillGuest(ctx)
	if err != nil {
		return err
	}
	values := make(map[ContactField]string, len(contactFields))
	for _, cf := range contactFields {
		v, err := w.autofill.AutoFillContact(ctx, cf)
		if err != nil {
			return err
		}
		values[cf] = v
	}
	if w.disposed.Load() || ctx.Err() != nil {
		return ErrWizardDisposed
	}

	f := &w.state.Form
	if guest != nil && (overwrite || f.Guests[0].IsBlank()) {
		f.Guests[0] = *guest
	}
	set := func(dst *string, v string) {
		if v != "" && (overwrite || *dst == "") {
			*dst = v
		}
	}
	set(&f.ContactName, values[ContactFieldName])
	set(&f.ContactEmail, values[ContactFieldEmail])
	set(&f.ContactPhone, values[ContactFieldPhone])
	return nil
}

/********** per-step validation **********/

var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

type guestStep struct {
	NumberOfGuests int                  `json:"numberOfGuests" validate:"min=1"`
	Guests         []domain.GuestRecord `json:"guests"         validate:"dive"`
}

type contactStep struct {
	ContactName  string `json:"contactName"  validate:"required"`
	ContactEmail string `json:"contactEmail" validate:"required,email"`
	ContactPhone string `json:"contactPhone" validate:"required,min=5,max=32"`
}

type reviewStep struct {
	NumberOfRooms  int    `json:"numberOfRooms"  validate:"min=1"`
	NumberOfNights int    `json:"numberOfNights" validate:"min=1"`
	RoomType       string `json:"roomType"       validate:"required"`
}

// Validate checks the fields owned by step s.
func (w *Wizard) Validate(s Step) error {
	f := w.state.Form
	switch s {
	case StepGuestInfo:
		err := structErr(s, validate.Struct(guestStep{NumberOfGuests: f.NumberOfGuests, Guests: f.Guests}))
		if len(f.Guests) != f.NumberOfGuests {
			err = appendField(err, s, FieldErrorf("guests", "len=%d", f.NumberOfGuests))
		}
		return err
	case StepContactDetails:
		return structErr(s, validate.Struct(contactStep{
			ContactName:  strings.TrimSpace(f.ContactName),
			ContactEmail: strings.TrimSpace(f.ContactEmail),
			ContactPhone: strings.TrimSpace(f.ContactPhone),
		}))
	case StepReview:
		if err := structErr(s, validate.Struct(reviewStep{
			NumberOfRooms:  f.NumberOfRooms,
			NumberOfNights: f.NumberOfNights,
			RoomType:       f.RoomType,
		})); err != nil {
			return err
		}
		if _, err := ComputeNightsBetween(f.CheckInDate, f.CheckOutDate); err != nil {
			return err
		}
		if _, ok := w.hotel.Rooms[f.RoomType]; !ok {
			return &domain.RoomNotFoundError{HotelID: w.hotel.HotelID, RoomID: f.RoomType}
		}
		return nil
	}
	return fmt.Errorf("unknown step %d", int(s))
}

func FieldErrorf(field, format string, args ...any) domain.FieldError {
	return domain.FieldError{Field: field, Rule: fmt.Sprintf(format, args...)}
}

func fieldErr(s Step, field, rule string) error {
	return &domain.ValidationError{Step: s.String(), Fields: []domain.FieldError{{Field: field, Rule: rule}}}
}

func appendField(err error, s Step, fe domain.FieldError) error {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		ve.Fields = append(ve.Fields, fe)
		return ve
	}
	return &domain.ValidationError{Step: s.String(), Fields: []domain.FieldError{fe}}
}

// structErr converts validator output into a ValidationError keyed by JSON field paths.
func structErr(s Step, err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &domain.ValidationError{Step: s.String()}
	for _, fe := range verrs {
		ns := fe.Namespace()
		if i := strings.IndexByte(ns, '.'); i >= 0 {
			ns = ns[i+1:]
		}
		out.Fields = append(out.Fields, domain.FieldError{Field: ns, Rule: fe.Tag()})
	}
	return out
}
