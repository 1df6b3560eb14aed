package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	// ErrReferenceTaken is returned by a ReferenceRegistry when a reference is already reserved.
	ErrReferenceTaken = errors.New("booking reference already taken")
)

// NormalizationError means the upstream hotel payload could not be mapped at all.
type NormalizationError struct {
	Reason string
}

func (e *NormalizationError) Error() string {
	return "normalize hotel payload: " + e.Reason
}

type InvalidDateRangeError struct {
	CheckIn, CheckOut string
}

func (e *InvalidDateRangeError) Error() string {
	return fmt.Sprintf("invalid date range: check-out %q must be after check-in %q", e.CheckOut, e.CheckIn)
}

type RoomNotFoundError struct {
	HotelID string
	RoomID  string
}

func (e *RoomNotFoundError) Error() string {
	return fmt.Sprintf("room %q not found in hotel %q", e.RoomID, e.HotelID)
}

// SubmissionError wraps a persistence or network failure raised while submitting a booking.
// The form state is left intact so the user can retry.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string { return "submit booking: " + e.Err.Error() }
func (e *SubmissionError) Unwrap() error { return e.Err }

// FieldError is one failed validation rule.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

type ValidationError struct {
	Step   string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+":"+f.Rule)
	}
	return fmt.Sprintf("%s step invalid: %s", e.Step, strings.Join(parts, ", "))
}
