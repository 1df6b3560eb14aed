package app

import (
	"context"
	"errors"
	"strings"

	"admas_hotel/internal/domain"
)

type ContactField string

const (
	ContactFieldName  ContactField = "name"
	ContactFieldEmail ContactField = "email"
	ContactFieldPhone ContactField = "phone"
)

var contactFields = []ContactField{ContactFieldName, ContactFieldEmail, ContactFieldPhone}

// Autofill pre-populates wizard fields from a signed-in user's profile.
// AutoFillGuest returns nil when there is nothing to fill; AutoFillContact returns "".
type Autofill interface {
	AutoFillGuest(ctx context.Context) (*domain.GuestRecord, error)
	AutoFillContact(ctx context.Context, field ContactField) (string, error)
}

// Session is the identity of the user driving a booking, as asserted by the auth provider.
type Session struct {
	UserID      string
	DisplayName string
	Email       string
}

// ProfileAutofill fills guest and contact fields from the auth session and the stored profile.
// The profile is looked up once and reused until Refresh is called.
type ProfileAutofill struct {
	profiles domain.ProfileStore
	session  Session

	loaded  bool
	profile domain.Profile
}

func NewProfileAutofill(profiles domain.ProfileStore, s Session) *ProfileAutofill {
	return &ProfileAutofill{profiles: profiles, session: s}
}

// Refresh makes the next lookup read the profile store again.
func (a *ProfileAutofill) Refresh() { a.loaded = false }

func (a *ProfileAutofill) load(ctx context.Context) (domain.Profile, error) {
	if a.loaded {
		return a.profile, nil
	}
	p, err := a.profiles.GetProfile(ctx, a.session.UserID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.Profile{}, err
	}
	// a missing profile still leaves the session name and email usable
	a.profile, a.loaded = p, true
	return p, nil
}

func (a *ProfileAutofill) AutoFillGuest(ctx context.Context) (*domain.GuestRecord, error) {
	p, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	g := domain.GuestRecord{
		FullName:    firstNonBlank(a.session.DisplayName, p.DisplayName),
		DateOfBirth: derefStr(p.DateOfBirth),
		Nationality: derefStr(p.Nationality),
		IDNumber:    derefStr(p.IDNumber),
		IDExpiry:    derefStr(p.IDExpiry),
	}
	if g.IsBlank() {
		return nil, nil
	}
	return &g, nil
}

func (a *ProfileAutofill) AutoFillContact(ctx context.Context, field ContactField) (string, error) {
	p, err := a.load(ctx)
	if err != nil {
		return "", err
	}
	switch field {
	case ContactFieldName:
		return firstNonBlank(a.session.DisplayName, p.DisplayName), nil
	case ContactFieldEmail:
		return firstNonBlank(a.session.Email, p.Email), nil
	case ContactFieldPhone:
		return derefStr(p.PhoneNumber), nil
	}
	return "", nil
}

func derefStr(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func firstNonBlank(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
