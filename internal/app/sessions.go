package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"admas_hotel/internal/adapters/observability"
	"admas_hotel/internal/domain"
)

// BookingSession is one live wizard owned by one user.
type BookingSession struct {
	ID     string
	UserID string

	mu       sync.Mutex
	wizard   *Wizard
	record   *domain.BookingRecord
	lastSeen time.Time
}

// Do runs fn with exclusive access to the session's wizard.
func (s *BookingSession) Do(fn func(w *Wizard) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	return fn(s.wizard)
}

// Record is the submitted booking, or nil before a successful submission.
func (s *BookingSession) Record() *domain.BookingRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record
}

type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*BookingSession
	ttl      time.Duration
}

func NewSessionRegistry(ttl time.Duration) *SessionRegistry {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionRegistry{sessions: map[string]*BookingSession{}, ttl: ttl}
}

func (r *SessionRegistry) add(s *BookingSession) {
	r.mu.Lock()
	r.sessions[s.ID] = s
	n := len(r.sessions)
	r.mu.Unlock()
	observability.BookingSessions.Set(float64(n))
}

// Get returns the session if it exists, has not expired and belongs to userID.
func (r *SessionRegistry) Get(id, userID string) (*BookingSession, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok || s.UserID != userID {
		return nil, domain.ErrNotFound
	}
	s.mu.Lock()
	expired := time.Since(s.lastSeen) > r.ttl
	s.mu.Unlock()
	if expired {
		r.Delete(id)
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// Delete disposes the session's wizard and forgets it.
func (r *SessionRegistry) Delete(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()
	observability.BookingSessions.Set(float64(n))
	if ok {
		// not under s.mu: an in-flight call must observe the flag and drop its result
		s.wizard.Dispose()
	}
}

// Sweep drops idle sessions and reports how many were removed.
func (r *SessionRegistry) Sweep() int {
	var stale []string
	r.mu.RLock()
	for id, s := range r.sessions {
		s.mu.Lock()
		if time.Since(s.lastSeen) > r.ttl {
			stale = append(stale, id)
		}
		s.mu.Unlock()
	}
	r.mu.RUnlock()
	for _, id := range stale {
		r.Delete(id)
	}
	return len(stale)
}

// RunJanitor sweeps every interval until ctx is done.
func (r *SessionRegistry) RunJanitor(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := r.Sweep(); n > 0 {
				log.Debug().Int("removed", n).Msg("booking sessions swept")
			}
		}
	}
}

func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// BookingFlow wires hotel lookup, wizard sessions and submission together.
type BookingFlow struct {
	hotels    *QueryService
	submitter *BookingSubmitter
	sessions  *SessionRegistry
	profiles  domain.ProfileStore // optional, enables autofill
}

func NewBookingFlow(h *QueryService, sub *BookingSubmitter, reg *SessionRegistry, profiles domain.ProfileStore) *BookingFlow {
	return &BookingFlow{hotels: h, submitter: sub, sessions: reg, profiles: profiles}
}

func (f *BookingFlow) Sessions() *SessionRegistry { return f.sessions }

type StartInput struct {
	HotelID  string
	Query    domain.StayQuery
	Defaults FormDefaults
}

// Start loads the hotel, opens a wizard seeded with the defaults and runs the
// automatic autofill for signed-in users.
func (f *BookingFlow) Start(ctx context.Context, sess Session, in StartInput) (*BookingSession, error) {
	hotel, err := f.hotels.GetHotel(ctx, in.HotelID, in.Query)
	if err != nil {
		return nil, err
	}

	bs := &BookingSession{ID: uuid.NewString(), UserID: sess.UserID, lastSeen: time.Now()}
	submit := func(ctx context.Context, form domain.BookingFormState) error {
		room, ok := hotel.Rooms[form.RoomType]
		if !ok {
			return &domain.RoomNotFoundError{HotelID: hotel.HotelID, RoomID: form.RoomType}
		}
		rec, err := f.submitter.Submit(ctx, hotel, room, form, sess.UserID)
		if err != nil {
			return err
		}
		// called under bs.mu via Do
		bs.record = &rec
		return nil
	}

	var opts []WizardOption
	if f.profiles != nil && sess.UserID != "" {
		opts = append(opts, WithAutofill(NewProfileAutofill(f.profiles, sess)))
	}
	bs.wizard = NewWizard(hotel, in.Defaults, submit, opts...)
	bs.wizard.Mount(ctx)

	f.sessions.add(bs)
	log.Info().Str("session_id", bs.ID).Str("hotel_id", hotel.HotelID).Str("user_id", sess.UserID).Msg("booking session started")
	return bs, nil
}
