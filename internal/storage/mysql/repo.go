package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"admas_hotel/internal/domain"
)

const dateLayout = "2006-01-02"

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// InsertBooking stores b under a fresh UUID and returns that id.
func (r *Repo) InsertBooking(ctx context.Context, b domain.BookingRecord) (string, error) {
	guests, err := json.Marshal(b.Guests)
	if err != nil {
		return "", fmt.Errorf("marshal guests: %w", err)
	}
	room, err := json.Marshal(b.Room)
	if err != nil {
		return "", fmt.Errorf("marshal room: %w", err)
	}
	loc, err := json.Marshal(b.Location)
	if err != nil {
		return "", fmt.Errorf("marshal location: %w", err)
	}

	id := uuid.NewString()
	_, err = r.db.ExecContext(ctx, insertBookingSQL,
		id,
		b.BookingReference,
		b.UserID,
		b.HotelID,
		b.HotelName,
		string(b.Status),
		b.Dates.CheckIn,
		b.Dates.CheckOut,
		b.Dates.NumberOfNights,
		b.NumberOfRooms,
		b.NumberOfGuests,
		b.RoomType,
		string(guests),
		b.ContactName,
		b.ContactEmail,
		b.ContactPhone,
		nullIfEmpty(b.SpecialRequests),
		b.TotalPrice.Amount,
		b.TotalPrice.Currency,
		string(room),
		string(loc),
		b.CreatedAt.UTC(),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (domain.BookingRecord, error) {
	var (
		b                      domain.BookingRecord
		status                 string
		checkIn, checkOut      time.Time
		guests, room, location []byte
		special                sql.NullString
	)
	if err := row.Scan(
		&b.ID,
		&b.BookingReference,
		&b.UserID,
		&b.HotelID,
		&b.HotelName,
		&status,
		&checkIn, &checkOut,
		&b.Dates.NumberOfNights,
		&b.NumberOfRooms,
		&b.NumberOfGuests,
		&b.RoomType,
		&guests,
		&b.ContactName,
		&b.ContactEmail,
		&b.ContactPhone,
		&special,
		&b.TotalPrice.Amount,
		&b.TotalPrice.Currency,
		&room,
		&location,
		&b.CreatedAt,
	); err != nil {
		return domain.BookingRecord{}, err
	}

	b.Status = domain.BookingStatus(status)
	b.Dates.CheckIn = checkIn.Format(dateLayout)
	b.Dates.CheckOut = checkOut.Format(dateLayout)
	b.CheckInDate, b.CheckOutDate = b.Dates.CheckIn, b.Dates.CheckOut
	b.NumberOfNights = b.Dates.NumberOfNights
	b.SpecialRequests = special.String

	if err := json.Unmarshal(guests, &b.Guests); err != nil {
		return domain.BookingRecord{}, fmt.Errorf("decode guests: %w", err)
	}
	if err := json.Unmarshal(room, &b.Room); err != nil {
		return domain.BookingRecord{}, fmt.Errorf("decode room: %w", err)
	}
	if err := json.Unmarshal(location, &b.Location); err != nil {
		return domain.BookingRecord{}, fmt.Errorf("decode location: %w", err)
	}
	return b, nil
}

func (r *Repo) GetBooking(ctx context.Context, id string) (domain.BookingRecord, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, getBookingSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.BookingRecord{}, domain.ErrNotFound
	}
	return b, err
}

func (r *Repo) ListBookingsByUser(ctx context.Context, userID string, limit int) ([]domain.BookingRecord, error) {
	rows, err := r.db.QueryContext(ctx, listBookingsByUserSQL, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.BookingRecord
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	var (
		p                         domain.Profile
		name, email, dob, nat     sql.NullString
		idNum, idExp, phoneNumber sql.NullString
	)
	err := r.db.QueryRowContext(ctx, getProfileSQL, userID).Scan(
		&p.UserID, &name, &email, &dob, &nat, &idNum, &idExp, &phoneNumber,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Profile{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Profile{}, err
	}
	p.DisplayName = name.String
	p.Email = email.String
	p.DateOfBirth = strPtr(dob)
	p.Nationality = strPtr(nat)
	p.IDNumber = strPtr(idNum)
	p.IDExpiry = strPtr(idExp)
	p.PhoneNumber = strPtr(phoneNumber)
	return p, nil
}

func (r *Repo) UpsertProfile(ctx context.Context, p domain.Profile) error {
	_, err := r.db.ExecContext(ctx, upsertProfileSQL,
		p.UserID,
		nullIfEmpty(p.DisplayName),
		nullIfEmpty(p.Email),
		valStr(p.DateOfBirth),
		valStr(p.Nationality),
		valStr(p.IDNumber),
		valStr(p.IDExpiry),
		valStr(p.PhoneNumber),
	)
	return err
}

func (r *Repo) LogMiss(ctx context.Context, hotelID string, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, hotelID, status, reason)
	return err
}
