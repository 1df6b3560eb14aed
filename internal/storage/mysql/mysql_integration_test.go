//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"admas_hotel/internal/domain"
	mysqlrepo "admas_hotel/internal/storage/mysql"
)

// ---------- small helpers ----------
func pstr(s string) *string { return &s }

func migrationsDir(t *testing.T) string {
	t.Helper()
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	// repo default, relative to this package
	return filepath.Join("..", "..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir(t)

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest unavailable: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=admas",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Skipf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/admas?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func sampleBooking(ref string, created time.Time) domain.BookingRecord {
	return domain.BookingRecord{
		BookingFormState: domain.BookingFormState{
			CheckInDate:    "2024-06-01",
			CheckOutDate:   "2024-06-04",
			NumberOfRooms:  2,
			NumberOfGuests: 1,
			NumberOfNights: 3,
			RoomType:       "101",
			Guests: []domain.GuestRecord{{
				FullName: "Abebe Kebede", DateOfBirth: "1990-01-02", Nationality: "ET",
				IDNumber: "EP123", IDExpiry: "2030-01-01",
			}},
			ContactName:  "Abebe Kebede",
			ContactEmail: "abebe@example.com",
			ContactPhone: "+251911000000",
		},
		HotelID:          "42",
		HotelName:        "Sheraton Addis",
		BookingReference: ref,
		TotalPrice:       domain.Money{Amount: 600, Currency: "USD"},
		Status:           domain.BookingStatusPending,
		CreatedAt:        created,
		UserID:           "user-1",
		Room:             domain.RoomOffering{ID: "101", Name: "Deluxe", Price: domain.Price{Amount: 100, Currency: "USD", PerNight: true}},
		Location:         domain.Location{City: "Addis Ababa", Country: "Ethiopia"},
		Dates:            domain.StayDates{CheckIn: "2024-06-01", CheckOut: "2024-06-04", NumberOfNights: 3},
	}
}

// ---------- the tests ----------
func TestRepo_MySQL_BookingRoundTrip(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	created := time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)
	id, err := repo.InsertBooking(ctx, sampleBooking("ADMAS-2405-ABC001", created))
	if err != nil {
		t.Fatalf("InsertBooking: %v", err)
	}
	if _, err := repo.InsertBooking(ctx, sampleBooking("ADMAS-2405-ABC002", created.Add(time.Hour))); err != nil {
		t.Fatalf("InsertBooking second: %v", err)
	}

	got, err := repo.GetBooking(ctx, id)
	if err != nil {
		t.Fatalf("GetBooking: %v", err)
	}
	if got.BookingReference != "ADMAS-2405-ABC001" || got.Status != domain.BookingStatusPending {
		t.Fatalf("unexpected booking: %+v", got)
	}
	if got.Dates.CheckIn != "2024-06-01" || got.Dates.NumberOfNights != 3 || got.TotalPrice.Amount != 600 {
		t.Fatalf("unexpected dates/price: %+v %+v", got.Dates, got.TotalPrice)
	}
	if len(got.Guests) != 1 || got.Guests[0].FullName != "Abebe Kebede" || got.Room.Name != "Deluxe" {
		t.Fatalf("unexpected snapshots: %+v", got)
	}

	list, err := repo.ListBookingsByUser(ctx, "user-1", 10)
	if err != nil {
		t.Fatalf("ListBookingsByUser: %v", err)
	}
	if len(list) != 2 || list[0].BookingReference != "ADMAS-2405-ABC002" {
		t.Fatalf("expected newest first, got %+v", list)
	}

	// unique index on booking_reference
	if _, err := repo.InsertBooking(ctx, sampleBooking("ADMAS-2405-ABC001", created)); err == nil {
		t.Fatalf("expected duplicate reference to fail")
	}

	if _, err := repo.GetBooking(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepo_MySQL_ProfilesAndMisses(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	if _, err := repo.GetProfile(ctx, "nobody"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.UpsertProfile(ctx, domain.Profile{
		UserID: "user-1", DisplayName: "Abebe", Nationality: pstr("ET"), PhoneNumber: pstr("+251911000000"),
	}); err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}
	p, err := repo.GetProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p.DisplayName != "Abebe" || p.PhoneNumber == nil || *p.PhoneNumber != "+251911000000" || p.IDNumber != nil {
		t.Fatalf("unexpected profile: %+v", p)
	}

	if err := repo.LogMiss(ctx, "999", 404, "not found"); err != nil {
		t.Fatalf("LogMiss: %v", err)
	}
	if err := repo.LogMiss(ctx, "999", 403, "inactive"); err != nil {
		t.Fatalf("LogMiss again: %v", err)
	}
	var status int
	if err := db.QueryRowContext(ctx, "SELECT http_status FROM fetch_misses WHERE hotel_id = ?", "999").Scan(&status); err != nil {
		t.Fatalf("read miss: %v", err)
	}
	if status != 403 {
		t.Fatalf("expected latest status 403, got %d", status)
	}
}
