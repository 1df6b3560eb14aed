package main

import (
	"testing"
	"time"

	"admas_hotel/internal/shared"
)

func TestStayQuery(t *testing.T) {
	now := time.Date(2024, 5, 31, 23, 0, 0, 0, time.UTC)

	q := stayQuery(shared.Config{Currency: "USD", Locale: "en-us"}, now)
	if q.CheckIn != "2024-06-01" || q.CheckOut != "2024-06-02" || q.Adults != 1 {
		t.Fatalf("unexpected default stay: %+v", q)
	}

	q = stayQuery(shared.Config{PrefetchCheckIn: "2024-12-30", PrefetchNights: 3}, now)
	if q.CheckIn != "2024-12-30" || q.CheckOut != "2025-01-02" {
		t.Fatalf("unexpected configured stay: %+v", q)
	}
}
