package kafka

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"

	"admas_hotel/internal/domain"
)

type fakeWriter struct{ msgs []kafka.Message }

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return nil
}
func (f *fakeWriter) Close() error { return nil }

func TestPublishBookingCreated(t *testing.T) {
	fw := &fakeWriter{}
	p := &Publisher{w: fw}

	rec := domain.BookingRecord{
		ID:               "b-1",
		HotelID:          "42",
		UserID:           "u-1",
		BookingReference: "ADMAS-2406-ABC123",
		Status:           domain.BookingStatusPending,
	}
	if err := p.PublishBookingCreated(context.Background(), rec); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(fw.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(fw.msgs))
	}
	m := fw.msgs[0]
	if string(m.Key) != rec.BookingReference {
		t.Fatalf("key = %q", m.Key)
	}
	if len(m.Headers) != 1 || string(m.Headers[0].Value) != EventBookingCreated {
		t.Fatalf("headers = %+v", m.Headers)
	}
	var ev event
	if err := json.Unmarshal(m.Value, &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.ResourceID != "b-1" || ev.Metadata["hotelId"] != "42" || ev.Data.Status != domain.BookingStatusPending {
		t.Fatalf("unexpected event: %+v", ev)
	}
}
