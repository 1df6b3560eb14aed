// Package kafka publishes booking lifecycle events.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"admas_hotel/internal/domain"
)

const EventBookingCreated = "booking.created"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	w messageWriter
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{w: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		WriteTimeout:           5 * time.Second,
	}}
}

type event struct {
	Entity     string               `json:"entity"`
	Action     string               `json:"action"`
	ResourceID string               `json:"resourceId"`
	Metadata   map[string]string    `json:"metadata"`
	Data       domain.BookingRecord `json:"data"`
}

// PublishBookingCreated emits one message keyed by booking reference.
func (p *Publisher) PublishBookingCreated(ctx context.Context, b domain.BookingRecord) error {
	body, err := json.Marshal(event{
		Entity:     "booking",
		Action:     "created",
		ResourceID: b.ID,
		Metadata: map[string]string{
			"hotelId":   b.HotelID,
			"userId":    b.UserID,
			"reference": b.BookingReference,
		},
		Data: b,
	})
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(b.BookingReference),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(EventBookingCreated)},
		},
	})
}

func (p *Publisher) Close() error { return p.w.Close() }
