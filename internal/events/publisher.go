package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hospital-admissions/internal/models"
	"hospital-admissions/pkg/logger"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
)

const (
	TypeAdmissionCreated    = "admission.created"
	TypeAdmissionDischarged = "admission.discharged"
)

const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
)

const source = "hospital-admissions"

// AdmissionEvent is published after an admit or discharge commits
type AdmissionEvent struct {
	EventID       string           `json:"eventId"`
	Type          string           `json:"type"`
	OccurredAt    time.Time        `json:"occurredAt"`
	Admission     models.Admission `json:"admission"`
	RoomOccupancy int              `json:"roomOccupancy"`
	RoomStatus    string           `json:"roomStatus"`
}

func NewAdmissionEvent(eventType string, admission *models.Admission, room *models.Room) AdmissionEvent {
	event := AdmissionEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Admission:  *admission,
	}
	if room != nil {
		event.RoomOccupancy = room.CurrentOccupancy
		event.RoomStatus = room.Status
	}
	return event
}

type Publisher interface {
	Publish(ctx context.Context, event AdmissionEvent) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes admission events keyed by room so one room's events stay ordered
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Compression:  compress.Snappy,
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
	}

	return &KafkaPublisher{writer: writer, topic: topic}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, event AdmissionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Admission.RoomID),
		Value: payload,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(event.EventID)},
			{Key: HeaderEventType, Value: []byte(event.Type)},
			{Key: HeaderSource, Value: []byte(source)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s to %s: %w", event.Type, p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher stands in for Kafka when no brokers are configured
type LogPublisher struct {
	log *logger.Logger
}

func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(ctx context.Context, event AdmissionEvent) error {
	p.log.Info("admission event",
		"event_id", event.EventID,
		"type", event.Type,
		"admission_id", event.Admission.ID,
		"room_id", event.Admission.RoomID,
		"room_occupancy", event.RoomOccupancy,
	)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
