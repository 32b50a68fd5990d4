package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Yashvvvv/VenueSync/internal/domain"
	"github.com/Yashvvvv/VenueSync/pkg/kafka"
	"github.com/Yashvvvv/VenueSync/pkg/telemetry"
)

// EventPublisher defines the interface for publishing ticket events
type EventPublisher interface {
	// PublishTicketPurchased publishes a ticket purchased event
	PublishTicketPurchased(ctx context.Context, ticket *domain.Ticket) error

	// PublishTicketValidated publishes a validation outcome
	PublishTicketValidated(ctx context.Context, validation *domain.TicketValidation) error

	// Close closes the event publisher
	Close() error
}

// messageProducer is the part of kafka.Producer the publisher uses
type messageProducer interface {
	Produce(ctx context.Context, msg *kafka.Message) error
	Close()
}

// KafkaEventPublisher implements EventPublisher using Kafka
type KafkaEventPublisher struct {
	producer    messageProducer
	topic       string
	serviceName string
}

// EventPublisherConfig contains configuration for the event publisher
type EventPublisherConfig struct {
	Brokers     []string
	Topic       string
	ServiceName string
	ClientID    string
}

// NewKafkaEventPublisher creates a new Kafka event publisher
func NewKafkaEventPublisher(ctx context.Context, cfg *EventPublisherConfig) (*KafkaEventPublisher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("event publisher config is required")
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "venuesync-producer"
	}

	producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
		Brokers:       cfg.Brokers,
		ClientID:      clientID,
		MaxRetries:    3,
		RetryInterval: 2 * time.Second,
		BatchSize:     100,
		LingerMs:      10,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return newKafkaEventPublisher(producer, cfg.Topic, cfg.ServiceName), nil
}

func newKafkaEventPublisher(producer messageProducer, topic, serviceName string) *KafkaEventPublisher {
	if topic == "" {
		topic = "ticket-events"
	}
	if serviceName == "" {
		serviceName = "venuesync"
	}
	return &KafkaEventPublisher{producer: producer, topic: topic, serviceName: serviceName}
}

// PublishTicketPurchased publishes a ticket purchased event
func (p *KafkaEventPublisher) PublishTicketPurchased(ctx context.Context, ticket *domain.Ticket) error {
	return p.publish(ctx, domain.NewTicketPurchasedEvent(ticket, ticket.CreatedAt))
}

// PublishTicketValidated publishes a validation outcome
func (p *KafkaEventPublisher) PublishTicketValidated(ctx context.Context, validation *domain.TicketValidation) error {
	return p.publish(ctx, domain.NewTicketValidatedEvent(validation))
}

// Close closes the event publisher
func (p *KafkaEventPublisher) Close() error {
	if p.producer != nil {
		p.producer.Close()
	}
	return nil
}

func (p *KafkaEventPublisher) publish(ctx context.Context, event *domain.TicketEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.Key()),
		Value: value,
		Headers: map[string]string{
			"event_type":   event.EventType,
			"event_id":     event.EventID,
			"source":       p.serviceName,
			"content_type": "application/json",
		},
		Timestamp: time.Now(),
	}
	if traceID := telemetry.GetTraceID(ctx); traceID != "" {
		msg.Headers["trace_id"] = traceID
	}

	if err := p.producer.Produce(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.EventType, err)
	}
	return nil
}

// NoOpEventPublisher is used when Kafka is disabled
type NoOpEventPublisher struct{}

// NewNoOpEventPublisher creates a new NoOpEventPublisher
func NewNoOpEventPublisher() *NoOpEventPublisher {
	return &NoOpEventPublisher{}
}

func (p *NoOpEventPublisher) PublishTicketPurchased(ctx context.Context, ticket *domain.Ticket) error {
	return nil
}

func (p *NoOpEventPublisher) PublishTicketValidated(ctx context.Context, validation *domain.TicketValidation) error {
	return nil
}

func (p *NoOpEventPublisher) Close() error {
	return nil
}
