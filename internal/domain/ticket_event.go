package domain

import (
	"time"

	"github.com/google/uuid"
)

// Ticket event types published to Kafka
const (
	TicketEventPurchased = "ticket.purchased"
	TicketEventValidated = "ticket.validated"
)

// TicketEvent is the payload published when a ticket changes hands or is scanned
type TicketEvent struct {
	EventID      string           `json:"event_id"`
	EventType    string           `json:"event_type"`
	TicketID     *uuid.UUID       `json:"ticket_id,omitempty"`
	TicketTypeID *uuid.UUID       `json:"ticket_type_id,omitempty"`
	PurchaserID  *uuid.UUID       `json:"purchaser_id,omitempty"`
	Status       string           `json:"status"`
	Method       ValidationMethod `json:"validation_method,omitempty"`
	OccurredAt   time.Time        `json:"occurred_at"`
}

// NewTicketPurchasedEvent describes a completed purchase
func NewTicketPurchasedEvent(t *Ticket, now time.Time) *TicketEvent {
	ticketID, typeID, purchaserID := t.ID, t.TicketTypeID, t.PurchaserID
	return &TicketEvent{
		EventID:      uuid.NewString(),
		EventType:    TicketEventPurchased,
		TicketID:     &ticketID,
		TicketTypeID: &typeID,
		PurchaserID:  &purchaserID,
		Status:       string(t.Status),
		OccurredAt:   now,
	}
}

// NewTicketValidatedEvent describes one validation attempt
func NewTicketValidatedEvent(v *TicketValidation) *TicketEvent {
	return &TicketEvent{
		EventID:    uuid.NewString(),
		EventType:  TicketEventValidated,
		TicketID:   v.TicketID,
		Status:     string(v.Status),
		Method:     v.Method,
		OccurredAt: v.ValidatedAt,
	}
}

// Key returns the partition key so events of one ticket stay ordered
func (e *TicketEvent) Key() string {
	if e.TicketID == nil {
		return e.EventID
	}
	return e.TicketID.String()
}
