package domain

import (
	"time"

	"github.com/google/uuid"
)

// TicketStatus represents the status of a ticket
type TicketStatus string

const (
	TicketStatusPurchased TicketStatus = "PURCHASED"
	TicketStatusUsed      TicketStatus = "USED"
	TicketStatusExpired   TicketStatus = "EXPIRED"
	TicketStatusCancelled TicketStatus = "CANCELLED"
)

func (s TicketStatus) String() string {
	return string(s)
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
// Only a PURCHASED ticket moves, to USED, EXPIRED or CANCELLED.
func (s TicketStatus) CanTransitionTo(next TicketStatus) bool {
	if s != TicketStatusPurchased {
		return false
	}
	return next == TicketStatusUsed || next == TicketStatusExpired || next == TicketStatusCancelled
}

// Ticket is one admission issued to a purchaser
type Ticket struct {
	ID           uuid.UUID    `json:"id"`
	TicketTypeID uuid.UUID    `json:"ticket_type_id"`
	PurchaserID  uuid.UUID    `json:"purchaser_id"`
	Status       TicketStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	TicketType *TicketType `json:"ticket_type,omitempty"`
}

// NewTicket creates a PURCHASED ticket
func NewTicket(ticketTypeID, purchaserID uuid.UUID, now time.Time) *Ticket {
	return &Ticket{
		ID:           uuid.New(),
		TicketTypeID: ticketTypeID,
		PurchaserID:  purchaserID,
		Status:       TicketStatusPurchased,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Event returns the joined event, or nil when it was not loaded
func (t *Ticket) Event() *Event {
	if t.TicketType == nil {
		return nil
	}
	return t.TicketType.Event
}

// CanBeUsed reports whether the ticket may still be admitted
func (t *Ticket) CanBeUsed() bool {
	return t.Status == TicketStatusPurchased
}

// MarkUsed moves a PURCHASED ticket to USED
func (t *Ticket) MarkUsed(now time.Time) error {
	return t.transition(TicketStatusUsed, now)
}

// MarkExpired moves a PURCHASED ticket to EXPIRED
func (t *Ticket) MarkExpired(now time.Time) error {
	return t.transition(TicketStatusExpired, now)
}

func (t *Ticket) transition(next TicketStatus, now time.Time) error {
	if !t.Status.CanTransitionTo(next) {
		return ErrInvalidStatusTransition
	}
	t.Status = next
	t.UpdatedAt = now
	return nil
}
