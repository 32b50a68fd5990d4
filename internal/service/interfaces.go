package service

import (
	"context"
	"time"

	"github.com/Yashvvvv/VenueSync/internal/domain"
	"github.com/google/uuid"
)

// PurchaseService buys one ticket of a ticket type
type PurchaseService interface {
	// Purchase issues a PURCHASED ticket, or fails with a not found, sale
	// window or sold out error
	Purchase(ctx context.Context, userID, ticketTypeID uuid.UUID) (*domain.Ticket, error)
}

// ValidationService admits tickets at the gate.
// Unresolvable ids produce an INVALID record, never an error; returned errors
// are infrastructure failures only.
type ValidationService interface {
	// ValidateByQrCode validates the ticket behind an ACTIVE QR code
	ValidateByQrCode(ctx context.Context, qrCodeID uuid.UUID) (*domain.TicketValidation, error)
	// ValidateManually validates a ticket by its id
	ValidateManually(ctx context.Context, ticketID uuid.UUID) (*domain.TicketValidation, error)
	// Validate parses a raw id and dispatches on method
	Validate(ctx context.Context, rawID string, method domain.ValidationMethod) (*domain.TicketValidation, error)
}

// TicketPage is one page of a purchaser's tickets
type TicketPage struct {
	Tickets  []*domain.Ticket
	Page     int
	PageSize int
	Total    int64
}

// TicketService serves a purchaser's own tickets
type TicketService interface {
	// ListTickets lists tickets of userID matching filter
	ListTickets(ctx context.Context, userID uuid.UUID, filter domain.TicketFilter, page, pageSize int) (*TicketPage, error)
	// GetTicket returns a ticket only if userID purchased it
	GetTicket(ctx context.Context, userID, ticketID uuid.UUID) (*domain.Ticket, error)
}

// ExpirationService expires tickets of events that have ended
type ExpirationService interface {
	ExpireEndedEventTickets(ctx context.Context, now time.Time) (int64, error)
}

// EventStatusService completes events that have ended
type EventStatusService interface {
	CompleteEndedEvents(ctx context.Context, now time.Time) (int64, error)
}

// CredentialIssuer creates the QR credential for a purchased ticket
type CredentialIssuer interface {
	Issue(ctx context.Context, ticket *domain.Ticket) (*domain.QrCode, error)
}

// CredentialRenderer renders a purchaser's active QR credential as a PNG
type CredentialRenderer interface {
	RenderForUser(ctx context.Context, userID, ticketID uuid.UUID) ([]byte, error)
}
