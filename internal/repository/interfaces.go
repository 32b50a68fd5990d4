package repository

import (
	"context"
	"time"

	"github.com/Yashvvvv/VenueSync/internal/domain"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// EventRepository defines the interface for event data access
type EventRepository interface {
	// GetByID retrieves an event by ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	// CompleteEndedEvents flips PUBLISHED events whose end is before now to COMPLETED
	CompleteEndedEvents(ctx context.Context, now time.Time) (int64, error)
}

// TicketTypeRepository defines the interface for ticket type data access
type TicketTypeRepository interface {
	// GetByID retrieves a ticket type with its event
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TicketType, error)
	// GetByIDForUpdate retrieves a ticket type with its event and locks the
	// ticket type row until the surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.TicketType, error)
}

// TicketListParams selects a page of a purchaser's tickets
type TicketListParams struct {
	PurchaserID uuid.UUID
	Filter      domain.TicketFilter
	Now         time.Time
	Limit       int
	Offset      int
}

// TicketRepository defines the interface for ticket data access
type TicketRepository interface {
	// Create inserts a new ticket
	Create(ctx context.Context, ticket *domain.Ticket) error
	// CountByTicketType counts every ticket ever issued for a type, whatever its status
	CountByTicketType(ctx context.Context, ticketTypeID uuid.UUID) (int64, error)
	// GetByID retrieves a ticket with its type and event
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error)
	// GetByIDForUpdate retrieves a ticket with its type and event and locks the ticket row
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Ticket, error)
	// GetByIDAndPurchaser retrieves a ticket only if it belongs to purchaserID
	GetByIDAndPurchaser(ctx context.Context, id, purchaserID uuid.UUID) (*domain.Ticket, error)
	// ListByPurchaser lists a page of tickets and the total matching count
	ListByPurchaser(ctx context.Context, params TicketListParams) ([]*domain.Ticket, int64, error)
	// TransitionStatus moves a ticket from one status to another only if it is
	// still in from; it reports whether a row changed
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to domain.TicketStatus, now time.Time) (bool, error)
	// ExpireForEndedEvents sets PURCHASED tickets of ended events to EXPIRED
	ExpireForEndedEvents(ctx context.Context, now time.Time) (int64, error)
}

// QrCodeRepository defines the interface for QR credential data access
type QrCodeRepository interface {
	// Create inserts a new QR code
	Create(ctx context.Context, qr *domain.QrCode) error
	// GetActiveByID retrieves an ACTIVE QR code by ID
	GetActiveByID(ctx context.Context, id uuid.UUID) (*domain.QrCode, error)
	// GetActiveByTicketID retrieves the newest ACTIVE QR code of a ticket
	GetActiveByTicketID(ctx context.Context, ticketID uuid.UUID) (*domain.QrCode, error)
}

// ValidationRepository defines the interface for the validation audit trail
type ValidationRepository interface {
	// Create appends a validation record
	Create(ctx context.Context, v *domain.TicketValidation) error
	// ExistsValidForTicket reports whether a ticket already has a VALID record
	ExistsValidForTicket(ctx context.Context, ticketID uuid.UUID) (bool, error)
}

// SweepLock is a lease that keeps one replica at a time running a sweep
type SweepLock interface {
	// Acquire takes the named lock for ttl; ok is false when another holder has it
	Acquire(ctx context.Context, name string, ttl time.Duration) (token string, ok bool, err error)
	// Release frees the lock if token still owns it
	Release(ctx context.Context, name, token string) error
}
