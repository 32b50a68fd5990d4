package service

import (
	"context"
	"fmt"

	"github.com/Yashvvvv/VenueSync/internal/domain"
	"github.com/Yashvvvv/VenueSync/internal/repository"
)

// InventoryLedger enforces ticket type capacity
type InventoryLedger interface {
	// Reserve fails with domain.ErrSoldOut when no slot is left. The caller
	// must hold the ticket type row lock until the new ticket is written.
	Reserve(ctx context.Context, ticketType *domain.TicketType) error
}

type inventoryLedger struct {
	tickets repository.TicketRepository
}

// NewInventoryLedger creates an InventoryLedger counting issued tickets
func NewInventoryLedger(tickets repository.TicketRepository) InventoryLedger {
	return &inventoryLedger{tickets: tickets}
}

// Reserve counts every ticket ever issued for the type, cancelled ones
// included, against its capacity.
func (l *inventoryLedger) Reserve(ctx context.Context, ticketType *domain.TicketType) error {
	if ticketType.IsUnlimited() {
		return nil
	}

	issued, err := l.tickets.CountByTicketType(ctx, ticketType.ID)
	if err != nil {
		return fmt.Errorf("failed to count issued tickets: %w", err)
	}
	if !ticketType.HasCapacityFor(issued) {
		return domain.ErrSoldOut
	}
	return nil
}
