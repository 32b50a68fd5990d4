package service

import (
	"context"
	"math"

	"github.com/Yashvvvv/VenueSync/internal/clock"
	"github.com/Yashvvvv/VenueSync/internal/domain"
	"github.com/Yashvvvv/VenueSync/internal/repository"
	"github.com/Yashvvvv/VenueSync/pkg/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ticketService implements TicketService
type ticketService struct {
	tickets         repository.TicketRepository
	clock           clock.Clock
	defaultPageSize int
	maxPageSize     int
}

// TicketServiceConfig contains paging limits for ticket listings
type TicketServiceConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

// NewTicketService creates a new ticket service
func NewTicketService(tickets repository.TicketRepository, clk clock.Clock, cfg *TicketServiceConfig) TicketService {
	defaultSize, maxSize := 20, 100
	if cfg != nil {
		if cfg.DefaultPageSize > 0 {
			defaultSize = cfg.DefaultPageSize
		}
		if cfg.MaxPageSize > 0 {
			maxSize = cfg.MaxPageSize
		}
	}
	return &ticketService{tickets: tickets, clock: clk, defaultPageSize: defaultSize, maxPageSize: maxSize}
}

// ListTickets lists a page of the user's tickets
func (s *ticketService) ListTickets(ctx context.Context, userID uuid.UUID, filter domain.TicketFilter, page, pageSize int) (*TicketPage, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.ticket.list")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = s.defaultPageSize
	}
	if pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}
	// keep OFFSET within a 32-bit signed integer
	if maxPage := math.MaxInt32/pageSize + 1; page > maxPage {
		page = maxPage
	}
	if filter == "" {
		filter = domain.TicketFilterAll
	}

	span.SetAttributes(
		attribute.String("user_id", userID.String()),
		attribute.String("filter", string(filter)),
		attribute.Int("page", page),
	)

	tickets, total, err := s.tickets.ListByPurchaser(ctx, repository.TicketListParams{
		PurchaserID: userID,
		Filter:      filter,
		Now:         s.clock.Now(),
		Limit:       pageSize,
		Offset:      (page - 1) * pageSize,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return &TicketPage{Tickets: tickets, Page: page, PageSize: pageSize, Total: total}, nil
}

// GetTicket returns the ticket if the user owns it
func (s *ticketService) GetTicket(ctx context.Context, userID, ticketID uuid.UUID) (*domain.Ticket, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.ticket.get")
	defer span.End()

	ticket, err := s.tickets.GetByIDAndPurchaser(ctx, ticketID, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return ticket, nil
}
