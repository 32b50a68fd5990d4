package service

import (
	"context"
	"time"

	"github.com/Yashvvvv/VenueSync/internal/repository"
	"github.com/Yashvvvv/VenueSync/pkg/logger"
	"github.com/Yashvvvv/VenueSync/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// expirationService implements ExpirationService
type expirationService struct {
	tickets repository.TicketRepository
	log     *logger.Logger
}

// NewExpirationService creates a new expiration service
func NewExpirationService(tickets repository.TicketRepository, log *logger.Logger) ExpirationService {
	if log == nil {
		log = logger.Get()
	}
	return &expirationService{tickets: tickets, log: log}
}

// ExpireEndedEventTickets moves every PURCHASED ticket whose event ended
// before now to EXPIRED in one set-based update
func (s *expirationService) ExpireEndedEventTickets(ctx context.Context, now time.Time) (int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.expiration.expire_ended_event_tickets")
	defer span.End()

	count, err := s.tickets.ExpireForEndedEvents(ctx, now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	span.SetAttributes(attribute.Int64("expired", count))
	if count > 0 {
		s.log.Info("Expired tickets for ended events", zap.Int64("count", count))
	}
	span.SetStatus(codes.Ok, "")
	return count, nil
}
