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

// eventStatusService implements EventStatusService
type eventStatusService struct {
	events repository.EventRepository
	log    *logger.Logger
}

// NewEventStatusService creates a new event status service
func NewEventStatusService(events repository.EventRepository, log *logger.Logger) EventStatusService {
	if log == nil {
		log = logger.Get()
	}
	return &eventStatusService{events: events, log: log}
}

// CompleteEndedEvents marks PUBLISHED events that ended before now COMPLETED.
// Completed events are never reopened.
func (s *eventStatusService) CompleteEndedEvents(ctx context.Context, now time.Time) (int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event_status.complete_ended_events")
	defer span.End()

	count, err := s.events.CompleteEndedEvents(ctx, now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	span.SetAttributes(attribute.Int64("completed", count))
	if count > 0 {
		s.log.Info("Completed ended events", zap.Int64("count", count))
	}
	span.SetStatus(codes.Ok, "")
	return count, nil
}
