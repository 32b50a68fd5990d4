package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Yashvvvv/VenueSync/internal/clock"
	"github.com/Yashvvvv/VenueSync/internal/domain"
	"github.com/Yashvvvv/VenueSync/internal/metrics"
	"github.com/Yashvvvv/VenueSync/internal/repository"
	"github.com/Yashvvvv/VenueSync/pkg/database"
	"github.com/Yashvvvv/VenueSync/pkg/logger"
	"github.com/Yashvvvv/VenueSync/pkg/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// validationService implements ValidationService
type validationService struct {
	tx          database.Transactor
	tickets     repository.TicketRepository
	qrCodes     repository.QrCodeRepository
	validations repository.ValidationRepository
	publisher   EventPublisher
	clock       clock.Clock
	log         *logger.Logger
}

// NewValidationService creates a new validation service
func NewValidationService(
	tx database.Transactor,
	tickets repository.TicketRepository,
	qrCodes repository.QrCodeRepository,
	validations repository.ValidationRepository,
	publisher EventPublisher,
	clk clock.Clock,
	log *logger.Logger,
) ValidationService {
	if publisher == nil {
		publisher = NewNoOpEventPublisher()
	}
	if log == nil {
		log = logger.Get()
	}
	return &validationService{
		tx:          tx,
		tickets:     tickets,
		qrCodes:     qrCodes,
		validations: validations,
		publisher:   publisher,
		clock:       clk,
		log:         log,
	}
}

// Validate parses rawID and dispatches on method. A malformed id is recorded
// as an INVALID attempt like any other unresolvable id.
func (s *validationService) Validate(ctx context.Context, rawID string, method domain.ValidationMethod) (*domain.TicketValidation, error) {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return s.run(ctx, method, nil)
	}
	if method == domain.ValidationMethodManual {
		return s.ValidateManually(ctx, id)
	}
	return s.ValidateByQrCode(ctx, id)
}

// ValidateByQrCode validates the ticket behind an ACTIVE QR code
func (s *validationService) ValidateByQrCode(ctx context.Context, qrCodeID uuid.UUID) (*domain.TicketValidation, error) {
	return s.run(ctx, domain.ValidationMethodQRScan, func(ctx context.Context) (*uuid.UUID, error) {
		qr, err := s.qrCodes.GetActiveByID(ctx, qrCodeID)
		if err != nil {
			return nil, err
		}
		return &qr.TicketID, nil
	})
}

// ValidateManually validates a ticket by its id
func (s *validationService) ValidateManually(ctx context.Context, ticketID uuid.UUID) (*domain.TicketValidation, error) {
	return s.run(ctx, domain.ValidationMethodManual, func(ctx context.Context) (*uuid.UUID, error) {
		return &ticketID, nil
	})
}

// record decides and persists one attempt in its own transaction
func (s *validationService) record(ctx context.Context, method domain.ValidationMethod, resolve resolveFunc) (*domain.TicketValidation, error) {
	var validation *domain.TicketValidation
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		v, err := s.validate(ctx, method, resolve)
		if err != nil {
			return err
		}
		if err := s.validations.Create(ctx, v); err != nil {
			return err
		}
		validation = v
		return nil
	})
	return validation, err
}

// resolveFunc maps the presented credential to a ticket id
type resolveFunc func(ctx context.Context) (*uuid.UUID, error)

func (s *validationService) run(ctx context.Context, method domain.ValidationMethod, resolve resolveFunc) (*domain.TicketValidation, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.validation.validate")
	defer span.End()
	span.SetAttributes(attribute.String("method", string(method)))

	validation, err := s.record(ctx, method, resolve)
	if errors.Is(err, domain.ErrAlreadyAdmitted) {
		// another admission committed first; a fresh read reports ALREADY_USED
		validation, err = s.record(ctx, method, resolve)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to validate ticket: %w", err)
	}

	metrics.RecordValidation(string(validation.Method), string(validation.Status))
	span.SetAttributes(attribute.String("status", string(validation.Status)))
	if validation.TicketID != nil {
		span.SetAttributes(attribute.String("ticket_id", validation.TicketID.String()))
	}

	if err := s.publisher.PublishTicketValidated(context.WithoutCancel(ctx), validation); err != nil {
		s.log.Warn("Failed to publish ticket validated event",
			zap.String("validation_id", validation.ID.String()),
			zap.Error(err))
	}

	span.SetStatus(codes.Ok, "")
	return validation, nil
}

// validate builds the validation record inside the transaction. The ticket
// row stays locked until commit, so racing scans of one ticket serialize and
// only the first sees it PURCHASED.
func (s *validationService) validate(ctx context.Context, method domain.ValidationMethod, resolve resolveFunc) (*domain.TicketValidation, error) {
	now := s.clock.Now()
	invalid := func() *domain.TicketValidation {
		return domain.NewTicketValidation(nil, method, domain.ValidationStatusInvalid, now)
	}

	if resolve == nil {
		return invalid(), nil
	}
	ticketID, err := resolve(ctx)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return invalid(), nil
		}
		return nil, err
	}

	ticket, err := s.tickets.GetByIDForUpdate(ctx, *ticketID)
	if err != nil {
		if errors.Is(err, domain.ErrTicketNotFound) {
			return invalid(), nil
		}
		return nil, err
	}

	// the lock may have been waited on; read the clock again
	now = s.clock.Now()
	status, err := s.decide(ctx, ticket, now)
	if err != nil {
		return nil, err
	}
	return domain.NewTicketValidation(&ticket.ID, method, status, now), nil
}

// decide applies the admission rules in order; the first match wins
func (s *validationService) decide(ctx context.Context, ticket *domain.Ticket, now time.Time) (domain.ValidationStatus, error) {
	if ticket.Status == domain.TicketStatusExpired {
		return domain.ValidationStatusExpired, nil
	}

	if event := ticket.Event(); event != nil && event.HasEnded(now) {
		// expire ahead of the sweep; only a PURCHASED ticket changes
		if ticket.MarkExpired(now) == nil {
			if _, err := s.tickets.TransitionStatus(ctx, ticket.ID,
				domain.TicketStatusPurchased, ticket.Status, now); err != nil {
				return "", err
			}
		}
		return domain.ValidationStatusExpired, nil
	}

	if ticket.Status == domain.TicketStatusUsed {
		return domain.ValidationStatusAlreadyUsed, nil
	}

	alreadyAdmitted, err := s.validations.ExistsValidForTicket(ctx, ticket.ID)
	if err != nil {
		return "", err
	}
	if alreadyAdmitted {
		return domain.ValidationStatusAlreadyUsed, nil
	}

	if !ticket.CanBeUsed() {
		// cancelled tickets are never admitted
		return domain.ValidationStatusInvalid, nil
	}
	if err := ticket.MarkUsed(now); err != nil {
		return "", err
	}

	moved, err := s.tickets.TransitionStatus(ctx, ticket.ID,
		domain.TicketStatusPurchased, ticket.Status, now)
	if err != nil {
		return "", err
	}
	if !moved {
		return domain.ValidationStatusAlreadyUsed, nil
	}
	return domain.ValidationStatusValid, nil
}
