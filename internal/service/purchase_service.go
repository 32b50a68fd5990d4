package service

import (
	"context"
	"errors"
	"time"

	"github.com/Yashvvvv/VenueSync/internal/clock"
	"github.com/Yashvvvv/VenueSync/internal/domain"
	"github.com/Yashvvvv/VenueSync/internal/metrics"
	"github.com/Yashvvvv/VenueSync/internal/repository"
	"github.com/Yashvvvv/VenueSync/pkg/database"
	"github.com/Yashvvvv/VenueSync/pkg/logger"
	"github.com/Yashvvvv/VenueSync/pkg/retry"
	"github.com/Yashvvvv/VenueSync/pkg/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// purchaseService implements PurchaseService
type purchaseService struct {
	tx          database.Transactor
	users       repository.UserRepository
	ticketTypes repository.TicketTypeRepository
	tickets     repository.TicketRepository
	ledger      InventoryLedger
	issuer      CredentialIssuer
	publisher   EventPublisher
	clock       clock.Clock
	retrier     *retry.Retrier
	log         *logger.Logger
}

// PurchaseServiceConfig contains configuration for the purchase service
type PurchaseServiceConfig struct {
	// IssueRetry controls retries of QR issuance after commit
	IssueRetry *retry.Config
	Logger     *logger.Logger
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(
	tx database.Transactor,
	users repository.UserRepository,
	ticketTypes repository.TicketTypeRepository,
	tickets repository.TicketRepository,
	ledger InventoryLedger,
	issuer CredentialIssuer,
	publisher EventPublisher,
	clk clock.Clock,
	cfg *PurchaseServiceConfig,
) PurchaseService {
	var retryCfg *retry.Config
	log := logger.Get()
	if cfg != nil {
		retryCfg = cfg.IssueRetry
		if cfg.Logger != nil {
			log = cfg.Logger
		}
	}
	if publisher == nil {
		publisher = NewNoOpEventPublisher()
	}
	return &purchaseService{
		tx:          tx,
		users:       users,
		ticketTypes: ticketTypes,
		tickets:     tickets,
		ledger:      ledger,
		issuer:      issuer,
		publisher:   publisher,
		clock:       clk,
		retrier:     retry.New(retryCfg),
		log:         log,
	}
}

// Purchase locks the ticket type, checks the sale window and capacity, and
// writes the ticket in one transaction. The QR credential is issued after
// commit; its failure is logged and does not undo the sale.
func (s *purchaseService) Purchase(ctx context.Context, userID, ticketTypeID uuid.UUID) (*domain.Ticket, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.purchase.purchase")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", userID.String()),
		attribute.String("ticket_type_id", ticketTypeID.String()),
	)

	start := time.Now()

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		s.fail(span, err, start)
		return nil, err
	}

	var ticket *domain.Ticket
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		ticketType, err := s.ticketTypes.GetByIDForUpdate(ctx, ticketTypeID)
		if err != nil {
			return err
		}

		// read the clock after the lock so waiting purchasers see current time
		now := s.clock.Now()
		if err := domain.CheckSaleWindow(ticketType.Event, now); err != nil {
			return err
		}
		if err := s.ledger.Reserve(ctx, ticketType); err != nil {
			return err
		}

		t := domain.NewTicket(ticketType.ID, userID, now)
		if err := s.tickets.Create(ctx, t); err != nil {
			return err
		}
		t.TicketType = ticketType
		ticket = t
		return nil
	})
	if err != nil {
		s.fail(span, err, start)
		return nil, err
	}

	metrics.RecordPurchase(metrics.OutcomeSuccess, time.Since(start))
	span.SetAttributes(attribute.String("ticket_id", ticket.ID.String()))

	// the sale is committed; finish follow-up work even if the client went away
	ctx = context.WithoutCancel(ctx)
	s.issueCredential(ctx, ticket)

	if err := s.publisher.PublishTicketPurchased(ctx, ticket); err != nil {
		s.log.Warn("Failed to publish ticket purchased event",
			zap.String("ticket_id", ticket.ID.String()),
			zap.Error(err))
	}

	span.SetStatus(codes.Ok, "")
	return ticket, nil
}

func (s *purchaseService) issueCredential(ctx context.Context, ticket *domain.Ticket) {
	result := s.retrier.Do(ctx, func(ctx context.Context) error {
		_, err := s.issuer.Issue(ctx, ticket)
		if domain.IsNotFoundError(err) {
			return retry.Permanent(err)
		}
		return err
	}, func(attempt int, err error, next time.Duration) {
		s.log.Warn("Retrying QR code issuance",
			zap.String("ticket_id", ticket.ID.String()),
			zap.Int("attempt", attempt),
			zap.Duration("next", next),
			zap.Error(err))
	})
	if result.Err != nil {
		metrics.QRIssueFailuresTotal.Inc()
		s.log.ErrorContext(ctx, "Failed to issue QR code for purchased ticket",
			zap.String("ticket_id", ticket.ID.String()),
			zap.Int("attempts", result.Attempts),
			zap.Error(result.LastError))
	}
}

func (s *purchaseService) fail(span trace.Span, err error, start time.Time) {
	metrics.RecordPurchase(purchaseOutcome(err), time.Since(start))
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func purchaseOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrSoldOut):
		return metrics.OutcomeSoldOut
	case domain.IsSalesWindowError(err):
		return metrics.OutcomeSalesWindow
	case domain.IsNotFoundError(err):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}
