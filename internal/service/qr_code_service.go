package service

import (
	"context"
	"fmt"

	"github.com/Yashvvvv/VenueSync/internal/clock"
	"github.com/Yashvvvv/VenueSync/internal/domain"
	"github.com/Yashvvvv/VenueSync/internal/repository"
	"github.com/Yashvvvv/VenueSync/pkg/telemetry"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// DefaultQRImageSize is the rendered PNG edge length in pixels
const DefaultQRImageSize = 300

// QrCodeService issues and renders QR credentials.
// It implements both CredentialIssuer and CredentialRenderer.
type QrCodeService struct {
	tickets   repository.TicketRepository
	qrCodes   repository.QrCodeRepository
	clock     clock.Clock
	imageSize int
}

// NewQrCodeService creates a new QrCodeService
func NewQrCodeService(tickets repository.TicketRepository, qrCodes repository.QrCodeRepository, clk clock.Clock, imageSize int) *QrCodeService {
	if imageSize <= 0 {
		imageSize = DefaultQRImageSize
	}
	return &QrCodeService{tickets: tickets, qrCodes: qrCodes, clock: clk, imageSize: imageSize}
}

// Issue stores a new ACTIVE credential for the ticket
func (s *QrCodeService) Issue(ctx context.Context, ticket *domain.Ticket) (*domain.QrCode, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.qr_code.issue")
	defer span.End()
	span.SetAttributes(attribute.String("ticket_id", ticket.ID.String()))

	qr := domain.NewQrCode(ticket.ID, s.clock.Now())
	if err := s.qrCodes.Create(ctx, qr); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return qr, nil
}

// RenderForUser renders the active credential of a ticket the user owns
func (s *QrCodeService) RenderForUser(ctx context.Context, userID, ticketID uuid.UUID) ([]byte, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.qr_code.render")
	defer span.End()

	if _, err := s.tickets.GetByIDAndPurchaser(ctx, ticketID, userID); err != nil {
		span.RecordError(err)
		return nil, err
	}

	qr, err := s.qrCodes.GetActiveByTicketID(ctx, ticketID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	png, err := qrcode.Encode(qr.Value, qrcode.Medium, s.imageSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to render qr code: %w", err)
	}
	return png, nil
}
