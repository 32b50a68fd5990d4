package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Yashvvvv/VenueSync/internal/clock"
	"github.com/Yashvvvv/VenueSync/internal/domain"
	"github.com/Yashvvvv/VenueSync/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresQrCodeRepository implements QrCodeRepository using PostgreSQL
type PostgresQrCodeRepository struct {
	pool *pgxpool.Pool
	loc  *time.Location
}

// NewPostgresQrCodeRepository creates a new PostgresQrCodeRepository
func NewPostgresQrCodeRepository(pool *pgxpool.Pool, loc *time.Location) *PostgresQrCodeRepository {
	return &PostgresQrCodeRepository{pool: pool, loc: loc}
}

const qrCodeColumns = `id, ticket_id, value, status, created_at, updated_at`

// Create inserts a new QR code
func (r *PostgresQrCodeRepository) Create(ctx context.Context, qr *domain.QrCode) error {
	query := `
		INSERT INTO qr_codes (id, ticket_id, value, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := database.Conn(ctx, r.pool).Exec(ctx, query,
		qr.ID, qr.TicketID, qr.Value, qr.Status, qr.CreatedAt, qr.UpdatedAt)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return domain.ErrTicketNotFound
		}
		return fmt.Errorf("failed to create qr code: %w", err)
	}
	return nil
}

// GetActiveByID retrieves an ACTIVE QR code; revoked codes read as not found
func (r *PostgresQrCodeRepository) GetActiveByID(ctx context.Context, id uuid.UUID) (*domain.QrCode, error) {
	query := `SELECT ` + qrCodeColumns + ` FROM qr_codes WHERE id = $1 AND status = $2`
	return r.get(ctx, query, id, domain.QrCodeStatusActive)
}

// GetActiveByTicketID retrieves the newest ACTIVE QR code of a ticket
func (r *PostgresQrCodeRepository) GetActiveByTicketID(ctx context.Context, ticketID uuid.UUID) (*domain.QrCode, error) {
	query := `SELECT ` + qrCodeColumns + ` FROM qr_codes
		WHERE ticket_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1`
	return r.get(ctx, query, ticketID, domain.QrCodeStatusActive)
}

func (r *PostgresQrCodeRepository) get(ctx context.Context, query string, args ...any) (*domain.QrCode, error) {
	qr := &domain.QrCode{}
	err := database.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(
		&qr.ID, &qr.TicketID, &qr.Value, &qr.Status, &qr.CreatedAt, &qr.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrQrCodeNotFound
		}
		return nil, fmt.Errorf("failed to get qr code: %w", err)
	}
	qr.CreatedAt = clock.InZone(qr.CreatedAt, r.loc)
	qr.UpdatedAt = clock.InZone(qr.UpdatedAt, r.loc)
	return qr, nil
}
