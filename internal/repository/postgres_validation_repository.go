package repository

import (
	"context"
	"fmt"

	"github.com/Yashvvvv/VenueSync/internal/domain"
	"github.com/Yashvvvv/VenueSync/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresValidationRepository implements ValidationRepository using PostgreSQL.
// Records are append-only: there is no update or delete.
type PostgresValidationRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresValidationRepository creates a new PostgresValidationRepository
func NewPostgresValidationRepository(pool *pgxpool.Pool) *PostgresValidationRepository {
	return &PostgresValidationRepository{pool: pool}
}

// Create appends a validation record
func (r *PostgresValidationRepository) Create(ctx context.Context, v *domain.TicketValidation) error {
	query := `
		INSERT INTO ticket_validations (id, ticket_id, validation_method, status, validated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := database.Conn(ctx, r.pool).Exec(ctx, query,
		v.ID, v.TicketID, v.Method, v.Status, v.ValidatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.ErrAlreadyAdmitted
		}
		return fmt.Errorf("failed to create ticket validation: %w", err)
	}
	return nil
}

// ExistsValidForTicket reports whether a VALID record exists for the ticket
func (r *PostgresValidationRepository) ExistsValidForTicket(ctx context.Context, ticketID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM ticket_validations WHERE ticket_id = $1 AND status = $2)`

	var exists bool
	err := database.Conn(ctx, r.pool).QueryRow(ctx, query, ticketID, domain.ValidationStatusValid).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check ticket validations: %w", err)
	}
	return exists, nil
}
