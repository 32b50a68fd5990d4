package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Yashvvvv/VenueSync/internal/domain"
	"github.com/Yashvvvv/VenueSync/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresTicketTypeRepository implements TicketTypeRepository using PostgreSQL
type PostgresTicketTypeRepository struct {
	pool *pgxpool.Pool
	loc  *time.Location
}

// NewPostgresTicketTypeRepository creates a new PostgresTicketTypeRepository
func NewPostgresTicketTypeRepository(pool *pgxpool.Pool, loc *time.Location) *PostgresTicketTypeRepository {
	return &PostgresTicketTypeRepository{pool: pool, loc: loc}
}

const ticketTypeSelect = `SELECT ` + ticketTypeColumns + `, ` + eventColumns + `
	FROM ticket_types tt
	JOIN events e ON e.id = tt.event_id
	WHERE tt.id = $1`

// GetByID retrieves a ticket type with its event
func (r *PostgresTicketTypeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TicketType, error) {
	return r.get(ctx, ticketTypeSelect, id)
}

// GetByIDForUpdate locks the ticket type row (not the event) for the rest of
// the caller's transaction. Purchases of the same type serialize here.
func (r *PostgresTicketTypeRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.TicketType, error) {
	if database.TxFromContext(ctx) == nil {
		return nil, errors.New("GetByIDForUpdate requires a transaction")
	}
	return r.get(ctx, ticketTypeSelect+` FOR UPDATE OF tt`, id)
}

func (r *PostgresTicketTypeRepository) get(ctx context.Context, query string, id uuid.UUID) (*domain.TicketType, error) {
	tt, err := scanTicketTypeWithEvent(database.Conn(ctx, r.pool).QueryRow(ctx, query, id), r.loc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTicketTypeNotFound
		}
		return nil, fmt.Errorf("failed to get ticket type: %w", err)
	}
	return tt, nil
}
