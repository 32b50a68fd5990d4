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

// PostgresTicketRepository implements TicketRepository using PostgreSQL
type PostgresTicketRepository struct {
	pool *pgxpool.Pool
	loc  *time.Location
}

// NewPostgresTicketRepository creates a new PostgresTicketRepository
func NewPostgresTicketRepository(pool *pgxpool.Pool, loc *time.Location) *PostgresTicketRepository {
	return &PostgresTicketRepository{pool: pool, loc: loc}
}

const ticketSelect = `SELECT ` + ticketColumns + `, ` + ticketTypeColumns + `, ` + eventColumns + ` ` + ticketJoin

// Create inserts a new ticket
func (r *PostgresTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	query := `
		INSERT INTO tickets (id, ticket_type_id, purchaser_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := database.Conn(ctx, r.pool).Exec(ctx, query,
		ticket.ID,
		ticket.TicketTypeID,
		ticket.PurchaserID,
		ticket.Status,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	return nil
}

// CountByTicketType counts every ticket of a type; cancelled tickets keep their slot
func (r *PostgresTicketRepository) CountByTicketType(ctx context.Context, ticketTypeID uuid.UUID) (int64, error) {
	var count int64
	err := database.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM tickets WHERE ticket_type_id = $1`, ticketTypeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tickets: %w", err)
	}
	return count, nil
}

// GetByID retrieves a ticket with its type and event
func (r *PostgresTicketRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	return r.get(ctx, ticketSelect+` WHERE t.id = $1`, id)
}

// GetByIDForUpdate locks the ticket row for the rest of the caller's
// transaction so concurrent validations of one ticket serialize
func (r *PostgresTicketRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	if database.TxFromContext(ctx) == nil {
		return nil, errors.New("GetByIDForUpdate requires a transaction")
	}
	return r.get(ctx, ticketSelect+` WHERE t.id = $1 FOR UPDATE OF t`, id)
}

// GetByIDAndPurchaser retrieves a ticket only when purchaserID owns it
func (r *PostgresTicketRepository) GetByIDAndPurchaser(ctx context.Context, id, purchaserID uuid.UUID) (*domain.Ticket, error) {
	return r.get(ctx, ticketSelect+` WHERE t.id = $1 AND t.purchaser_id = $2`, id, purchaserID)
}

func (r *PostgresTicketRepository) get(ctx context.Context, query string, args ...any) (*domain.Ticket, error) {
	ticket, err := scanTicketWithType(database.Conn(ctx, r.pool).QueryRow(ctx, query, args...), r.loc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return ticket, nil
}

// listClause returns the filter predicate and ordering for a ticket listing.
// $1 is the purchaser, $2 (when used) the current time.
func listClause(filter domain.TicketFilter) (where, orderBy string, usesNow bool) {
	switch filter {
	case domain.TicketFilterActive:
		return ` AND t.status = 'PURCHASED' AND (e.end_time IS NULL OR e.end_time > $2)`,
			` ORDER BY e.start_time ASC NULLS LAST, t.created_at DESC`, true
	case domain.TicketFilterPast:
		return ` AND (t.status IN ('USED', 'EXPIRED', 'CANCELLED') OR (e.end_time IS NOT NULL AND e.end_time <= $2))`,
			` ORDER BY e.start_time DESC NULLS LAST, t.created_at DESC`, true
	default:
		return "", ` ORDER BY t.created_at DESC`, false
	}
}

// ListByPurchaser lists a page of tickets owned by a purchaser
func (r *PostgresTicketRepository) ListByPurchaser(ctx context.Context, params TicketListParams) ([]*domain.Ticket, int64, error) {
	where, orderBy, usesNow := listClause(params.Filter)
	args := []any{params.PurchaserID}
	if usesNow {
		args = append(args, params.Now)
	}

	q := database.Conn(ctx, r.pool)

	var total int64
	countQuery := `SELECT COUNT(*) ` + ticketJoin + ` WHERE t.purchaser_id = $1` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	query := fmt.Sprintf(`%s WHERE t.purchaser_id = $1%s%s LIMIT $%d OFFSET $%d`,
		ticketSelect, where, orderBy, len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	tickets := make([]*domain.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicketWithType(rows, r.loc)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate tickets: %w", err)
	}

	return tickets, total, nil
}

// TransitionStatus is a compare-and-set on the ticket status
func (r *PostgresTicketRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to domain.TicketStatus, now time.Time) (bool, error) {
	query := `UPDATE tickets SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`

	result, err := database.Conn(ctx, r.pool).Exec(ctx, query, id, from, to, now)
	if err != nil {
		return false, fmt.Errorf("failed to update ticket status: %w", err)
	}
	return result.RowsAffected() == 1, nil
}

// ExpireForEndedEvents expires PURCHASED tickets whose event ended before now.
// USED and already EXPIRED tickets are left alone, so repeated runs are no-ops.
func (r *PostgresTicketRepository) ExpireForEndedEvents(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE tickets t
		SET status = $1, updated_at = $3
		FROM ticket_types tt, events e
		WHERE tt.id = t.ticket_type_id
		  AND e.id = tt.event_id
		  AND t.status = $2
		  AND e.end_time IS NOT NULL
		  AND e.end_time < $3
	`

	result, err := database.Conn(ctx, r.pool).Exec(ctx, query,
		domain.TicketStatusExpired, domain.TicketStatusPurchased, now)
	if err != nil {
		return 0, fmt.Errorf("failed to expire tickets: %w", err)
	}
	return result.RowsAffected(), nil
}

