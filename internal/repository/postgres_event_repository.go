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

// PostgresEventRepository implements EventRepository using PostgreSQL
type PostgresEventRepository struct {
	pool *pgxpool.Pool
	loc  *time.Location
}

// NewPostgresEventRepository creates a new PostgresEventRepository.
// loc is the zone stored event timestamps are interpreted in.
func NewPostgresEventRepository(pool *pgxpool.Pool, loc *time.Location) *PostgresEventRepository {
	return &PostgresEventRepository{pool: pool, loc: loc}
}

// GetByID retrieves an event by ID
func (r *PostgresEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e WHERE e.id = $1`

	event := &domain.Event{}
	err := database.Conn(ctx, r.pool).QueryRow(ctx, query, id).Scan(eventDest(event)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	localizeEvent(event, r.loc)
	return event, nil
}

// CompleteEndedEvents marks every PUBLISHED event whose end lies before now as COMPLETED
func (r *PostgresEventRepository) CompleteEndedEvents(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE events
		SET status = $1, updated_at = $3
		WHERE status = $2
		  AND end_time IS NOT NULL
		  AND end_time < $3
	`

	result, err := database.Conn(ctx, r.pool).Exec(ctx, query,
		domain.EventStatusCompleted, domain.EventStatusPublished, now)
	if err != nil {
		return 0, fmt.Errorf("failed to complete ended events: %w", err)
	}
	return result.RowsAffected(), nil
}
