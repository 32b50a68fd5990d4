package repository

import (
	"fmt"
	"time"

	"github.com/Yashvvvv/VenueSync/internal/clock"
	"github.com/Yashvvvv/VenueSync/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// eventColumns selects an event aliased as e
const eventColumns = `e.id, e.name, e.venue, e.start_time, e.end_time, e.sales_start, e.sales_end,
	e.status, e.organizer_id, e.created_at, e.updated_at`

// ticketTypeColumns selects a ticket type aliased as tt; price is read as text
// to keep the exact NUMERIC value
const ticketTypeColumns = `tt.id, tt.event_id, tt.name, tt.description, tt.price::text, tt.total_available`

// ticketColumns selects a ticket aliased as t
const ticketColumns = `t.id, t.ticket_type_id, t.purchaser_id, t.status, t.created_at, t.updated_at`

// ticketJoin joins a ticket to its type and event
const ticketJoin = `FROM tickets t
	JOIN ticket_types tt ON tt.id = t.ticket_type_id
	JOIN events e ON e.id = tt.event_id`

func eventDest(e *domain.Event) []any {
	return []any{
		&e.ID, &e.Name, &e.Venue, &e.Start, &e.End, &e.SalesStart, &e.SalesEnd,
		&e.Status, &e.OrganizerID, &e.CreatedAt, &e.UpdatedAt,
	}
}

func ticketTypeDest(tt *domain.TicketType, price *string) []any {
	return []any{&tt.ID, &tt.EventID, &tt.Name, &tt.Description, price, &tt.TotalAvailable}
}

func ticketDest(t *domain.Ticket) []any {
	return []any{&t.ID, &t.TicketTypeID, &t.PurchaserID, &t.Status, &t.CreatedAt, &t.UpdatedAt}
}

// localizeEvent reads the stored wall-clock timestamps in the configured zone
func localizeEvent(e *domain.Event, loc *time.Location) {
	e.Start = clock.InZonePtr(e.Start, loc)
	e.End = clock.InZonePtr(e.End, loc)
	e.SalesStart = clock.InZonePtr(e.SalesStart, loc)
	e.SalesEnd = clock.InZonePtr(e.SalesEnd, loc)
	e.CreatedAt = clock.InZone(e.CreatedAt, loc)
	e.UpdatedAt = clock.InZone(e.UpdatedAt, loc)
}

func parsePrice(tt *domain.TicketType, price string) error {
	d, err := decimal.NewFromString(price)
	if err != nil {
		return fmt.Errorf("failed to parse price %q: %w", price, err)
	}
	tt.Price = d
	return nil
}

// scanTicketTypeWithEvent scans ticketTypeColumns followed by eventColumns
func scanTicketTypeWithEvent(row pgx.Row, loc *time.Location) (*domain.TicketType, error) {
	tt := &domain.TicketType{Event: &domain.Event{}}
	var price string

	dest := append(ticketTypeDest(tt, &price), eventDest(tt.Event)...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if err := parsePrice(tt, price); err != nil {
		return nil, err
	}
	localizeEvent(tt.Event, loc)
	return tt, nil
}

// scanTicketWithType scans ticketColumns, ticketTypeColumns and eventColumns
func scanTicketWithType(row pgx.Row, loc *time.Location) (*domain.Ticket, error) {
	t := &domain.Ticket{TicketType: &domain.TicketType{Event: &domain.Event{}}}
	var price string

	dest := ticketDest(t)
	dest = append(dest, ticketTypeDest(t.TicketType, &price)...)
	dest = append(dest, eventDest(t.TicketType.Event)...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if err := parsePrice(t.TicketType, price); err != nil {
		return nil, err
	}
	t.CreatedAt = clock.InZone(t.CreatedAt, loc)
	t.UpdatedAt = clock.InZone(t.UpdatedAt, loc)
	localizeEvent(t.TicketType.Event, loc)
	return t, nil
}
