package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// EventStatus represents the status of an event
type EventStatus string

const (
	EventStatusDraft     EventStatus = "DRAFT"
	EventStatusPublished EventStatus = "PUBLISHED"
	EventStatusCompleted EventStatus = "COMPLETED"
	EventStatusCancelled EventStatus = "CANCELLED"
)

func (s EventStatus) String() string {
	return string(s)
}

// Event is a scheduled happening that ticket types are sold for.
// All times are wall-clock values in the configured zone; nil means unset.
type Event struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Venue       string      `json:"venue"`
	Start       *time.Time  `json:"start_time,omitempty"`
	End         *time.Time  `json:"end_time,omitempty"`
	SalesStart  *time.Time  `json:"sales_start,omitempty"`
	SalesEnd    *time.Time  `json:"sales_end,omitempty"`
	Status      EventStatus `json:"status"`
	OrganizerID *uuid.UUID  `json:"organizer_id,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// HasEnded reports whether the event end lies strictly before now
func (e *Event) HasEnded(now time.Time) bool {
	return e.End != nil && now.After(*e.End)
}

// Validate reports inconsistent time ranges. Nothing in the purchase or
// validation paths calls it; rows are provisioned outside this service.
func (e *Event) Validate() error {
	var errs []error
	if e.SalesStart != nil && e.SalesEnd != nil && e.SalesStart.After(*e.SalesEnd) {
		errs = append(errs, ErrInvalidSalesWindow)
	}
	if e.Start != nil && e.End != nil && e.End.Before(*e.Start) {
		errs = append(errs, ErrInvalidEventTimes)
	}
	return errors.Join(errs...)
}
