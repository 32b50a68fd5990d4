package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TicketType is a purchasable category of ticket for one event
type TicketType struct {
	ID          uuid.UUID       `json:"id"`
	EventID     uuid.UUID       `json:"event_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	// TotalAvailable is the capacity; nil means unlimited
	TotalAvailable *int `json:"total_available,omitempty"`

	Event *Event `json:"event,omitempty"`
}

// IsUnlimited reports whether the type has no capacity limit
func (t *TicketType) IsUnlimited() bool {
	return t.TotalAvailable == nil
}

// HasCapacityFor reports whether one more ticket fits after issued tickets
func (t *TicketType) HasCapacityFor(issued int64) bool {
	if t.IsUnlimited() {
		return true
	}
	return issued+1 <= int64(*t.TotalAvailable)
}
