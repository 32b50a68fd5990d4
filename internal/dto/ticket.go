package dto

import (
	"time"

	"github.com/Yashvvvv/VenueSync/internal/domain"
)

// TicketListFilter represents query parameters for listing tickets
type TicketListFilter struct {
	Filter   string `form:"filter"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// TicketTypeSummary is the ticket type embedded in ticket responses
type TicketTypeSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

// TicketResponse represents a purchased ticket
type TicketResponse struct {
	ID           string             `json:"id"`
	Status       string             `json:"status"`
	TicketTypeID string             `json:"ticket_type_id"`
	TicketType   *TicketTypeSummary `json:"ticket_type,omitempty"`
	EventID      string             `json:"event_id,omitempty"`
	EventName    string             `json:"event_name,omitempty"`
	EventVenue   string             `json:"event_venue,omitempty"`
	EventStart   *string            `json:"event_start,omitempty"`
	EventEnd     *string            `json:"event_end,omitempty"`
	CreatedAt    string             `json:"created_at"`
	UpdatedAt    string             `json:"updated_at"`
}

// NewTicketResponse converts a domain ticket to its response DTO
func NewTicketResponse(t *domain.Ticket) *TicketResponse {
	resp := &TicketResponse{
		ID:           t.ID.String(),
		Status:       string(t.Status),
		TicketTypeID: t.TicketTypeID.String(),
		CreatedAt:    t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    t.UpdatedAt.Format(time.RFC3339),
	}

	if tt := t.TicketType; tt != nil {
		resp.TicketType = &TicketTypeSummary{
			ID:    tt.ID.String(),
			Name:  tt.Name,
			Price: tt.Price.StringFixed(2),
		}
	}
	if e := t.Event(); e != nil {
		resp.EventID = e.ID.String()
		resp.EventName = e.Name
		resp.EventVenue = e.Venue
		resp.EventStart = formatTime(e.Start)
		resp.EventEnd = formatTime(e.End)
	}
	return resp
}

// NewTicketResponses converts a page of tickets
func NewTicketResponses(tickets []*domain.Ticket) []*TicketResponse {
	out := make([]*TicketResponse, len(tickets))
	for i, t := range tickets {
		out[i] = NewTicketResponse(t)
	}
	return out
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
