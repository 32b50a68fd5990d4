package dto

import "github.com/Yashvvvv/VenueSync/internal/domain"

// TicketValidationRequest is the body of POST /ticket-validations.
// ID is a QR code id for QR_SCAN and a ticket id for MANUAL.
type TicketValidationRequest struct {
	ID     string `json:"id"`
	Method string `json:"method"`
}

// TicketValidationResponse reports the outcome of one validation attempt
type TicketValidationResponse struct {
	TicketID *string `json:"ticket_id"`
	Status   string  `json:"status"`
}

// NewTicketValidationResponse converts a validation record
func NewTicketValidationResponse(v *domain.TicketValidation) *TicketValidationResponse {
	resp := &TicketValidationResponse{Status: string(v.Status)}
	if v.TicketID != nil {
		id := v.TicketID.String()
		resp.TicketID = &id
	}
	return resp
}
