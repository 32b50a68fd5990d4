package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ValidationMethod is how a ticket was presented at the gate
type ValidationMethod string

const (
	ValidationMethodQRScan ValidationMethod = "QR_SCAN"
	ValidationMethodManual ValidationMethod = "MANUAL"
)

// ParseValidationMethod maps MANUAL (any case) to manual validation and
// everything else to QR scanning.
func ParseValidationMethod(s string) ValidationMethod {
	if strings.EqualFold(strings.TrimSpace(s), string(ValidationMethodManual)) {
		return ValidationMethodManual
	}
	return ValidationMethodQRScan
}

// ValidationStatus is the outcome of one admission attempt
type ValidationStatus string

const (
	ValidationStatusValid       ValidationStatus = "VALID"
	ValidationStatusAlreadyUsed ValidationStatus = "ALREADY_USED"
	ValidationStatusExpired     ValidationStatus = "EXPIRED"
	ValidationStatusInvalid     ValidationStatus = "INVALID"
)

func (s ValidationStatus) String() string {
	return string(s)
}

// TicketValidation is an append-only audit record of one admission attempt.
// TicketID is nil when the presented id did not resolve to a ticket.
type TicketValidation struct {
	ID          uuid.UUID        `json:"id"`
	TicketID    *uuid.UUID       `json:"ticket_id,omitempty"`
	Method      ValidationMethod `json:"validation_method"`
	Status      ValidationStatus `json:"status"`
	ValidatedAt time.Time        `json:"validated_at"`
}

// NewTicketValidation builds a validation record for the ticket (or nil)
func NewTicketValidation(ticketID *uuid.UUID, method ValidationMethod, status ValidationStatus, now time.Time) *TicketValidation {
	return &TicketValidation{
		ID:          uuid.New(),
		TicketID:    ticketID,
		Method:      method,
		Status:      status,
		ValidatedAt: now,
	}
}
