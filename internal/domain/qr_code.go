package domain

import (
	"time"

	"github.com/google/uuid"
)

// QrCodeStatus represents the status of a QR credential
type QrCodeStatus string

const (
	QrCodeStatusActive  QrCodeStatus = "ACTIVE"
	QrCodeStatusRevoked QrCodeStatus = "REVOKED"
)

// QrCode is a revocable credential that resolves to a ticket when scanned
type QrCode struct {
	ID       uuid.UUID    `json:"id"`
	TicketID uuid.UUID    `json:"ticket_id"`
	// Value is the payload encoded in the image
	Value     string       `json:"value"`
	Status    QrCodeStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// NewQrCode creates an ACTIVE credential for a ticket. The encoded value is
// the credential id, which is what a scanner submits for validation.
func NewQrCode(ticketID uuid.UUID, now time.Time) *QrCode {
	id := uuid.New()
	return &QrCode{
		ID:        id,
		TicketID:  ticketID,
		Value:     id.String(),
		Status:    QrCodeStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
