package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Lookup errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEventNotFound      = errors.New("event not found")
	ErrTicketTypeNotFound = errors.New("ticket type not found")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrQrCodeNotFound     = errors.New("qr code not found")

	// ErrSalesWindow is the family of sale window violations
	ErrSalesWindow     = errors.New("outside sales window")
	ErrSalesNotStarted = fmt.Errorf("%w: ticket sales have not started yet", ErrSalesWindow)
	ErrSalesEnded      = fmt.Errorf("%w: ticket sales have ended", ErrSalesWindow)
	ErrEventEnded      = fmt.Errorf("%w: event has already ended", ErrSalesWindow)

	// Inventory errors
	ErrSoldOut = errors.New("ticket type is sold out")

	// Input errors
	ErrInvalidUserID       = errors.New("invalid user id")
	ErrInvalidTicketID     = errors.New("invalid ticket id")
	ErrInvalidTicketTypeID = errors.New("invalid ticket type id")
	ErrInvalidTicketFilter = errors.New("invalid ticket filter")
	ErrInvalidSalesWindow  = errors.New("sales start is after sales end")
	ErrInvalidEventTimes   = errors.New("event end is before event start")

	// State errors
	ErrInvalidStatusTransition = errors.New("invalid ticket status transition")
	ErrAlreadyAdmitted         = errors.New("ticket already has a VALID validation")
)

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrTicketTypeNotFound) ||
		errors.Is(err, ErrTicketNotFound) ||
		errors.Is(err, ErrQrCodeNotFound)
}

// IsSalesWindowError checks if the error is any sale window violation
func IsSalesWindowError(err error) bool {
	return errors.Is(err, ErrSalesWindow)
}

// IsValidationError checks if the error is an input validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidUserID) ||
		errors.Is(err, ErrInvalidTicketID) ||
		errors.Is(err, ErrInvalidTicketTypeID) ||
		errors.Is(err, ErrInvalidTicketFilter)
}

// IsConflictError checks if the error rejects a purchase on business rules
func IsConflictError(err error) bool {
	return IsSalesWindowError(err) ||
		errors.Is(err, ErrSoldOut) ||
		errors.Is(err, ErrInvalidStatusTransition)
}
