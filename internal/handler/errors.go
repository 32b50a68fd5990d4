package handler

import (
	"errors"
	"net/http"

	"github.com/Yashvvvv/VenueSync/internal/domain"
	"github.com/Yashvvvv/VenueSync/pkg/middleware"
	"github.com/Yashvvvv/VenueSync/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// handleServiceError maps domain errors to HTTP responses
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrSalesNotStarted):
		response.Conflict(c, "SALES_NOT_STARTED", "Ticket sales have not started yet")
	case errors.Is(err, domain.ErrSalesEnded):
		response.Conflict(c, "SALES_ENDED", "Ticket sales have ended")
	case errors.Is(err, domain.ErrEventEnded):
		response.Conflict(c, "EVENT_ENDED", "The event has already ended")
	case errors.Is(err, domain.ErrSoldOut):
		response.Conflict(c, "SOLD_OUT", "Ticket type is sold out")
	case errors.Is(err, domain.ErrUserNotFound):
		response.NotFound(c, "User not found")
	case errors.Is(err, domain.ErrTicketTypeNotFound):
		response.NotFound(c, "Ticket type not found")
	case errors.Is(err, domain.ErrTicketNotFound):
		response.NotFound(c, "Ticket not found")
	case errors.Is(err, domain.ErrQrCodeNotFound):
		response.NotFound(c, "QR code not found")
	case domain.IsConflictError(err):
		response.Conflict(c, "CONFLICT", err.Error())
	case domain.IsNotFoundError(err):
		response.NotFound(c, err.Error())
	case domain.IsValidationError(err):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), "")
	default:
		response.InternalError(c, err)
	}
}

// currentUserID returns the authenticated caller, writing 401 when missing
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw := middleware.GetUserID(c)
	if raw == "" {
		response.Unauthorized(c, "Authentication required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.Unauthorized(c, "Invalid user identity")
		return uuid.Nil, false
	}
	return id, true
}

// pathUUID parses a path parameter, writing 400 on failure
func pathUUID(c *gin.Context, name string, invalid error) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, invalid.Error())
		return uuid.Nil, false
	}
	return id, true
}
