package handler

import (
	"github.com/Yashvvvv/VenueSync/internal/domain"
	"github.com/Yashvvvv/VenueSync/internal/dto"
	"github.com/Yashvvvv/VenueSync/internal/service"
	"github.com/Yashvvvv/VenueSync/pkg/response"
	"github.com/gin-gonic/gin"
)

// ValidationHandler handles gate validation requests
type ValidationHandler struct {
	validationService service.ValidationService
}

// NewValidationHandler creates a new ValidationHandler
func NewValidationHandler(validationService service.ValidationService) *ValidationHandler {
	return &ValidationHandler{validationService: validationService}
}

// Validate handles POST /ticket-validations.
// Unresolvable ids answer 200 with status INVALID.
func (h *ValidationHandler) Validate(c *gin.Context) {
	var req dto.TicketValidationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	v, err := h.validationService.Validate(c.Request.Context(), req.ID, domain.ParseValidationMethod(req.Method))
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.Success(c, dto.NewTicketValidationResponse(v))
}
