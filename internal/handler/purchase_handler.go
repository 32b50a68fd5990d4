package handler

import (
	"github.com/Yashvvvv/VenueSync/internal/domain"
	"github.com/Yashvvvv/VenueSync/internal/dto"
	"github.com/Yashvvvv/VenueSync/internal/service"
	"github.com/Yashvvvv/VenueSync/pkg/response"
	"github.com/gin-gonic/gin"
)

// PurchaseHandler handles ticket purchase requests
type PurchaseHandler struct {
	purchaseService service.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(purchaseService service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// Purchase handles POST /ticket-types/:id/tickets
func (h *PurchaseHandler) Purchase(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	ticketTypeID, ok := pathUUID(c, "id", domain.ErrInvalidTicketTypeID)
	if !ok {
		return
	}

	ticket, err := h.purchaseService.Purchase(c.Request.Context(), userID, ticketTypeID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, dto.NewTicketResponse(ticket))
}
