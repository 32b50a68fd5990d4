package handler

import (
	"net/http"

	"github.com/Yashvvvv/VenueSync/internal/domain"
	"github.com/Yashvvvv/VenueSync/internal/dto"
	"github.com/Yashvvvv/VenueSync/internal/service"
	"github.com/Yashvvvv/VenueSync/pkg/response"
	"github.com/gin-gonic/gin"
)

// TicketHandler serves the caller's own tickets
type TicketHandler struct {
	ticketService service.TicketService
	renderer      service.CredentialRenderer
}

// NewTicketHandler creates a new TicketHandler
func NewTicketHandler(ticketService service.TicketService, renderer service.CredentialRenderer) *TicketHandler {
	return &TicketHandler{ticketService: ticketService, renderer: renderer}
}

// List handles GET /tickets?filter=&page=&page_size=
func (h *TicketHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var query dto.TicketListFilter
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	filter, err := domain.ParseTicketFilter(query.Filter)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	page, err := h.ticketService.ListTickets(c.Request.Context(), userID, filter, query.Page, query.PageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Paginated(c, dto.NewTicketResponses(page.Tickets), page.Page, page.PageSize, page.Total)
}

// Get handles GET /tickets/:id
func (h *TicketHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	ticketID, ok := pathUUID(c, "id", domain.ErrInvalidTicketID)
	if !ok {
		return
	}

	ticket, err := h.ticketService.GetTicket(c.Request.Context(), userID, ticketID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, dto.NewTicketResponse(ticket))
}

// QrCode handles GET /tickets/:id/qr-codes and returns a PNG
func (h *TicketHandler) QrCode(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	ticketID, ok := pathUUID(c, "id", domain.ErrInvalidTicketID)
	if !ok {
		return
	}

	png, err := h.renderer.RenderForUser(c.Request.Context(), userID, ticketID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}
