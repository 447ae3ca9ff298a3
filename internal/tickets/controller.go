package tickets

import (
	"net/http"
	"strconv"

	"ticketcore/internal/shared/apperrors"
	"ticketcore/internal/shared/middleware"
	"ticketcore/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller interface {
	Mint(c *gin.Context)
	GetTicket(c *gin.Context)
	GetMyTickets(c *gin.Context)
	GetEventTickets(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) Mint(c *gin.Context) {
	buyer, ok := middleware.CallerID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	eventID, err := strconv.ParseUint(c.Param("eventId"), 10, 64)
	if err != nil || eventID == 0 {
		response.RespondError(c, apperrors.Validation("invalid event id"))
		return
	}

	var req MintTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	resp, err := ctrl.service.Mint(c.Request.Context(), eventID, buyer, req)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Ticket minted successfully", resp, nil)
}

func (ctrl *controller) GetTicket(c *gin.Context) {
	tokenID, err := strconv.ParseUint(c.Param("tokenId"), 10, 64)
	if err != nil || tokenID == 0 {
		response.RespondError(c, apperrors.Validation("invalid token id"))
		return
	}

	resp, err := ctrl.service.GetTicket(c.Request.Context(), tokenID)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Ticket retrieved successfully", resp, nil)
}

func (ctrl *controller) GetEventTickets(c *gin.Context) {
	caller, ok := middleware.CallerID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	eventID, err := strconv.ParseUint(c.Param("eventId"), 10, 64)
	if err != nil || eventID == 0 {
		response.RespondError(c, apperrors.Validation("invalid event id"))
		return
	}

	resp, err := ctrl.service.GetEventTickets(c.Request.Context(), eventID, caller)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event tickets retrieved successfully", resp, nil)
}

func (ctrl *controller) GetMyTickets(c *gin.Context) {
	owner, ok := middleware.CallerID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	resp, err := ctrl.service.GetUserTickets(c.Request.Context(), owner)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Tickets retrieved successfully", resp, nil)
}
