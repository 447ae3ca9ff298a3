package events

import (
	"net/http"
	"strconv"

	"ticketcore/internal/shared/apperrors"
	"ticketcore/internal/shared/middleware"
	"ticketcore/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller interface {
	CreateEvent(c *gin.Context)
	GetEvent(c *gin.Context)
	ListEvents(c *gin.Context)
	CancelEvent(c *gin.Context)
	UpdateStatus(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

// ParseEventID extracts the numeric event id from the route. Shared with the
// other controllers mounted under /events/:eventId.
func ParseEventID(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("eventId"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("invalid event id")
	}
	return id, nil
}

func (ctrl *controller) CreateEvent(c *gin.Context) {
	caller, ok := middleware.CallerID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	resp, err := ctrl.service.CreateEvent(c.Request.Context(), caller, req)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Event created successfully", resp, nil)
}

func (ctrl *controller) GetEvent(c *gin.Context) {
	id, err := ParseEventID(c)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	resp, err := ctrl.service.GetEventByID(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event retrieved successfully", resp, nil)
}

func (ctrl *controller) ListEvents(c *gin.Context) {
	var query EventListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	resp, err := ctrl.service.GetAllEvents(c.Request.Context(), query)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Events retrieved successfully", resp, nil)
}

func (ctrl *controller) CancelEvent(c *gin.Context) {
	caller, ok := middleware.CallerID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	id, err := ParseEventID(c)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	var req CancelEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	resp, err := ctrl.service.CancelEvent(c.Request.Context(), id, caller, req)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event cancelled successfully", resp, nil)
}

func (ctrl *controller) UpdateStatus(c *gin.Context) {
	caller, ok := middleware.CallerID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	id, err := ParseEventID(c)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	resp, err := ctrl.service.UpdateEventStatus(c.Request.Context(), id, caller, req)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event status updated successfully", resp, nil)
}
