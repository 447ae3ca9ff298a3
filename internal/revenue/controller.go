package revenue

import (
	"net/http"
	"strconv"

	"ticketcore/internal/shared/apperrors"
	"ticketcore/internal/shared/middleware"
	"ticketcore/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller interface {
	GetRevenue(c *gin.Context)
	Withdraw(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) GetRevenue(c *gin.Context) {
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

	resp, err := ctrl.service.GetLedger(c.Request.Context(), eventID, caller)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Revenue retrieved successfully", resp, nil)
}

func (ctrl *controller) Withdraw(c *gin.Context) {
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

	resp, err := ctrl.service.Withdraw(c.Request.Context(), eventID, caller)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Withdrawal completed successfully", resp, nil)
}
