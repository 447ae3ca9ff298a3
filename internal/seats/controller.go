package seats

import (
	"net/http"
	"strconv"

	"ticketcore/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller interface {
	GetSeatMap(c *gin.Context)
	GetSeatStatus(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) GetSeatMap(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("eventId"), 10, 64)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	seatMap, err := ctrl.service.SeatMap(c.Request.Context(), eventID)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat map retrieved successfully", seatMap, nil)
}

func (ctrl *controller) GetSeatStatus(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("eventId"), 10, 64)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}
	seat := c.Param("seat")

	status, err := ctrl.service.IsSeatTaken(c.Request.Context(), eventID, seat)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat status retrieved successfully", status, nil)
}
