package seats

import (
	"github.com/gin-gonic/gin"
)

func SetupSeatRoutes(router *gin.RouterGroup, controller Controller) {
	// Public routes - seat maps are part of event browsing
	seatRoutes := router.Group("/events/:eventId/seats")
	{
		seatRoutes.GET("", controller.GetSeatMap)          // GET /api/v1/events/:eventId/seats
		seatRoutes.GET("/:seat", controller.GetSeatStatus) // GET /api/v1/events/:eventId/seats/:seat
	}
}
