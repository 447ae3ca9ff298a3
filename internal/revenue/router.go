package revenue

import (
	"ticketcore/internal/shared/config"
	"ticketcore/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRevenueRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	revenueRoutes := router.Group("/events/:eventId")
	revenueRoutes.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireOrganizer())
	{
		revenueRoutes.GET("/revenue", controller.GetRevenue) // GET /api/v1/events/:eventId/revenue
		revenueRoutes.POST("/withdraw", controller.Withdraw) // POST /api/v1/events/:eventId/withdraw
	}
}
