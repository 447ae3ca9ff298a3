package events

import (
	"ticketcore/internal/shared/config"
	"ticketcore/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupEventRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	// Public routes - anyone can browse events
	publicEvents := router.Group("/events")
	{
		publicEvents.GET("", controller.ListEvents)         // GET /api/v1/events
		publicEvents.GET("/:eventId", controller.GetEvent)  // GET /api/v1/events/:eventId
	}

	// Organizer routes - creating and managing the event lifecycle
	organizerEvents := router.Group("/events")
	organizerEvents.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireOrganizer())
	{
		organizerEvents.POST("", controller.CreateEvent)                   // POST /api/v1/events
		organizerEvents.POST("/:eventId/cancel", controller.CancelEvent)   // POST /api/v1/events/:eventId/cancel
		organizerEvents.PATCH("/:eventId/status", controller.UpdateStatus) // PATCH /api/v1/events/:eventId/status
	}
}
