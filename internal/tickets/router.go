package tickets

import (
	"ticketcore/internal/shared/config"
	"ticketcore/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupTicketRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	// Minting lives under the event it sells for
	mintRoutes := router.Group("/events/:eventId/tickets")
	mintRoutes.Use(middleware.JWTAuthWithConfig(cfg))
	{
		mintRoutes.POST("", controller.Mint) // POST /api/v1/events/:eventId/tickets
	}

	organizerRoutes := router.Group("/events/:eventId/tickets")
	organizerRoutes.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireOrganizer())
	{
		organizerRoutes.GET("", controller.GetEventTickets) // GET /api/v1/events/:eventId/tickets
	}

	ticketRoutes := router.Group("/tickets")
	{
		ticketRoutes.GET("/:tokenId", controller.GetTicket) // GET /api/v1/tickets/:tokenId
	}

	userRoutes := router.Group("/users/me")
	userRoutes.Use(middleware.JWTAuthWithConfig(cfg))
	{
		userRoutes.GET("/tickets", controller.GetMyTickets) // GET /api/v1/users/me/tickets
	}
}
