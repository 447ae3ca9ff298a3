package refunds

import (
	"ticketcore/internal/shared/config"
	"ticketcore/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRefundRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	// Buyer side: request and claim, scoped to the owned ticket
	buyerRoutes := router.Group("/events/:eventId/tickets/:tokenId")
	buyerRoutes.Use(middleware.JWTAuthWithConfig(cfg))
	{
		buyerRoutes.POST("/refund-request", controller.RequestRefund) // POST /api/v1/events/:eventId/tickets/:tokenId/refund-request
		buyerRoutes.POST("/refund-claim", controller.ClaimRefund)     // POST /api/v1/events/:eventId/tickets/:tokenId/refund-claim
	}

	// Organizer side: the approval queue and the reconciliation batch
	requestRoutes := router.Group("/refund-requests")
	requestRoutes.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireOrganizer())
	{
		requestRoutes.POST("/:requestId/approve", controller.ApproveRefund) // POST /api/v1/refund-requests/:requestId/approve
		requestRoutes.POST("/:requestId/reject", controller.RejectRefund)   // POST /api/v1/refund-requests/:requestId/reject
	}

	organizerRoutes := router.Group("/events/:eventId")
	organizerRoutes.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireOrganizer())
	{
		organizerRoutes.GET("/refund-requests", controller.ListRefundRequests) // GET /api/v1/events/:eventId/refund-requests
		organizerRoutes.POST("/refunds/reconcile", controller.Reconcile)       // POST /api/v1/events/:eventId/refunds/reconcile
	}
}
