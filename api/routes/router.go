package routes

import (
	"net/http"
	"time"

	"ticketcore/internal/auth"
	"ticketcore/internal/events"
	"ticketcore/internal/notifications"
	"ticketcore/internal/payments"
	"ticketcore/internal/refunds"
	"ticketcore/internal/revenue"
	"ticketcore/internal/seats"
	"ticketcore/internal/shared/config"
	"ticketcore/internal/shared/database"
	"ticketcore/internal/tickets"
	"ticketcore/pkg/cache"
	"ticketcore/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	log      *logger.Logger
	gate     *seats.AtomicSeatGate
	gateway  payments.Gateway
	notifier notifications.Notifier

	cacheService cache.Service
	eventService events.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, log *logger.Logger, gate *seats.AtomicSeatGate, gateway payments.Gateway, notifier notifications.Notifier) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		log:      log,
		gate:     gate,
		gateway:  gateway,
		notifier: notifier,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	registerCustomValidators()

	if r.db.GetRedis() != nil {
		r.cacheService = cache.NewService(r.db.GetRedis())
	}

	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)

		// Events first: the other groups hang off the event service
		r.setupEventRoutes(api)
		r.setupSeatRoutes(api)
		r.setupTicketRoutes(api)
		r.setupRefundRoutes(api)
		r.setupRevenueRoutes(api)
	}
}

// registerCustomValidators wires the date and time-of-day formats into the
// gin binding validator.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterValidation("eventdate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("eventtime", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("15:04", fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("seatid", func(fl validator.FieldLevel) bool {
		return seats.WellFormed(fl.Field().String())
	})
}

func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "ticketcore",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "ticketcore",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)

	auth.SetupAuthRoutes(rg, authController)
}

func (r *Router) setupEventRoutes(rg *gin.RouterGroup) {
	eventRepo := events.NewRepository(r.db.GetPostgreSQL())
	eventService := events.NewService(eventRepo, r.log, r.config.Redis.EventDetailTTL, r.config.Redis.EventListTTL)

	if r.cacheService != nil {
		eventService.SetCacheService(r.cacheService)
	}
	eventService.SetNotifier(r.notifier)

	// Stashed so refunds can inject the auto-refund processor later and
	// the seat allocator can resolve capacities
	r.eventService = eventService

	eventController := events.NewController(eventService)
	events.SetupEventRoutes(rg, eventController, r.config)
}

func (r *Router) setupSeatRoutes(rg *gin.RouterGroup) {
	seatRepo := seats.NewRepository(r.db.GetPostgreSQL())
	seatService := seats.NewService(seatRepo, r.eventService, r.config.Redis.SeatMapTTL)

	if r.cacheService != nil {
		seatService.SetCacheService(r.cacheService)
	}

	seatController := seats.NewController(seatService)
	seats.SetupSeatRoutes(rg, seatController)
}

func (r *Router) setupTicketRoutes(rg *gin.RouterGroup) {
	ticketRepo := tickets.NewRepository(r.db.GetPostgreSQL())
	ticketService := tickets.NewService(ticketRepo, r.gate, r.log)

	if r.cacheService != nil {
		ticketService.SetCacheService(r.cacheService)
	}
	ticketService.SetNotifier(r.notifier)

	ticketController := tickets.NewController(ticketService)
	tickets.SetupTicketRoutes(rg, ticketController, r.config)
}

func (r *Router) setupRefundRoutes(rg *gin.RouterGroup) {
	refundRepo := refunds.NewRepository(r.db.GetPostgreSQL())
	refundService := refunds.NewService(refundRepo, r.gateway, r.log)
	refundService.SetNotifier(r.notifier)

	// Close the cancel -> bulk refund loop
	r.eventService.SetRefundProcessor(refundService)

	refundController := refunds.NewController(refundService)
	refunds.SetupRefundRoutes(rg, refundController, r.config)
}

func (r *Router) setupRevenueRoutes(rg *gin.RouterGroup) {
	revenueRepo := revenue.NewRepository(r.db.GetPostgreSQL())
	revenueService := revenue.NewService(revenueRepo, r.gateway, r.log)

	revenueController := revenue.NewController(revenueService)
	revenue.SetupRevenueRoutes(rg, revenueController, r.config)
}
