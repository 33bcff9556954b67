// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"stagedoor/internal/payments"
	"stagedoor/internal/reservations"
	"stagedoor/internal/shared/config"
	"stagedoor/internal/shared/database"
	"stagedoor/internal/shared/middleware"
	"stagedoor/internal/shared/session"
	"stagedoor/internal/shows"
	"stagedoor/internal/tickets"
	"stagedoor/internal/venues"
	"stagedoor/internal/vouchers"
	"stagedoor/pkg/cache"
	"stagedoor/pkg/ratelimit"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	gateway  payments.Gateway
	notifier payments.Notifier
}

// NewRouter creates a new router instance. The payment gateway and the
// notifier are built in main since their lifecycles (API keys, Kafka
// connections) belong to the composition root.
func NewRouter(cfg *config.Config, db *database.DB, gateway payments.Gateway, notifier payments.Notifier) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		gateway:  gateway,
		notifier: notifier,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	// Shared infrastructure
	cacheService := cache.NewService(r.db.GetRedisClient())
	sessionStore := session.NewRedisStore(cacheService, r.config.Redis.SessionTTL)
	rateLimiter := ratelimit.NewRateLimiter(r.db.GetRedisClient(), &ratelimit.Config{
		Enabled:         r.config.RateLimit.Enabled,
		WindowDuration:  r.config.RateLimit.WindowDuration,
		DefaultRequests: r.config.RateLimit.DefaultRequests,
		PublicRequests:  r.config.RateLimit.PublicRequests,
		BookingRequests: r.config.RateLimit.BookingRequests,
		AdminRequests:   r.config.RateLimit.AdminRequests,
		WhitelistedIPs:  r.config.RateLimit.WhitelistedIPs,
	})

	// Repositories
	gormDB := r.db.GetPostgreSQL()
	venueRepo := venues.NewRepository(gormDB)
	showRepo := shows.NewRepository(gormDB)
	ticketRepo := tickets.NewRepository(gormDB)
	reservationRepo := reservations.NewRepository(gormDB)
	voucherRepo := vouchers.NewRepository(gormDB)
	paymentRepo := payments.NewRepository(gormDB)

	// Services. The voucher service doubles as the reservation service's
	// discount lookup, and the payment service as the voucher service's
	// intent syncer; both indirections break what would otherwise be
	// package cycles.
	venueService := venues.NewService(venueRepo)
	venueService.SetCacheService(cacheService)
	showService := shows.NewService(showRepo, ticketRepo)
	showService.SetCacheService(cacheService)
	availability := reservations.NewAvailabilityService(reservationRepo, ticketRepo, venueRepo)

	voucherService := vouchers.NewService(voucherRepo, r.config.Voucher)
	reservationService := reservations.NewService(
		reservationRepo, availability, venueService, ticketRepo,
		voucherService, r.config.Reservation.SessionTimeout,
	)
	paymentService := payments.NewService(
		paymentRepo, reservationService, venueService,
		r.gateway, r.notifier, r.config.Stripe,
	)
	voucherService.SetIntentSyncer(paymentService)

	// Controllers
	showController := shows.NewController(showService)
	venueController := venues.NewController(venueService)
	ticketController := tickets.NewController(ticketRepo)
	reservationController := reservations.NewController(reservationService, showService)
	voucherController := vouchers.NewController(voucherService, showService, reservationService)
	paymentController := payments.NewController(
		paymentService, r.gateway, showService, reservationService, r.config.Stripe,
	)

	api := engine.Group(r.config.GetAPIBasePath())
	api.Use(ratelimit.Middleware(rateLimiter))

	// Webhooks carry no browser session.
	payments.RegisterWebhookRoutes(api, paymentController)

	public := api.Group("")
	public.Use(session.Middleware(sessionStore))
	{
		shows.RegisterRoutes(public, showController)
		tickets.RegisterRoutes(public, ticketController)
		reservations.RegisterRoutes(public, reservationController)
		vouchers.RegisterRoutes(public, voucherController)
		payments.RegisterRoutes(public, paymentController)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.JWTAuth(r.config), middleware.RequireAdmin())
	{
		shows.RegisterAdminRoutes(admin, showController)
		venues.RegisterAdminRoutes(admin, venueController)
		vouchers.RegisterAdminRoutes(admin, voucherController)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "stagedoor",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "stagedoor",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}
