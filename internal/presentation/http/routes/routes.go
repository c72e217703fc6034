package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/lotus-pos/internal/config"
	domainRepo "github.com/sangkips/lotus-pos/internal/domain/repository"
	"github.com/sangkips/lotus-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/lotus-pos/internal/presentation/http/handler"
	"github.com/sangkips/lotus-pos/internal/presentation/http/middleware"
	"github.com/sangkips/lotus-pos/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Order   *handler.OrderHandler
	Invoice *handler.InvoiceHandler
	Catalog *handler.CatalogHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.RateLimiter
}

// NewRateLimiter builds the per-employee limiter from the rate limit config.
// The caller owns it and must Stop it on shutdown.
func NewRateLimiter(cfg config.RateLimitConfig) *middleware.RateLimiter {
	if cfg.Requests <= 0 || cfg.Duration <= 0 {
		return middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	}
	return middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: float64(cfg.Requests) / float64(cfg.Duration),
		BurstSize:         cfg.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(deps.JWTManager))
	if deps.RateLimiter != nil {
		v1.Use(deps.RateLimiter.Middleware())
	}

	registerOrderRoutes(v1, h)
	registerInvoiceRoutes(v1, h, deps)
	registerCatalogRoutes(v1, h)

	router.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Route not found")
	})

	return router
}

func registerOrderRoutes(rg *gin.RouterGroup, h *Handlers) {
	orders := rg.Group("/orders")
	{
		orders.GET("", h.Order.List)
		orders.POST("", h.Order.Create)
		orders.GET("/:id", h.Order.Get)
		orders.PUT("/:id", h.Order.Update)
		orders.PUT("/:id/items/:food_item_id", h.Order.UpdateItemQuantity)
		orders.PUT("/:id/status", h.Order.UpdateStatus)
		orders.POST("/:id/cancel", middleware.RequireRole("manager", "admin"), h.Order.Cancel)
	}
}

func registerInvoiceRoutes(rg *gin.RouterGroup, h *Handlers, deps *Deps) {
	invoices := rg.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.POST("", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Invoice.Create)
	}
}

func registerCatalogRoutes(rg *gin.RouterGroup, h *Handlers) {
	catalog := rg.Group("/catalog")
	{
		catalog.GET("/food-items", h.Catalog.ListFoodItems)
		catalog.GET("/buffet-packages", h.Catalog.ListBuffetPackages)
	}
	rg.GET("/tables", h.Catalog.ListTables)
}
