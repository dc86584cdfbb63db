package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/dukahub-api/internal/config"
	domainRepo "github.com/sangkips/dukahub-api/internal/domain/repository"
	"github.com/sangkips/dukahub-api/internal/presentation/http/handler"
	"github.com/sangkips/dukahub-api/internal/presentation/http/middleware"
	"github.com/sangkips/dukahub-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Session   *handler.SessionHandler
	Settings  *handler.SettingsHandler
	Business  *handler.BusinessHandler
	Branch    *handler.BranchHandler
	Product   *handler.ProductHandler
	Customer  *handler.CustomerHandler
	Sale      *handler.SaleHandler
	Dashboard *handler.DashboardHandler
	Report    *handler.ReportHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Revocations     middleware.RevocationChecker
	Businesses      middleware.BusinessResolver
	RateLimiter     *middleware.BusinessRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": deps.Cfg.App.Name,
			"docs":    "/api/v1",
		})
	})
	router.GET("/health", health(deps))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", health(deps))

		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager, deps.Revocations))
		registerAccountRoutes(protected, h)

		// Business-scoped routes act on the caller's current business
		scoped := protected.Group("")
		scoped.Use(middleware.BusinessMiddleware(deps.Businesses))
		if deps.RateLimiter != nil {
			scoped.Use(deps.RateLimiter.Middleware())
		}
		registerScopedRoutes(scoped, h, deps)
	}

	return router
}

func health(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		}
		if deps.RateLimiter != nil {
			body["rate_limiter"] = deps.RateLimiter.Stats()
		}
		c.JSON(200, body)
	}
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleAuth)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerAccountRoutes(protected *gin.RouterGroup, h *Handlers) {
	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)
	protected.GET("/session/events", h.Session.Events)

	// Settings
	protected.GET("/settings", h.Settings.GetSettings)
	protected.PUT("/settings", h.Settings.UpdateSettings)

	// Businesses
	businesses := protected.Group("/businesses")
	{
		businesses.GET("", h.Business.List)
		businesses.POST("", h.Business.Create)
		businesses.GET("/current", h.Business.Current)
		businesses.GET("/:id", h.Business.Get)
		businesses.PUT("/:id", h.Business.Update)
		businesses.DELETE("/:id", h.Business.Delete)
		businesses.POST("/:id/switch", h.Business.Switch)
	}
}

func registerScopedRoutes(scoped *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotency := middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}

	scoped.GET("/dashboard", h.Dashboard.GetStats)

	branches := scoped.Group("/branches")
	{
		branches.GET("", h.Branch.List)
		branches.POST("", h.Branch.Create)
		branches.GET("/:id", h.Branch.Get)
		branches.PUT("/:id", h.Branch.Update)
		branches.DELETE("/:id", h.Branch.Delete)
	}

	products := scoped.Group("/products")
	products.Use(middleware.Idempotency(idempotency))
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/low-stock", h.Product.LowStock)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
	}

	customers := scoped.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
	}

	sales := scoped.Group("/sales")
	{
		sales.GET("", h.Sale.List)
		sales.POST("", middleware.IdempotencyRequired(idempotency), h.Sale.Record)
		sales.GET("/:id", h.Sale.Get)
	}

	reports := scoped.Group("/reports")
	{
		reports.GET("/sales.pdf", h.Report.SalesReport)
		reports.GET("/low-stock.pdf", h.Report.LowStockReport)
	}
}
