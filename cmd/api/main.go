package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/dukahub-api/internal/application/service"
	"github.com/sangkips/dukahub-api/internal/config"
	"github.com/sangkips/dukahub-api/internal/infrastructure/database"
	"github.com/sangkips/dukahub-api/internal/infrastructure/repository"
	"github.com/sangkips/dukahub-api/internal/infrastructure/session"
	"github.com/sangkips/dukahub-api/internal/presentation/http/handler"
	"github.com/sangkips/dukahub-api/internal/presentation/http/middleware"
	"github.com/sangkips/dukahub-api/internal/presentation/http/routes"
	"github.com/sangkips/dukahub-api/pkg/oauth"
	"github.com/sangkips/dukahub-api/pkg/utils"
	"github.com/shopspring/decimal"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Money is rendered as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Session state lives in redis when configured, in memory otherwise
	var (
		revoked session.Store = session.NewMemoryStore()
		events  session.Bus   = session.NewMemoryBus()
		closers []func() error
	)
	if cfg.Redis.Enabled() {
		client, err := session.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Printf("Warning: redis unavailable (%v), keeping sessions in memory", err)
		} else {
			revoked = session.NewRedisStore(client)
			events = session.NewRedisBus(client)
			closers = append(closers, client.Close)
			log.Println("Sessions: redis")
		}
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	businessRepo := repository.NewBusinessRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize Google OAuth provider
	google := oauth.NewGoogleProvider(oauth.Config{
		ClientID:           cfg.OAuth.GoogleClientID,
		ClientSecret:       cfg.OAuth.GoogleClientSecret,
		RedirectURL:        cfg.OAuth.GoogleRedirectURL,
		FrontendSuccessURL: cfg.OAuth.FrontendSuccessURL,
		FrontendErrorURL:   cfg.OAuth.FrontendErrorURL,
	})

	// Initialize services
	authService := service.NewAuthService(userRepo, settingsRepo, jwtManager, revoked, events, google)
	businessService := service.NewBusinessService(businessRepo, customerRepo, settingsRepo, events)
	settingsService := service.NewSettingsService(settingsRepo)
	branchService := service.NewBranchService(branchRepo)
	productService := service.NewProductService(productRepo, businessRepo, cfg.Analytics)
	customerService := service.NewCustomerService(customerRepo)
	saleService := service.NewSaleService(saleRepo, productRepo, branchRepo, customerRepo)
	dashboardService := service.NewDashboardService(saleRepo, productRepo, branchRepo, businessRepo, events, cfg.Analytics)
	reportService := service.NewReportService(saleRepo, productRepo, businessRepo, cfg.Analytics)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth: handler.NewAuthHandler(authService, handler.OAuthRedirects{
			SuccessURL: google.SuccessURL,
			ErrorURL:   google.ErrorURL,
		}),
		Session:   handler.NewSessionHandler(events),
		Settings:  handler.NewSettingsHandler(settingsService),
		Business:  handler.NewBusinessHandler(businessService),
		Branch:    handler.NewBranchHandler(branchService),
		Product:   handler.NewProductHandler(productService),
		Customer:  handler.NewCustomerHandler(customerService),
		Sale:      handler.NewSaleHandler(saleService, cfg.Analytics.Location()),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Report:    handler.NewReportHandler(reportService),
	}

	rateLimiter := middleware.NewBusinessRateLimiter(middleware.RateLimiterConfigFrom(&cfg.RateLimit))
	defer rateLimiter.Stop()

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		Revocations:     authService,
		Businesses:      businessService,
		RateLimiter:     rateLimiter,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
		log.Printf("Environment: %s", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	// Open event streams are long-lived; give in-flight requests a bounded window
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Printf("Close error: %v", err)
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
