package main

import (
	"fmt"
	"log"
	"net/http"

	"reviewback/internal/api"
	"reviewback/internal/api/handlers"
	"reviewback/internal/api/middleware"
	"reviewback/internal/engine/campaigns"
	"reviewback/internal/engine/company"
	"reviewback/internal/engine/directory"
	"reviewback/internal/engine/orders"
	"reviewback/internal/gateway/convomat"
	"reviewback/internal/pkg/logger"
	"reviewback/internal/pkg/notify"
	"reviewback/internal/platform/auth"
	"reviewback/internal/platform/config"
	"reviewback/internal/platform/database"
	"reviewback/internal/platform/repositories"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Repositories
	companyRepo := repositories.NewCompanyRepository(db)
	userRepo := repositories.NewUserRepository(db)
	questionRepo := repositories.NewQuestionRepository(db)
	orderRepo := orders.NewRepository(db)

	// External gateway
	gateway := convomat.NewClient(cfg.Convomat)

	// Services
	tokenSvc := auth.NewTokenService(cfg.JWT)
	notifier := notify.NewSMTPNotifier(cfg.Email.SMTP)
	campaignSvc := campaigns.NewService(gateway, campaigns.NewCache(cfg.Cache.CampaignTTL))
	orderSvc := orders.NewService(orderRepo, userRepo, companyRepo, gateway)
	directorySvc := directory.NewService(userRepo, companyRepo, questionRepo, orderRepo, gateway, notifier)
	companySvc := company.NewService(companyRepo, questionRepo, userRepo, notifier)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, tokenSvc)
	companyHandler := handlers.NewCompanyHandler(companySvc, cfg.Mail)
	campaignHandler := handlers.NewCampaignHandler(campaignSvc, orderSvc)
	orderHandler := handlers.NewOrderHandler(orderSvc)
	userHandler := handlers.NewUserHandler(directorySvc)
	adminHandler := handlers.NewAdminHandler(directorySvc)
	healthHandler := handlers.NewHealthHandler(db)
	metricsHandler := handlers.NewMetricsHandler()

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenSvc)
	tenantMiddleware := middleware.NewTenantMiddleware(companyRepo)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit)

	deps := &api.Dependencies{
		AuthHandler:      authHandler,
		CompanyHandler:   companyHandler,
		CampaignHandler:  campaignHandler,
		OrderHandler:     orderHandler,
		UserHandler:      userHandler,
		AdminHandler:     adminHandler,
		HealthHandler:    healthHandler,
		MetricsHandler:   metricsHandler,
		AuthMiddleware:   authMiddleware,
		TenantMiddleware: tenantMiddleware,
		RateLimiter:      rateLimiter,
	}
	router := api.NewRouter(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Printf("Server starting on %s", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
