package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"store-locator-shopify-layer/internal/application"
	"store-locator-shopify-layer/internal/application/webhook_handlers"
	"store-locator-shopify-layer/internal/config"
	"store-locator-shopify-layer/internal/domain"
	apiinfra "store-locator-shopify-layer/internal/infrastructure/api"
	"store-locator-shopify-layer/internal/infrastructure/encryption"
	"store-locator-shopify-layer/internal/infrastructure/repository"
	shopifyinfra "store-locator-shopify-layer/internal/infrastructure/shopify"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"

	securitymiddleware "store-locator-shopify-layer/internal/infrastructure/middleware"
)

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}
	logger = logger.Level(cfg.Level())
	logger.Info().Str("config", cfg.String()).Msg("Configuration loaded")

	ctx := context.Background()

	// Initialize repositories
	stores, err := repository.NewStores(ctx, repository.FactoryConfig{
		StorageBackend: cfg.Storage.Backend,
		SessionBackend: cfg.Session.Backend,
		RunMigrations:  cfg.Storage.RunMigrations,
		MongoURI:       cfg.Mongo.URI,
		MongoDatabase:  cfg.Mongo.Database,
		PostgresDSN:    cfg.Postgres.DSN,
		RedisAddr:      cfg.Redis.Addr,
		RedisPassword:  cfg.Redis.Password,
		RedisDB:        cfg.Redis.DB,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer stores.Close(context.Background())

	// Initialize infrastructure (implementations)
	encryptionService, err := encryption.NewService(cfg.EncryptionKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}

	verifier := shopifyinfra.NewSessionTokenVerifier(cfg.Shopify.APIKey, cfg.Shopify.APISecret)
	exchanger := shopifyinfra.NewTokenExchanger(cfg.Shopify.APIKey, cfg.Shopify.APISecret, logger)

	// Initialize application services
	sessionService := application.NewSessionService(verifier, exchanger, stores.Sessions, encryptionService, logger)

	clientProvider := shopifyinfra.NewClientProvider(
		cfg.Shopify.APIKey,
		cfg.Shopify.APISecret,
		sessionService,
		logger,
		goshopify.WithVersion(cfg.Shopify.APIVersion),
	)

	settingsService := application.NewSettingsService(
		stores.Settings,
		clientProvider,
		domain.Defaults{AppURL: cfg.App.URL, DefaultLocatorURL: cfg.App.DefaultLocatorURL},
		logger,
	)
	storeService := application.NewStoreService(stores.Stores, logger)

	// Initialize webhook dispatcher and register handlers
	webhookDispatcher := application.NewWebhookDispatcher(logger)
	webhookDispatcher.RegisterHandler(webhook_handlers.NewAppUninstalledHandler(logger, sessionService))
	webhookDispatcher.RegisterHandler(webhook_handlers.NewShopRedactHandler(logger,
		storeService.DeleteAllForShop,
		stores.Settings.DeleteByShop,
		sessionService.Revoke,
	))
	webhookDispatcher.RegisterHandler(webhook_handlers.NewCustomerPrivacyHandler(logger))

	metrics := securitymiddleware.NewMetrics()

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(securitymiddleware.SecurityHeadersMiddleware())
	r.Use(securitymiddleware.AuditLoggingMiddleware(logger))

	// Health check - must be public for monitoring
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	// Storefront feed: sets its own open CORS headers
	apiinfra.NewPublicHandler(settingsService, storeService, logger).RegisterRoutes(r)

	// Embedded admin: App Bridge session token required
	r.Route("/admin/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			ExposedHeaders: []string{"X-Shopify-Retry-Invalid-Session-Request"},
		}))
		r.Use(securitymiddleware.EmbeddedFrameMiddleware())
		r.Use(securitymiddleware.SessionAuthMiddleware(sessionService, logger))
		apiinfra.NewAdminHandler(settingsService, storeService, logger).RegisterRoutes(r)
	})

	// Webhook endpoint
	r.Method(http.MethodPost, "/webhooks/shopify", apiinfra.NewWebhookHandler(
		shopifyinfra.NewWebhookVerifier(cfg.Shopify.APISecret),
		webhookDispatcher,
		logger,
	))

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Server.Port).Msg("Starting API server")
		logger.Info().Msg("Swagger documentation available at http://localhost:" + cfg.Server.Port + "/swagger/index.html")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	waitForShutdown(logger, server)
}

func waitForShutdown(logger zerolog.Logger, server *http.Server) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info().Msg("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
	}
	logger.Info().Msg("Shutdown complete")
}
