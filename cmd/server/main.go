package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"portal/internal/auth"
	"portal/internal/config"
	"portal/internal/domain/repositories"
	"portal/internal/handler"
	"portal/internal/metrics"
	"portal/internal/middleware"
	"portal/internal/repository/memory"
	"portal/internal/repository/postgres"
	"portal/internal/repository/wordpress"
	serviceAuth "portal/internal/service/auth"
	serviceKB "portal/internal/service/kb"
	"portal/internal/service/kb/converter"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup structured logging
	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger) // Set as default logger

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"wordpress_url", cfg.WordPressURL,
		"session_store", cfg.SessionStore,
	)

	// Metrics registry (process and Go runtime collectors included)
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(registry)

	ctx := context.Background()

	// Session store
	var sessionStore repositories.SessionStore
	var sweeper repositories.SessionSweeper
	switch cfg.SessionStore {
	case config.SessionStorePostgres:
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()

		tables := postgres.NewTableNames(cfg.TablePrefix)
		if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to prepare session table: %v", err)
		}
		logger.Info("database connected", "sessions_table", tables.Sessions)

		store := postgres.NewSessionStore(&postgres.RepositoryConfig{
			Pool:   pool,
			Tables: tables,
			Logger: logger,
		}, cfg.SessionTTL)
		sessionStore, sweeper = store, store
	default:
		store := memory.NewSessionStore(cfg.SessionTTL)
		sessionStore, sweeper = store, store
	}

	// Lapsed sessions are dropped in the background until shutdown
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go serviceAuth.RunSessionSweeper(sweepCtx, sweeper, cfg.SessionSweep, logger)

	// Identity endpoint and token verification
	wpAuth := auth.NewWordPressClient(cfg.WordPressURL, cfg.UpstreamTimeout, m, logger)
	var verifier auth.TokenVerifier = wpAuth
	if cfg.JWKSURL != "" {
		jwksVerifier, err := auth.NewJWKSVerifier(cfg.JWKSURL, m, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		verifier = jwksVerifier
		logger.Info("verifying tokens locally", "jwks_url", cfg.JWKSURL)
	}
	defer verifier.Close()

	// Content API
	contentSource := wordpress.NewClient(cfg.WordPressURL, cfg.UpstreamTimeout, m, logger)

	// Dashboard cards
	dashboard, err := config.LoadDashboard(cfg.WordPressURL)
	if err != nil {
		log.Fatalf("Failed to load dashboard: %v", err)
	}

	// Create services
	sessionService := serviceAuth.NewSessionService(sessionStore, wpAuth, verifier, logger)
	portalService := serviceKB.NewPortalService(
		contentSource,
		converter.NewConverterRegistry(),
		serviceKB.NewContentAnalyzer(),
		m,
		logger,
	)

	// Create handlers
	views, err := handler.NewViews(cfg.SupportEmail, logger)
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}
	cookie := &middleware.SessionCookie{
		Name:   cfg.SessionCookie,
		Secure: cfg.SecureCookies,
		MaxAge: cfg.SessionTTL,
	}
	guard := middleware.NewSessionGuard(sessionService, cookie, logger)

	authHandler := handler.NewAuthHandler(sessionService, cookie, views, cfg.AdminRedirectURL, logger)
	dashboardHandler := handler.NewDashboardHandler(dashboard, views)
	termsHandler := handler.NewTermsHandler(portalService, views, logger)
	docsHandler := handler.NewDocsHandler(portalService, sessionService, views, logger)
	apiHandler := handler.NewAPIHandler(portalService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	mux.Handle("GET /login", guard.GuestOnly(cfg.AdminRedirectURL)(http.HandlerFunc(authHandler.LoginPage)))
	mux.HandleFunc("POST /login", authHandler.Login)
	mux.HandleFunc("POST /logout", authHandler.Logout)

	// Screens
	mux.Handle("GET /{$}", guard.Page(http.HandlerFunc(dashboardHandler.Dashboard)))
	mux.Handle("GET /terms", guard.Page(http.HandlerFunc(termsHandler.Terms)))
	mux.Handle("GET /docs", guard.Page(http.HandlerFunc(docsHandler.Mount)))
	mux.Handle("GET /docs/search", guard.Page(http.HandlerFunc(docsHandler.Search)))
	mux.Handle("GET /docs/categories/{id}", guard.Page(http.HandlerFunc(docsHandler.CategoryClick)))
	mux.Handle("GET /docs/documents/{id}", guard.Page(http.HandlerFunc(docsHandler.DocumentClick)))

	// API routes (CORS for browser clients on other origins)
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	})
	api := func(h http.HandlerFunc) http.Handler {
		return corsHandler.Handler(guard.API(h))
	}
	mux.Handle("GET /api/catalog", api(apiHandler.GetCatalog))
	mux.Handle("GET /api/search", api(apiHandler.Search))
	mux.Handle("GET /api/documents/{id}", api(apiHandler.GetDocument))
	mux.Handle("OPTIONS /api/", corsHandler.Handler(http.HandlerFunc(handler.NotFound)))

	// Catch-all: unknown routes go to login
	mux.HandleFunc("/", handler.NotFound)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: RequestLogger → Recovery → Routes
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestLogger(logger, m)(h)

	// Create HTTP server
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      2*cfg.UpstreamTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
