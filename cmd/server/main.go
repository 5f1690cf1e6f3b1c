package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"pagalpdf/internal/auth"
	"pagalpdf/internal/config"
	"pagalpdf/internal/convert"
	"pagalpdf/internal/handler"
	"pagalpdf/internal/middleware"
	"pagalpdf/internal/pyexec"
	"pagalpdf/internal/repository/postgres"
	"pagalpdf/internal/runtimes"
	"pagalpdf/internal/scripts"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

const version = "1.2.0"

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"max_concurrent", cfg.MaxConcurrent,
	)

	// JWT verification is optional; without a JWKS URL the API is open.
	var jwtVerifier auth.JWTVerifier
	if cfg.JWKSURL != "" {
		var err error
		jwtVerifier, err = auth.NewJWTVerifier(cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer jwtVerifier.Close()
	}

	// The database is optional too: it backs the audit log and the contact
	// form, never the conversion pipeline.
	ctx := context.Background()
	var jobs convert.JobRecorder
	var failureStore handler.FailureStore
	var contactStore handler.ContactStore
	if cfg.DatabaseURL != "" {
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: postgres.NewTableNames(cfg.Environment + "_"),
			Logger: logger,
		}
		jobRepo := postgres.NewJobRepository(repoConfig)
		jobs = jobRepo
		failureStore = jobRepo
		contactStore = postgres.NewContactRepository(repoConfig)
		logger.Info("database connected")
	}

	// Conversion pipeline
	catalog, err := convert.LoadCatalog()
	if err != nil {
		log.Fatalf("Failed to load operation catalog: %v", err)
	}
	resolver := runtimes.NewResolver(cfg.PythonPath, logger)
	invoker := pyexec.NewInvoker(cfg.MaxConcurrent, logger)
	convertService := convert.NewService(catalog, resolver, invoker, scripts.Path, jobs, logger)

	logger.Info("conversion service initialized", "operations", len(catalog.Names()))

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	healthHandler := handler.NewHealthHandler(resolver, version)
	mux.HandleFunc("GET /health", healthHandler.Check)

	convertHandler := handler.NewConvertHandler(convertService, logger)
	convertHandler.Register(mux)

	if contactStore != nil {
		contactHandler := handler.NewContactHandler(contactStore, logger)
		mux.HandleFunc("POST /api/contact", contactHandler.Create)
	}

	if failureStore != nil {
		jobsHandler := handler.NewJobsHandler(failureStore, logger)
		mux.HandleFunc("GET /api/jobs/failures", jobsHandler.RecentFailures)
	}

	// Build middleware chain. Applied in reverse order (they wrap each
	// other): CORS → Recovery → RequestLog → Auth → Routes. CORS sits
	// outermost so OPTIONS pre-flight requests never hit auth.
	var root http.Handler = mux
	root = middleware.Auth(jwtVerifier)(root)
	root = middleware.RequestLog(logger)(root)
	root = middleware.Recovery(logger)(root)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     root,
		ReadTimeout: 60 * time.Second,
		// Write timeout must outlast the slowest conversion budget plus
		// the time to stream the result back.
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown: let in-flight conversions finish, then drop the
	// extracted worker scripts.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
	if err := scripts.Cleanup(); err != nil {
		logger.Warn("worker script cleanup failed", "error", err)
	}

	logger.Info("server stopped")
}
