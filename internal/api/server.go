package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/eshaffer321/receipt-inbox/internal/api/handlers"
	"github.com/eshaffer321/receipt-inbox/internal/api/middleware"
	"github.com/eshaffer321/receipt-inbox/internal/application/service"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
	RequestTimeout time.Duration
	RateLimit      middleware.RateLimitConfig
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		RequestTimeout: 10 * time.Second,
		RateLimit:      middleware.RateLimitConfig{RequestsPerSecond: 20, Burst: 40},
	}
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     chi.Router
	httpServer *http.Server
	logger     *slog.Logger
	receipts   *service.ReceiptService
}

// NewServer creates a new API server.
func NewServer(cfg Config, receipts *service.ReceiptService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:   cfg,
		router:   chi.NewRouter(),
		logger:   logger,
		receipts: receipts,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.Recoverer)

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = s.config.AllowedOrigins
	s.router.Use(middleware.CORS(corsConfig))

	s.router.Use(middleware.Logging(s.logger))

	if s.config.RequestTimeout > 0 {
		s.router.Use(chimw.Timeout(s.config.RequestTimeout))
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix or tenant - for load balancers)
	healthHandler := handlers.NewHealthHandler(s.receipts, s.logger)
	s.router.Get("/health", healthHandler.ServeHTTP)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(middleware.Tenant)
		r.Use(middleware.RateLimit(s.config.RateLimit))

		// Receipt inbox
		receiptsHandler := handlers.NewReceiptsHandler(s.receipts, s.logger)
		r.Post("/receipts", receiptsHandler.Create)
		r.Get("/receipts/pending", receiptsHandler.Pending)
		r.Post("/receipts/auto-match", receiptsHandler.AutoMatch)
		r.Get("/receipts/{id}/candidates", receiptsHandler.Candidates)
		r.Post("/receipts/{id}/match", receiptsHandler.Match)

		// Transactions
		transactionsHandler := handlers.NewTransactionsHandler(s.receipts, s.logger)
		r.Post("/transactions", transactionsHandler.Create)
		r.Get("/transactions/{id}", transactionsHandler.Get)

		// Stats
		statsHandler := handlers.NewStatsHandler(s.receipts, s.logger)
		r.Get("/stats", statsHandler.Get)
	})
}

// Start starts the HTTP server. It blocks until the server stops and
// returns nil after a graceful Shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.httpServer.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}
