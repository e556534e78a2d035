package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/auth"
	"github.com/rpupo63/portfolio-cms-backend/config"
	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/services"
	"github.com/rpupo63/portfolio-cms-backend/storage"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

// NewServer builds the HTTP server from config. A token service is required.
func NewServer(cfg *config.Config, db database.Database, opts ...Option) (Server, error) {
	startupTime := time.Now()

	opts = append([]Option{WithOrigins(cfg.AcceptedOrigins), withStartupTime(startupTime)}, opts...)
	router, err := newRouter(db, opts...)
	if err != nil {
		return Server{}, err
	}

	server := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,  // Timeout for reading the entire request
		WriteTimeout: cfg.WriteTimeout, // Timeout for writing the response
		IdleTimeout:  cfg.IdleTimeout,  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

type router struct {
	tokens      *auth.TokenService
	uploader    *storage.Uploader
	staticDir   string
	notifier    services.BookingNotifier
	registry    *prometheus.Registry
	origins     []string
	startupTime time.Time
}

// Option configures the router built by NewServer.
type Option func(*router)

func WithTokens(tokens *auth.TokenService) Option {
	return func(r *router) {
		r.tokens = tokens
	}
}

// WithUploader enables the upload endpoints.
func WithUploader(uploader *storage.Uploader) Option {
	return func(r *router) {
		r.uploader = uploader
	}
}

// WithStaticDir serves dir under /uploads. Only the local backend sets it.
func WithStaticDir(dir string) Option {
	return func(r *router) {
		r.staticDir = dir
	}
}

func WithNotifier(notifier services.BookingNotifier) Option {
	return func(r *router) {
		r.notifier = notifier
	}
}

func WithRegistry(registry *prometheus.Registry) Option {
	return func(r *router) {
		r.registry = registry
	}
}

func WithOrigins(origins []string) Option {
	return func(r *router) {
		r.origins = origins
	}
}

func withStartupTime(startupTime time.Time) Option {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(db database.Database, opts ...Option) (*chi.Mux, error) {
	var router router
	for _, opt := range opts {
		opt(&router)
	}
	if router.tokens == nil {
		return nil, errors.New("token service is required")
	}
	if router.registry == nil {
		router.registry = prometheus.NewRegistry()
	}
	if router.notifier == nil {
		router.notifier = services.Notifiers{}
	}
	if router.startupTime.IsZero() {
		router.startupTime = time.Now()
	}

	metrics := NewMetrics(router.registry)

	chiRouter := chi.NewRouter()
	chiRouter.Use(chimw.RequestID)
	chiRouter.Use(chimw.RealIP)
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(requestLogger)
	chiRouter.Use(metrics.middleware)
	chiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins:   router.origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize all handlers
	handlers := initializeHandlers(db, router, metrics)

	// Initialize auth middleware
	authMiddleware := newAuthMiddleware(router.tokens)

	setupRoutes(chiRouter, handlers, authMiddleware)
	chiRouter.Method(http.MethodGet, "/metrics", metricsHandler(router.registry))
	if router.staticDir != "" {
		mountStatic(chiRouter, router.staticDir)
	}

	return chiRouter, nil
}

// Start serves until the server fails or is shut down. Only failures are
// sent on errChannel; a graceful shutdown returns without sending.
func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		errChannel <- err
	}
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
