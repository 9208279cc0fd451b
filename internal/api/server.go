// Package api provides the HTTP API server and handlers for the Breadcrumbs application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/breadcrumbsapp/breadcrumbs-server/internal/ratelimit"
	"github.com/breadcrumbsapp/breadcrumbs-server/internal/service"
	"github.com/breadcrumbsapp/breadcrumbs-server/internal/store"
)

// Services bundles the application services the handlers call into.
type Services struct {
	Crumb *service.CrumbService
	Unit  *service.UnitService
	Tag   *service.TagService
}

// Options configures server construction.
type Options struct {
	CORSOrigins []string
	Limiter     *ratelimit.KeyedRateLimiter
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    store.Store
	services *Services
	router   *chi.Mux
	api      huma.API
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(store store.Store, services *Services, opts Options, logger *slog.Logger) *Server {
	s := &Server{
		store:    store,
		services: services,
		router:   chi.NewRouter(),
		logger:   logger,
	}

	s.setupMiddleware(opts)

	config := huma.DefaultConfig("Breadcrumbs API", "1.0.0")
	config.Info.Description = "Single-author blogging backend for timestamped markdown notes"
	s.api = humachi.New(s.router, config)

	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerCrumbRoutes()
	s.registerUnitRoutes()
	s.registerTagRoutes()

	return s
}

// API returns the underlying huma API, used by tests.
func (s *Server) API() huma.API {
	return s.api
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	if opts.Limiter != nil {
		s.router.Use(writeRateLimit(opts.Limiter, s.logger))
	}
}
