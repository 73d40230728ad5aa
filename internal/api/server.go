// Package api provides the HTTP API server and handlers for the ShelfScan catalog.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shelfscanapp/shelfscan-server/internal/media/covers"
	"github.com/shelfscanapp/shelfscan-server/internal/ratelimit"
	"github.com/shelfscanapp/shelfscan-server/internal/service"
)

// Services groups the business logic services used by the API server.
type Services struct {
	Search   *service.SearchService
	Catalog  *service.CatalogService
	Genre    *service.GenreService
	Stats    *service.StatsService
	Settings *service.SettingsService
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services *Services
	covers   *covers.Store
	router   *chi.Mux
	api      huma.API
	limiter  *ratelimit.KeyedRateLimiter
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
// coverStore may be nil when cover caching is disabled.
func NewServer(services *Services, coverStore *covers.Store, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))

	// The scanning UI runs as a separate frontend, so the API must
	// answer cross-origin requests
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Per-client request limiting: generous for a busy scanning
	// station, but keeps a misbehaving client from hammering the
	// external metadata providers through us
	limiter := ratelimit.New(10, 30)
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(r.RemoteAddr) {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	config := huma.DefaultConfig("ShelfScan API", "1.0.0")
	api := humachi.New(router, config)
	RegisterErrorHandler()

	s := &Server{
		services: services,
		covers:   coverStore,
		router:   router,
		api:      api,
		limiter:  limiter,
		logger:   logger,
	}

	s.registerHealthRoutes()
	s.registerSearchRoutes()
	s.registerCatalogRoutes()
	s.registerGenreRoutes()
	s.registerStatsRoutes()
	s.registerSettingsRoutes()
	s.registerCoverRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases server-owned background resources.
func (s *Server) Close() {
	s.limiter.Stop()
}
