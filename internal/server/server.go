// Package server provides the HTTP API for reelmatch.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hyperjump/reelmatch/internal/config"
	"github.com/hyperjump/reelmatch/internal/keyword"
	"github.com/hyperjump/reelmatch/internal/metadata"
	"github.com/hyperjump/reelmatch/internal/recommend"
)

const requestTimeout = 60 * time.Second

// Server is the HTTP server for the reelmatch API.
type Server struct {
	rec      *recommend.Recommender
	index    keyword.TitleIndex
	provider metadata.Provider
	enricher *metadata.Enricher
	config   *config.Config
	logger   *zap.Logger
	router   chi.Router
	server   *http.Server
}

// NewServer creates a server with the given dependencies. index may be nil, which disables
// title search; a nil provider disables detail lookups.
func NewServer(
	rec *recommend.Recommender,
	index keyword.TitleIndex,
	provider metadata.Provider,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if provider == nil {
		provider = metadata.Disabled{}
	}
	if cfg == nil {
		cfg = &config.Config{}
		config.ApplyDefaults(cfg)
	}
	s := &Server{
		rec:      rec,
		index:    index,
		provider: provider,
		enricher: metadata.NewEnricher(provider, cfg.Metadata.PlaceholderImage, logger),
		config:   cfg,
		logger:   logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(corsHandler(s.config.Server.AllowedOrigins))
	r.Use(rateLimit(s.config.Server.RateLimit))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/suggestions", s.handleSuggestGet)
		r.Post("/suggestions", s.handleSuggestPost)
		r.Get("/movies/search", s.handleSearch)
		r.Get("/movies/trending", s.handleTrending)
		r.Get("/movies/{id}", s.handleGetMovie)
		r.Get("/movies/{id}/similar", s.handleSimilar)
		r.Get("/movies/{id}/details", s.handleDetails)
		r.Get("/people/{id}", s.handlePerson)
		r.Get("/status", s.handleStatus)
	})
	return r
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
