// Package web serves the vocabulary catalog and freshly shuffled grids as a
// read-only JSON API for browser front-ends.
package web

import (
	"context"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"codeberg.org/snonux/flipgrid/internal/logging"
	"codeberg.org/snonux/flipgrid/internal/session"
	"codeberg.org/snonux/flipgrid/internal/vocab"
)

// Server is the HTTP server for the grid API.
type Server struct {
	catalog *vocab.Catalog
	loader  session.Loader
	logger  *zap.Logger
	router  *chi.Mux

	serverMu sync.Mutex
	server   *http.Server

	// rand.Rand is not safe for concurrent use
	randMu sync.Mutex
	rng    *rand.Rand
}

// NewServer creates a server answering from catalog through loader.
func NewServer(catalog *vocab.Catalog, loader session.Loader, logger *zap.Logger) *Server {
	if catalog == nil {
		catalog = vocab.DefaultCatalog()
	}
	s := &Server{
		catalog: catalog,
		loader:  loader,
		logger:  logging.OrNop(logger).Named("web"),
		router:  chi.NewRouter(),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(securityHeaders)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/vocabularies", s.handleListVocabularies)
		r.Get("/vocabularies/{key}/grid", s.handleGrid)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	s.serverMu.Lock()
	s.server = server
	s.serverMu.Unlock()

	s.logger.Info("Starting server", zap.String("addr", addr))
	return server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.serverMu.Lock()
	server := s.server
	s.serverMu.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// requestLogger logs one line per request with the chi request ID
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
