// Package backend serves a local directory of solution files over the
// same HTTP API the viewer consumes, for development and demos.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"dsaview/internal/logging"
)

// Server exposes a Catalog over HTTP.
type Server struct {
	catalog *Catalog
	metrics *Metrics
	logger  *zap.Logger
	router  chi.Router
}

// NewServer wires routes and middleware.
func NewServer(catalog *Catalog, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		catalog: catalog,
		metrics: NewMetrics(),
		logger:  logger,
	}
	s.metrics.catalogEntries.Set(float64(catalog.Len()))

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(s.metrics.Middleware)

	r.Get("/search", s.handleSearch)
	r.Get("/filter", s.handleFilter)
	r.Get("/file/*", s.handleFile)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeDetail(w, http.StatusBadRequest, "query is required")
		return
	}
	items := s.catalog.Search(query)
	s.metrics.resultsReturned.WithLabelValues("search").Observe(float64(len(items)))
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("dataStructure")
	if category == "" {
		writeDetail(w, http.StatusBadRequest, "dataStructure is required")
		return
	}
	items := s.catalog.Filter(category)
	s.metrics.resultsReturned.WithLabelValues("filter").Observe(float64(len(items)))
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	// chi routes on the escaped path, so %2F separators arrive intact
	p, err := url.PathUnescape(chi.URLParam(r, "*"))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid path")
		return
	}

	content, err := s.catalog.Read(p)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeDetail(w, http.StatusNotFound, "File not found")
			return
		}
		logging.FromContext(r.Context()).Error("read failed", zap.String("path", p), zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "failed to read file")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"content": content})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "entries": s.catalog.Len()})
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting fixture backend", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down fixture backend")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// jsonRecoverer returns a JSON 500 instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered", zap.Any("panic", rvr), zap.Stack("stacktrace"))
					writeDetail(w, http.StatusInternalServerError, "internal error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger emits one line per request and puts a request-scoped
// logger in the context.
func requestLogger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := middleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logging.ContextWithLogger(r.Context(), reqLogger)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)))
		})
	}
}
