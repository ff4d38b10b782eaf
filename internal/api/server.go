// Package api serves allocations over HTTP.
//
// Routes:
//
//	GET  /healthz                  build information
//	GET  /v1/architectures         built-in devices
//	GET  /v1/allocators            registered allocators
//	POST /v1/allocations           allocate a circuit and store the record
//	GET  /v1/allocations           list stored records, newest first
//	GET  /v1/allocations/{id}      fetch one record
//	GET  /metrics                  Prometheus exposition, when a gatherer is set
//
// Errors are returned as {"error": {"code": ..., "message": ...}} with a
// status derived from the error code.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/qmap/pkg/observability"
	"github.com/matzehuels/qmap/pkg/pipeline"
	"github.com/matzehuels/qmap/pkg/store"
)

const (
	// maxBodyBytes bounds allocation requests.
	maxBodyBytes = 8 << 20

	// requestTimeout bounds a single request, allocation included.
	requestTimeout = 2 * time.Minute

	// maxRequestChildren and maxRequestPartial cap the search limits a
	// request may ask for. Zero limits take the pipeline defaults.
	maxRequestChildren = 64
	maxRequestPartial  = 4096
)

// Config wires a Server.
type Config struct {
	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger
	Hooks  observability.Set

	// Gatherer backs GET /metrics. Nil disables the route.
	Gatherer prometheus.Gatherer
}

// Server is the HTTP front end of a pipeline runner.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	logger   *log.Logger
	hooks    observability.Set
	gatherer prometheus.Gatherer
}

// New returns a server. Runner and Store are required.
func New(cfg Config) (*Server, error) {
	if cfg.Runner == nil || cfg.Store == nil {
		return nil, errors.New("api: runner and store are required")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Server{
		runner:   cfg.Runner,
		store:    cfg.Store,
		logger:   cfg.Logger,
		hooks:    cfg.Hooks.WithDefaults(),
		gatherer: cfg.Gatherer,
	}, nil
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/architectures", s.listArchitectures)
		r.Get("/allocators", s.listAllocators)
		r.Post("/allocations", s.createAllocation)
		r.Get("/allocations", s.listAllocations)
		r.Get("/allocations/{id}", s.getAllocation)
	})
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// observe reports every response to the HTTP hooks and the log.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		s.hooks.HTTP.OnResponse(r.Context(), r.Method, route, status, d)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", d,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
