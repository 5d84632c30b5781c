// Package server is the HTTP host for taxotree.
//
// It stands in for the dashboard that embeds the chart: clients post the
// query's rows and get the hierarchy or a rendered artifact back.
//
//	POST /v1/tree                      rows -> {"edges": ..., "tree": ...}
//	POST /v1/render?type=&format=      rows -> artifact
//	GET  /healthz
//	GET  /metrics                      Prometheus exposition
//
// Rows are host JSON unless the request's Content-Type is text/csv.
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/taxotree/pkg/buildinfo"
	"github.com/matzehuels/taxotree/pkg/config"
	"github.com/matzehuels/taxotree/pkg/pipeline"
	"github.com/matzehuels/taxotree/pkg/taxonomy"
)

const shutdownTimeout = 10 * time.Second

// Server routes HTTP requests to a pipeline runner. The runner must be
// initialised before the server handles tree graph requests.
type Server struct {
	runner   *pipeline.Runner
	cfg      *config.Config
	schema   taxonomy.Schema
	registry *prometheus.Registry
	logger   *log.Logger
	router   chi.Router
}

// New creates a server. A nil registry disables /metrics; a nil logger
// discards log output.
func New(runner *pipeline.Runner, cfg *config.Config, registry *prometheus.Registry, logger *log.Logger) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		runner:   runner,
		cfg:      cfg,
		schema:   cfg.TaxonomySchema(),
		registry: registry,
		logger:   logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.SetHeader("Server", buildinfo.UserAgent()))
	r.Use(requestID)
	r.Use(s.observe)
	r.Use(middleware.RequestLogger(logFormatter{s.logger}))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(bodyLimit(s.cfg.Server.MaxBodyBytes))
		r.Use(timeout(time.Duration(s.cfg.Server.TimeoutSec) * time.Second))
		r.Post("/tree", s.handleTree)
		r.Post("/render", s.handleRender)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
