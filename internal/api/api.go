// Package api implements the lazor HTTP API.
//
// The API exposes the solve pipeline over HTTP and archives every run:
//
//	POST   /api/solve      solve a board definition
//	GET    /api/runs       list archived runs, newest first
//	GET    /api/runs/{id}  fetch one archived run
//	DELETE /api/runs/{id}  remove an archived run
//	GET    /api/health     liveness probe with build info
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lazorkit/lazor/pkg/observability"
	"github.com/lazorkit/lazor/pkg/pipeline"
	"github.com/lazorkit/lazor/pkg/store"
)

// maxTimeLimit caps per-request solve budgets so one request cannot hold a
// worker for minutes.
const maxTimeLimit = 30 * time.Second

// Server wires the pipeline runner and run archive into an HTTP handler.
type Server struct {
	runner *pipeline.Runner
	runs   store.Store
	logger *log.Logger
}

// NewServer creates an API server.
// If runs is nil, an in-memory archive is used.
// If logger is nil, the default logger is used.
func NewServer(runner *pipeline.Runner, runs store.Store, logger *log.Logger) *Server {
	if runs == nil {
		runs = store.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, runs: runs, logger: logger}
}

// Router builds the chi router with all routes and middleware registered.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/solve", s.handleSolve)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
		r.Delete("/runs/{id}", s.handleDeleteRun)
	})

	return r
}

// observe reports request lifecycle events to the HTTP hooks and logs
// completions.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		observability.HTTP().OnRequest(ctx, req.Method, req.Host, req.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, req)
		elapsed := time.Since(start)

		observability.HTTP().OnResponse(ctx, req.Method, req.Host, req.URL.Path, ww.Status(), elapsed)
		s.logger.Info("request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", ww.Status(),
			"duration", elapsed)
	})
}
