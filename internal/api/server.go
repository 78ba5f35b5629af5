package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/j-russo/chunking-visualizer/internal/config"
	"github.com/j-russo/chunking-visualizer/internal/parser"
	"github.com/j-russo/chunking-visualizer/internal/pipeline"
	"github.com/j-russo/chunking-visualizer/internal/stats"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the HTTP API server for the chunking visualizer.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	rec          *stats.Recorder
	gatherer     prometheus.Gatherer
	validate     *validator.Validate
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. gatherer backs /metrics
// and may be nil to disable it.
func NewServer(orch *pipeline.Orchestrator, rec *stats.Recorder, gatherer prometheus.Gatherer, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		rec:          rec,
		gatherer:     gatherer,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Get("/api/strategies", s.handleStrategies)
		r.Post("/api/chunk", s.handleChunk)
		r.Post("/api/compare", s.handleCompare)
		r.Post("/api/chunk/file", s.handleChunkFile)

		r.Post("/api/jobs", s.handleSubmitJobs)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)

		r.Get("/api/stats", s.handleStats)

		r.Get("/api/samples", s.handleListSamples)
		r.Get("/api/samples/{name}", s.handleGetSample)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) parserOptions() parser.Options {
	return parser.Options{PDFFallbackPdftotext: s.cfg.PDFFallbackPdftotext}
}
