package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/liftlog/internal/catalog"
	"github.com/meltforce/liftlog/internal/ingest/alpha"
	"github.com/meltforce/liftlog/internal/logstore"
	"github.com/meltforce/liftlog/internal/metrics"
	"github.com/meltforce/liftlog/internal/session"
	"tailscale.com/client/local"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store   *logstore.Store
	catalog *catalog.Catalog
	metrics *metrics.Manager
	log     *slog.Logger
	now     func() time.Time
	ts      *local.Client
	alpha   *alpha.Provider

	// mu guards draft; every request touching it holds mu for its duration.
	mu    sync.Mutex
	draft *session.Draft

	router chi.Router
}

// New creates a new Server with all routes configured.
func New(store *logstore.Store, cat *catalog.Catalog, m *metrics.Manager, log *slog.Logger) *Server {
	s := &Server{
		store:   store,
		catalog: cat,
		metrics: m,
		log:     log,
		now:     time.Now,
		draft:   session.New(cat),
		alpha:   alpha.NewProvider(store, log),
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	if s.metrics != nil {
		s.router.Use(Instrument(s.metrics))
	}
	s.router.Use(CORS)
	s.router.Use(s.tailnetIdentity)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/routines", s.handleRoutines)
		r.Get("/sets", s.handleSets)
		r.Get("/sessions", s.handleSessionVolumes)
		r.Get("/exercises", s.handleExercises)
		r.Get("/exercises/summary", s.handleExerciseSummary)
		r.Get("/exercises/sessions", s.handleExerciseSessions)
		r.Get("/one-rep-max", s.handleOneRepMax)
		r.Get("/me", s.handleMe)
		r.Post("/ingest/alpha", s.handleAlphaIngest)

		r.Route("/session", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Post("/", s.handleBeginSession)
			r.Put("/exercise", s.handleUpdateExercise)
			r.Post("/finish", s.handleFinishSession)
			r.Post("/reset", s.handleResetSession)
		})
	})
}

// SetMetricsHandler exposes h at /metrics.
func (s *Server) SetMetricsHandler(h http.Handler) {
	s.router.Handle("/metrics", h)
}

// SetMCP mounts the MCP streamable HTTP endpoint at /mcp.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
}

// SetTailscale enables tailnet identity lookups for /api/v1/me.
func (s *Server) SetTailscale(lc *local.Client) {
	s.ts = lc
}
