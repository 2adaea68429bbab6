package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/retainhq/retain/internal/store"
)

// Server is the retain HTTP API server.
type Server struct {
	db      *store.DB
	router  chi.Router
	log     *zap.Logger
	version string
	started time.Time
}

// New creates a new Server with the given database, logger, and version.
// A nil logger disables request logging.
func New(db *store.DB, logger *zap.Logger, version string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		db:      db,
		log:     logger,
		version: version,
		started: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(s.timed)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/status", s.handleStatus)

		r.Post("/memories", s.handleRemember)
		r.Get("/memories", s.handleRecall)
		r.Delete("/memories", s.handleForget)

		r.Get("/artifacts", s.handleListArtifacts)
		r.Put("/artifacts/{name}", s.handlePutArtifact)
		r.Get("/artifacts/{name}", s.handleGetArtifact)

		r.Post("/errors", s.handleLogError)
		r.Post("/errors/{id}/resolve", s.handleResolveError)
		r.Get("/errors", s.handleRecentErrors)

		r.Post("/session", s.handleAppendTurn)
		r.Get("/context", s.handleGetContext)

		r.Get("/mode", s.handleGetMode)
		r.Post("/mode", s.handleSetMode)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"db_path": s.db.Path,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.db.Status()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// writeError maps storage errors to HTTP responses: caller mistakes are
// 400s, everything else is a 500. The distinction matters to clients —
// retrying a 500 with different input fixes nothing.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	if errors.Is(err, store.ErrInvalidInput) {
		code = http.StatusBadRequest
	}
	if code == http.StatusInternalServerError {
		s.log.Error("request failed", zap.Error(err))
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
