package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"jobsync-engine/internal/events"
	"jobsync-engine/internal/remote"
	"jobsync-engine/internal/store"
	"jobsync-engine/internal/syncer"
	"jobsync-engine/pkg/logging"
)

// Server is the localhost API the UI talks to: cached jobs out of the local
// store, sync triggers, proxied stats, and an SSE stream of refresh events.
type Server struct {
	router *chi.Mux
	store  *store.Store
	remote *remote.Client
	syncer *syncer.Syncer
	hub    *events.Hub
	status *atomic.Value
	log    *logging.Logger
}

func NewServer(st *store.Store, rc *remote.Client, sy *syncer.Syncer, hub *events.Hub, status *atomic.Value, log *logging.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		store:  st,
		remote: rc,
		syncer: sy,
		hub:    hub,
		status: status,
		log:    log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(requestID)
	s.router.Use(accessLog(s.log))
	s.router.Use(recoverPanics(s.log))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/jobs", s.handleListJobs)
	s.router.Get("/jobs/{id}", s.handleGetJob)
	s.router.Delete("/jobs/{id}", s.handleDeleteJob)
	s.router.Post("/jobs/clear", s.handleClearJobs)
	s.router.Post("/sync", s.handleSync)
	s.router.Get("/stats", s.handleStats)
	s.router.Get("/status", s.handleStatus)
	s.router.Get("/events", s.handleEvents)
}

func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]bool{"ok": true})
}

type errorBody struct {
	Error string `json:"error"`
	// Kind lets the UI tell "can't reach server" from "can't save locally"
	// and pick the right retry affordance.
	Kind string `json:"kind"`
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var (
		fe *remote.FetchError
		se *store.Error
	)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSONStatus(w, http.StatusNotFound, errorBody{Error: "not found", Kind: "not_found"})
	case errors.As(err, &fe):
		writeJSONStatus(w, http.StatusBadGateway, errorBody{Error: fe.Error(), Kind: "remote"})
	case errors.As(err, &se):
		writeJSONStatus(w, http.StatusInternalServerError, errorBody{Error: se.Error(), Kind: "storage"})
	default:
		writeJSONStatus(w, http.StatusInternalServerError, errorBody{Error: err.Error(), Kind: "internal"})
	}
}
