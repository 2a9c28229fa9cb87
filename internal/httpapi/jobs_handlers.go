package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"jobsync-engine/internal/domain"
	"jobsync-engine/internal/events"
	"jobsync-engine/internal/store"
)

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	cat := domain.Category(q.Get("category"))
	if cat != "" && cat != "all" && !cat.Valid() {
		writeJSONStatus(w, http.StatusBadRequest,
			errorBody{Error: "category must be software, hardware or all", Kind: "bad_request"})
		return
	}

	jobs, err := s.store.QueryFiltered(r.Context(), store.Filter{
		Category: cat,
		OnlyNew:  q.Get("only_new") == "true" || q.Get("only_new") == "1",
		Search:   q.Get("search"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if jobs == nil {
		jobs = []domain.Job{}
	}
	writeJSON(w, jobs)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := jobID(w, r)
	if !ok {
		return
	}

	job, err := s.store.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, job)
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id, ok := jobID(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteByID(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	s.hub.Publish(RequestIDFrom(r.Context()), events.TypeJobDeleted, map[string]any{"id": id})
	writeJSON(w, map[string]any{"ok": true, "id": id})
}

// handleClearJobs wipes the local cache and cursor; the next sync refetches
// everything from the remote side.
func (s *Server) handleClearJobs(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Clear(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	s.hub.Publish(RequestIDFrom(r.Context()), events.TypeJobsCleared, nil)
	writeJSON(w, map[string]bool{"ok": true})
}

func jobID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSONStatus(w, http.StatusBadRequest, errorBody{Error: "invalid id", Kind: "bad_request"})
		return 0, false
	}
	return id, true
}
