package httpapi

import (
	"fmt"
	"net/http"

	"jobsync-engine/internal/events"
	"jobsync-engine/internal/poll"
)

// handleSync runs a user-initiated refresh. A pass already in flight absorbs
// this request via the syncer's single-flight guard, so hammering the button
// costs one remote round trip.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	res, err := s.syncer.Sync(r.Context())
	if err != nil {
		s.hub.Publish(RequestIDFrom(r.Context()), events.TypeSyncFailed,
			map[string]any{"error": err.Error()})
		writeError(w, err)
		return
	}

	if res.Online && res.NewJobs > 0 {
		s.hub.Publish(RequestIDFrom(r.Context()), events.TypeSyncCompleted, res)
	}
	writeJSON(w, res)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.remote.FetchStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, stats)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if st, ok := s.status.Load().(poll.Status); ok {
		writeJSON(w, st)
		return
	}
	writeJSON(w, poll.Status{})
}

// handleEvents streams hub events to the UI over SSE.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSONStatus(w, http.StatusInternalServerError,
			errorBody{Error: "streaming unsupported", Kind: "internal"})
		return
	}

	ch := s.hub.Subscribe()
	defer s.hub.Unsubscribe(ch)

	// initial ping so the client knows the stream is live
	fmt.Fprintf(w, "event: ping\ndata: %s\n\n", `{"type":"ping"}`)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-ch:
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
