package poll

import (
	"context"
	"sync/atomic"
	"time"

	"jobsync-engine/internal/events"
	"jobsync-engine/internal/syncer"
	"jobsync-engine/pkg/logging"
)

// Status mirrors the most recent background pass for the /status endpoint.
type Status struct {
	LastRunAt   string `json:"last_run_at"`
	LastOkAt    string `json:"last_ok_at"`
	LastError   string `json:"last_error"`
	LastFetched int    `json:"last_fetched"`
	Online      bool   `json:"online"`
	Running     bool   `json:"running"`
}

// Start drives periodic sync passes until ctx is cancelled. The first pass
// runs immediately so a fresh install has data without waiting a full
// interval. Manual /sync requests share the same single-flight guard inside
// the syncer, so the ticker can never race a user-initiated refresh.
func Start(ctx context.Context, s *syncer.Syncer, interval time.Duration, status *atomic.Value, hub *events.Hub, log *logging.Logger) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	runOnce(ctx, s, status, hub, log)

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			runOnce(ctx, s, status, hub, log)
		}
	}
}

func runOnce(ctx context.Context, s *syncer.Syncer, status *atomic.Value, hub *events.Hub, log *logging.Logger) {
	st := load(status)
	st.Running = true
	st.LastRunAt = time.Now().UTC().Format(time.RFC3339)
	status.Store(st)

	res, err := s.Sync(ctx)

	st = load(status)
	st.Running = false

	if err != nil {
		st.LastError = err.Error()
		status.Store(st)
		log.Warn("poll sync failed", "err", err)
		hub.Publish("", events.TypeSyncFailed, map[string]any{"error": err.Error()})
		return
	}

	st.LastError = ""
	st.LastOkAt = time.Now().UTC().Format(time.RFC3339)
	st.LastFetched = res.NewJobs
	st.Online = res.Online
	status.Store(st)

	if res.Online && res.NewJobs > 0 {
		hub.Publish("", events.TypeSyncCompleted, res)
	}
}

func load(v *atomic.Value) Status {
	if st, ok := v.Load().(Status); ok {
		return st
	}
	return Status{}
}
