package syncer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"jobsync-engine/internal/domain"
	"jobsync-engine/internal/remote"
	"jobsync-engine/pkg/logging"
)

const (
	// SyncPageSize overrides the API default to cut round trips per pass.
	SyncPageSize = 100

	// DefaultNewWindow is the recency window for the derived is-new flag.
	DefaultNewWindow = 7 * 24 * time.Hour
)

// Store is the slice of the local store a sync pass needs.
type Store interface {
	GetCursor(ctx context.Context) (time.Time, error)
	SetCursor(ctx context.Context, t time.Time) error
	PutMany(ctx context.Context, jobs []domain.Job) error
}

// Remote fetches pages from the aggregation API.
type Remote interface {
	FetchJobs(ctx context.Context, q remote.Query) (remote.Page, error)
}

// Checker reports connectivity. Injected so the orchestrator never touches
// any runtime-global network event state directly.
type Checker interface {
	Online(ctx context.Context) bool
}

// Result is what one pass reports back to the UI layer. NewJobs counts items
// fetched this pass, not strictly first-seen identifiers: the upsert may
// overwrite records we already had.
type Result struct {
	NewJobs   int       `json:"new_jobs_count"`
	Timestamp time.Time `json:"timestamp"`
	Online    bool      `json:"online"`
}

type Syncer struct {
	store     Store
	remote    Remote
	check     Checker
	log       *logging.Logger
	newWindow time.Duration
	pageSize  int
	now       func() time.Time
	group     singleflight.Group
}

type Option func(*Syncer)

// WithNewWindow overrides the recency window for is-new tagging.
func WithNewWindow(d time.Duration) Option {
	return func(s *Syncer) {
		if d > 0 {
			s.newWindow = d
		}
	}
}

func WithPageSize(n int) Option {
	return func(s *Syncer) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithClock injects the pass clock; tests pin it for deterministic tagging.
func WithClock(now func() time.Time) Option {
	return func(s *Syncer) { s.now = now }
}

func New(st Store, rc Remote, check Checker, log *logging.Logger, opts ...Option) *Syncer {
	s := &Syncer{
		store:     st,
		remote:    rc,
		check:     check,
		log:       log,
		newWindow: DefaultNewWindow,
		pageSize:  SyncPageSize,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync runs one synchronization pass. Concurrent callers coalesce into the
// in-flight pass and share its outcome, so two refresh clicks can never both
// read the old cursor and double-advance it.
func (s *Syncer) Sync(ctx context.Context) (Result, error) {
	v, err, shared := s.group.Do("sync", func() (any, error) {
		return s.syncOnce(ctx)
	})
	if shared {
		s.log.Debug("sync request coalesced into in-flight pass")
	}
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

func (s *Syncer) syncOnce(ctx context.Context) (Result, error) {
	pass := uuid.NewString()[:8]

	if !s.check.Online(ctx) {
		s.log.Info("sync skipped, offline", "pass", pass)
		return Result{NewJobs: 0, Timestamp: s.now(), Online: false}, nil
	}

	cursor, err := s.store.GetCursor(ctx)
	if err != nil {
		return Result{}, err
	}

	page, err := s.remote.FetchJobs(ctx, remote.Query{
		Page:     1,
		PageSize: s.pageSize,
		Category: "all",
		Since:    cursor,
	})
	if err != nil {
		// Cursor stays put: the next attempt re-covers the same window.
		s.log.Warn("sync fetch failed", "pass", pass, "since", cursor, "err", err)
		return Result{}, err
	}

	// The cursor advances to the invocation time, not the newest posting
	// date. Backdated or out-of-order postings on the remote side are then
	// never skipped; the price is some re-delivery, which the upsert absorbs.
	now := s.now()

	if len(page.Items) == 0 {
		if err := s.store.SetCursor(ctx, now); err != nil {
			return Result{}, err
		}
		s.log.Info("sync ok, nothing new", "pass", pass, "since", cursor)
		return Result{NewJobs: 0, Timestamp: now, Online: true}, nil
	}

	jobs := make([]domain.Job, len(page.Items))
	threshold := now.Add(-s.newWindow)
	for i, j := range page.Items {
		j.IsNew = j.PostingDate.After(threshold)
		jobs[i] = j
	}

	if err := s.store.PutMany(ctx, jobs); err != nil {
		// Fetched but unpersisted; leave the cursor so nothing is lost.
		s.log.Error("sync persist failed", "pass", pass, "count", len(jobs), "err", err)
		return Result{}, err
	}

	if err := s.store.SetCursor(ctx, now); err != nil {
		return Result{}, err
	}

	s.log.Info("sync ok", "pass", pass, "fetched", len(jobs), "since", cursor)
	return Result{NewJobs: len(jobs), Timestamp: now, Online: true}, nil
}
