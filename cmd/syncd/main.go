package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"

	"jobsync-engine/internal/config"
	"jobsync-engine/internal/events"
	"jobsync-engine/internal/httpapi"
	"jobsync-engine/internal/netcheck"
	"jobsync-engine/internal/poll"
	"jobsync-engine/internal/remote"
	"jobsync-engine/internal/store"
	"jobsync-engine/internal/syncer"
	"jobsync-engine/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	dataDir := os.Getenv("JOBSYNC_DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		logging.New("info").Fatal("create data dir", "dir", dataDir, "err", err)
	}

	cfgPath, err := config.EnsureUserConfig(dataDir)
	if err != nil {
		logging.New("info").Fatal("config bootstrap", "err", err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logging.New("info").Fatal("config load", "path", cfgPath, "err", err)
	}

	log := logging.New(cfg.Log.Level)
	defer func() { _ = log.Sync() }()

	// One engine per data dir; a second instance would fight over the
	// sqlite file and double-sync.
	lock := flock.New(filepath.Join(dataDir, "syncd.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatal("instance lock", "err", err)
	}
	if !locked {
		log.Fatal("another instance already owns this data dir", "dir", dataDir)
	}
	defer func() { _ = lock.Unlock() }()

	st, err := store.Open(filepath.Join(dataDir, "jobs.db"))
	if err != nil {
		log.Fatal("store open", "err", err)
	}
	defer func() { _ = st.Close() }()
	if err := st.Migrate(); err != nil {
		log.Fatal("store migrate", "err", err)
	}

	base := remote.ResolveBaseURL(cfg.Remote.Origin, cfg.Remote.BackendPort, cfg.Remote.URL)
	rc, err := remote.NewClient(remote.Config{
		BaseURL: base,
		Timeout: time.Duration(cfg.Remote.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		log.Fatal("remote client", "err", err)
	}

	apiAddr, err := remote.HostPort(base)
	if err != nil {
		log.Fatal("resolve api address", "base", base, "err", err)
	}

	sy := syncer.New(st, rc, netcheck.NewProber(apiAddr, 2*time.Second), log,
		syncer.WithNewWindow(time.Duration(cfg.Sync.NewWindowDays)*24*time.Hour))

	hub := events.NewHub()
	status := &atomic.Value{}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go poll.Start(ctx, sy, time.Duration(cfg.Sync.IntervalSeconds)*time.Second, status, hub, log)

	api := httpapi.NewServer(st, rc, sy, hub, status, log)
	srv := &http.Server{
		Addr:              "127.0.0.1:" + strconv.Itoa(cfg.App.Port),
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("engine listening", "addr", srv.Addr, "api", base, "data", dataDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.Warn("shutdown", "err", err)
	}
}
