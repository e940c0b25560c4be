// Package server wires the daemon's components and runs them.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/smaitlx1/Nexus-Mod-Manager/internal/acquire"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/activity"
	v1 "github.com/smaitlx1/Nexus-Mod-Manager/internal/api/v1"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/catalog"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/events"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/fetch"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/formats"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/pending"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/repository"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/tagger"
)

const (
	shutdownTimeout    = 30 * time.Second
	eventRetention     = 30 * 24 * time.Hour
	eventPruneInterval = time.Hour
)

// Config for the daemon.
type Config struct {
	Addr              string
	Version           string
	GameMode          string
	ModsDir           string
	AutoFill          bool
	MaxConcurrent     int
	ActivityRetention time.Duration
	RepositoryURL     string
	APIKey            string
	RepositoryTimeout time.Duration
}

// Runner manages the daemon's components.
type Runner struct {
	db     *sql.DB
	config Config
	logger *slog.Logger

	ready chan struct{}
	addr  net.Addr
}

// NewRunner creates a new runner.
func NewRunner(db *sql.DB, cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		db:     db,
		config: cfg,
		logger: logger,
		ready:  make(chan struct{}),
	}
}

// Ready is closed once the HTTP listener is bound.
func (r *Runner) Ready() <-chan struct{} {
	return r.ready
}

// Addr returns the bound listener address. Valid after Ready is closed.
func (r *Runner) Addr() string {
	if r.addr == nil {
		return ""
	}
	return r.addr.String()
}

// Run starts all components and blocks until ctx is canceled or a
// component fails. On return the queue has been shut down; pending
// acquisitions stay persisted for the next start.
func (r *Runner) Run(ctx context.Context) error {
	// Event bus with persistence
	eventLog := events.NewEventLog(r.db)
	bus := events.NewBus(eventLog, r.logger.With("component", "bus"))
	defer func() { _ = bus.Close() }()

	// Stores
	mods := catalog.NewStore(r.db)
	pendingStore := pending.NewStore(r.db)

	// Repository client
	opts := []repository.Option{}
	if r.config.RepositoryURL != "" {
		opts = append(opts, repository.WithBaseURL(r.config.RepositoryURL))
	}
	if r.config.RepositoryTimeout > 0 {
		opts = append(opts, repository.WithTimeout(r.config.RepositoryTimeout))
	}
	repo := repository.NewClient(r.config.APIKey, opts...)

	// Acquisition pipeline
	factory := fetch.NewFactory(fetch.Config{
		GameMode:      r.config.GameMode,
		ModsDir:       r.config.ModsDir,
		MaxConcurrent: r.config.MaxConcurrent,
	}, formats.DefaultRegistry(), repo, r.logger)

	queue := acquire.New(acquire.Config{
		GameMode:            r.config.GameMode,
		AutoFillMissingInfo: r.config.AutoFill,
	}, factory, mods, pendingStore, r.logger.With("component", "queue"))
	queue.SetTagger(tagger.New(mods, r.logger.With("component", "tagger")))
	queue.SetBus(bus)

	monitor := activity.NewMonitor(bus, r.config.ActivityRetention, r.logger)
	queue.SetMonitor(monitor)

	// HTTP
	api, err := v1.New(v1.Config{
		Version:  r.config.Version,
		GameMode: r.config.GameMode,
		ModsDir:  r.config.ModsDir,
	}, v1.ServerDeps{
		Queue:    queue,
		Mods:     mods,
		Activity: monitor,
		EventLog: eventLog,
		Pending:  pendingStore,
	})
	if err != nil {
		queue.Shutdown()
		return fmt.Errorf("api: %w", err)
	}
	mux := http.NewServeMux()
	api.RegisterRoutes(mux)

	ln, err := net.Listen("tcp", r.config.Addr)
	if err != nil {
		queue.Shutdown()
		return fmt.Errorf("listen %s: %w", r.config.Addr, err)
	}
	r.addr = ln.Addr()
	close(r.ready)

	srv := &http.Server{Handler: logRequests(mux, r.logger.With("component", "http"))}

	r.logger.Info("server starting",
		"addr", r.Addr(),
		"game_mode", r.config.GameMode,
		"mods_dir", r.config.ModsDir,
		"auto_fill", r.config.AutoFill,
		"max_concurrent", r.config.MaxConcurrent,
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return monitor.Start(ctx)
	})

	g.Go(func() error {
		if _, err := queue.Reload(ctx); err != nil {
			r.logger.Error("reload pending acquisitions failed", "error", err)
		}
		return nil
	})

	g.Go(func() error {
		return pruneEvents(ctx, eventLog, r.logger)
	})

	g.Go(func() error {
		<-ctx.Done()
		r.logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)

		queue.Shutdown()
		r.logger.Info("server stopped")
		if err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// pruneEvents drops old events from the log until ctx is done.
func pruneEvents(ctx context.Context, log *events.EventLog, logger *slog.Logger) error {
	ticker := time.NewTicker(eventPruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := log.Prune(eventRetention)
			if err != nil {
				logger.Warn("prune events failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Debug("pruned events", "count", n)
			}
		}
	}
}
