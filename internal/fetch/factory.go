// Package fetch acquires mod files into the mods directory.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/smaitlx1/Nexus-Mod-Manager/internal/acquire"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/formats"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/modinfo"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/repository"
)

// Repository is the part of a mod repository client a task needs.
type Repository interface {
	Mod(ctx context.Context, game string, modID int64) (*repository.ModResponse, error)
	File(ctx context.Context, ref repository.ModRef) (*repository.FileResponse, error)
	DownloadURL(ctx context.Context, ref repository.ModRef) (string, error)
	Open(ctx context.Context, rawURL string, offset int64) (*repository.Body, error)
}

// Config holds factory settings.
type Config struct {
	GameMode      string
	ModsDir       string
	MaxConcurrent int // Transfers allowed at once, at least 1
}

// Factory creates acquisition tasks for one game and mods directory.
// All its tasks share a pool of transfer slots.
type Factory struct {
	cfg     Config
	formats *formats.Registry
	repo    Repository
	slots   *semaphore.Weighted
	log     *slog.Logger

	// install serializes picking a destination and renaming into it
	install sync.Mutex
}

var _ acquire.TaskFactory = (*Factory)(nil)

// NewFactory creates a task factory.
func NewFactory(cfg Config, reg *formats.Registry, repo Repository, logger *slog.Logger) *Factory {
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	if reg == nil {
		reg = formats.DefaultRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{
		cfg:     cfg,
		formats: reg,
		repo:    repo,
		slots:   semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
		log:     logger.With("component", "fetch"),
	}
}

// NewTask implements acquire.TaskFactory.
func (f *Factory) NewTask(key acquire.SourceKey, descriptor *modinfo.Info, resolve acquire.Resolver) acquire.Task {
	if resolve == nil {
		resolve = acquire.ResolveConflict
	}
	id := uuid.NewString()
	return &Task{
		id:      id,
		key:     key,
		resolve: resolve,
		f:       f,
		source:  descriptor,
		status:  acquire.StatusQueued,
		log:     f.log.With("task_id", id, "source", key),
	}
}

// partsDir holds part files under the mods directory.
const partsDir = ".nmm-parts"

// partFile returns the staging path for name fetched from key. It depends
// on the key so different sources never share a part file, and stays the
// same across restarts so a source resumes its own bytes.
func (f *Factory) partFile(key acquire.SourceKey, name string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(f.cfg.ModsDir, partsDir, hex.EncodeToString(sum[:8])+"-"+name+partSuffix)
}
