package v1

import (
	"context"
	"errors"

	"github.com/smaitlx1/Nexus-Mod-Manager/internal/acquire"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/activity"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/catalog"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/events"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/modinfo"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks . Queue,ModStore,ActivityMonitor,PendingCounter

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

// Queue is the acquisition queue as the API drives it.
type Queue interface {
	RequestWithInfo(key acquire.SourceKey, info *modinfo.Info, resolve acquire.Resolver) (acquire.Task, bool, error)
	Get(key acquire.SourceKey) (acquire.Task, bool)
	Active() []acquire.Task
	Pause(key acquire.SourceKey) error
	Resume(key acquire.SourceKey) error
	Cancel(key acquire.SourceKey) error
}

// ModStore reads the mod catalog.
type ModStore interface {
	Get(ctx context.Context, id int64) (*catalog.Mod, error)
	List(ctx context.Context, f catalog.Filter) ([]*catalog.Mod, int, error)
}

// ActivityMonitor provides the live task view.
type ActivityMonitor interface {
	Snapshot() []activity.Item
}

// PendingCounter counts persisted acquisitions waiting to be restored.
type PendingCounter interface {
	Count(ctx context.Context, gameMode string) (int, error)
}

// ServerDeps contains all dependencies for the API server.
// Required dependencies must be non-nil; optional dependencies may be nil.
type ServerDeps struct {
	// Required dependencies
	Queue Queue
	Mods  ModStore

	// Optional dependencies (nil if not configured)
	Activity ActivityMonitor
	EventLog *events.EventLog
	Pending  PendingCounter
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	if d.Queue == nil {
		return errors.New("acquisition queue is required")
	}
	if d.Mods == nil {
		return errors.New("mod store is required")
	}
	return nil
}
