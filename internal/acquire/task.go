package acquire

//go:generate mockgen -destination=mocks/mocks.go -package=mocks . Catalog,Tagger,Monitor,PendingStore

import (
	"context"

	"github.com/smaitlx1/Nexus-Mod-Manager/internal/catalog"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/modinfo"
)

// Outcome is the end state of one run of a task.
type Outcome struct {
	Status Status
	Result any // []string of installed paths on StatusComplete
	Err    error
}

// Progress reports transferred bytes for a task. Total is 0 when unknown.
type Progress struct {
	Done  int64 `json:"done"`
	Total int64 `json:"total"`
}

// Task is one in-flight acquisition of a mod from a source.
type Task interface {
	// ID returns a unique identifier for this task instance.
	ID() string
	// Key returns the source the task acquires.
	Key() SourceKey
	// Source returns metadata about the originating mod, nil if unknown.
	Source() *modinfo.Info
	// Status returns the current lifecycle state.
	Status() Status
	// Progress returns the current transfer progress.
	Progress() Progress
	// Start begins a run and returns a channel that receives exactly one
	// Outcome and is then closed. A suspended task may be started again.
	Start(ctx context.Context) <-chan Outcome
	// Terminate forcibly cancels the task.
	Terminate()
}

// Pauser is implemented by tasks that can be paused. A paused run ends
// with StatusPaused.
type Pauser interface {
	Pause()
}

// Resolver picks a free destination path for dst.
type Resolver func(dst string) (string, error)

// TaskFactory builds tasks bound to the game, environment, format registry
// and source repository it was created with.
type TaskFactory interface {
	NewTask(key SourceKey, descriptor *modinfo.Info, resolve Resolver) Task
}

// Catalog registers installed mods.
type Catalog interface {
	RegisterMod(ctx context.Context, path string) (*catalog.Mod, error)
}

// Tagger fills mod metadata from its source.
type Tagger interface {
	Tag(ctx context.Context, mod *catalog.Mod, info *modinfo.Info, overwrite bool) error
}

// Monitor observes started tasks, e.g. for progress display.
type Monitor interface {
	Track(task Task)
}
