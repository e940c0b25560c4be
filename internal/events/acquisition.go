// internal/events/acquisition.go
package events

// Entity types
const (
	EntityAcquisition = "acquisition"
	EntityMod         = "mod"
)

// Event type constants
const (
	EventAcquisitionQueued    = "acquisition.queued"
	EventAcquisitionCompleted = "acquisition.completed"
	EventAcquisitionFailed    = "acquisition.failed"
	EventAcquisitionCancelled = "acquisition.cancelled"
	EventAcquisitionSuspended = "acquisition.suspended"
	EventModRegistered        = "mod.registered"
	EventModTagged            = "mod.tagged"
)

// AcquisitionQueued is emitted when a new task is started for a source.
// The entity ID is the source key.
type AcquisitionQueued struct {
	BaseEvent
	TaskID   string `json:"task_id"`
	Source   string `json:"source"`
	GameMode string `json:"game_mode"`
	Reloaded bool   `json:"reloaded,omitempty"` // Replayed from the pending store
}

// AcquisitionCompleted is emitted when a task installs its files.
type AcquisitionCompleted struct {
	BaseEvent
	TaskID string   `json:"task_id"`
	Source string   `json:"source"`
	Paths  []string `json:"paths,omitempty"`
}

// AcquisitionFailed is emitted when a task fails.
type AcquisitionFailed struct {
	BaseEvent
	TaskID string `json:"task_id"`
	Source string `json:"source"`
	Reason string `json:"reason"`
}

// AcquisitionCancelled is emitted when a task is terminated.
type AcquisitionCancelled struct {
	BaseEvent
	TaskID string `json:"task_id"`
	Source string `json:"source"`
}

// AcquisitionSuspended is emitted when a task pauses or stops with an
// incomplete transfer. The task stays queued and can be resumed.
type AcquisitionSuspended struct {
	BaseEvent
	TaskID string `json:"task_id"`
	Source string `json:"source"`
	Status string `json:"status"` // "paused" or "incomplete"
}

// ModRegistered is emitted when an installed file is added to the catalog.
// The entity ID is the catalog mod ID.
type ModRegistered struct {
	BaseEvent
	ModID  int64  `json:"mod_id"`
	Path   string `json:"path"`
	Source string `json:"source"`
}

// ModTagged is emitted when the auto-tagger fills in mod metadata.
type ModTagged struct {
	BaseEvent
	ModID int64  `json:"mod_id"`
	Name  string `json:"name,omitempty"`
}
