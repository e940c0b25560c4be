package acquire

// Status is the lifecycle state of an acquisition task.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusRunning    Status = "running"
	StatusComplete   Status = "complete"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
	StatusIncomplete Status = "incomplete"
	StatusPaused     Status = "paused"
)

// IsTerminal returns true if the task is finished and leaves the queue.
func (s Status) IsTerminal() bool {
	return s == StatusComplete || s == StatusFailed || s == StatusCancelled
}

// Suspended returns true if the task stopped but can be resumed.
// Suspended tasks stay in the queue.
func (s Status) Suspended() bool {
	return s == StatusIncomplete || s == StatusPaused
}
