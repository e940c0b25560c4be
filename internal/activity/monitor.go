// Package activity keeps a live view of acquisition tasks for display.
package activity

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/smaitlx1/Nexus-Mod-Manager/internal/acquire"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/events"
)

const (
	DefaultRetention = 10 * time.Minute
	pruneInterval    = time.Minute
)

// Item is a point-in-time view of one task.
type Item struct {
	TaskID     string           `json:"task_id"`
	Source     string           `json:"source"`
	Name       string           `json:"name,omitempty"`
	Status     acquire.Status   `json:"status"`
	Progress   acquire.Progress `json:"progress"`
	Error      string           `json:"error,omitempty"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt *time.Time       `json:"finished_at,omitempty"`
}

type tracked struct {
	task       acquire.Task
	startedAt  time.Time
	finishedAt time.Time
	reason     string
}

// Monitor observes tasks handed to it by the queue. Finished tasks stay
// visible for the retention window.
type Monitor struct {
	bus       *events.Bus
	retention time.Duration
	log       *slog.Logger
	now       func() time.Time

	mu    sync.RWMutex
	tasks map[string]*tracked // task ID -> tracked
}

var _ acquire.Monitor = (*Monitor)(nil)

// NewMonitor creates a monitor. A zero retention selects DefaultRetention.
func NewMonitor(bus *events.Bus, retention time.Duration, logger *slog.Logger) *Monitor {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		bus:       bus,
		retention: retention,
		log:       logger.With("component", "activity"),
		now:       time.Now,
		tasks:     make(map[string]*tracked),
	}
}

// Name returns the handler name.
func (m *Monitor) Name() string {
	return "activity"
}

// Track implements acquire.Monitor.
func (m *Monitor) Track(task acquire.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[task.ID()] = &tracked{task: task, startedAt: m.now()}
}

// Snapshot returns every tracked task, oldest first.
func (m *Monitor) Snapshot() []Item {
	m.mu.RLock()
	items := make([]Item, 0, len(m.tasks))
	for _, t := range m.tasks {
		item := Item{
			TaskID:    t.task.ID(),
			Source:    t.task.Key().String(),
			Status:    t.task.Status(),
			Progress:  t.task.Progress(),
			Error:     t.reason,
			StartedAt: t.startedAt,
		}
		if src := t.task.Source(); src != nil {
			item.Name = src.Name
		}
		if !t.finishedAt.IsZero() {
			finished := t.finishedAt
			item.FinishedAt = &finished
		}
		items = append(items, item)
	}
	m.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		if items[i].StartedAt.Equal(items[j].StartedAt) {
			return items[i].TaskID < items[j].TaskID
		}
		return items[i].StartedAt.Before(items[j].StartedAt)
	})
	return items
}

// Start stamps finish times from acquisition events and prunes finished
// tasks until ctx is done.
func (m *Monitor) Start(ctx context.Context) error {
	completed := m.bus.Subscribe(events.EventAcquisitionCompleted, 100)
	failed := m.bus.Subscribe(events.EventAcquisitionFailed, 100)
	cancelled := m.bus.Subscribe(events.EventAcquisitionCancelled, 100)
	defer m.bus.Unsubscribe(completed)
	defer m.bus.Unsubscribe(failed)
	defer m.bus.Unsubscribe(cancelled)

	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case e := <-completed:
			if e == nil {
				return nil // Channel closed
			}
			m.finish(e.(*events.AcquisitionCompleted).TaskID, "")
		case e := <-failed:
			if e == nil {
				return nil
			}
			ev := e.(*events.AcquisitionFailed)
			m.finish(ev.TaskID, ev.Reason)
		case e := <-cancelled:
			if e == nil {
				return nil
			}
			m.finish(e.(*events.AcquisitionCancelled).TaskID, "")
		case <-ticker.C:
			m.Prune()
		case <-ctx.Done():
			return nil
		}
	}
}

func (m *Monitor) finish(taskID, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[taskID]
	if !ok {
		return
	}
	t.finishedAt = m.now()
	t.reason = reason
}

// Prune drops tasks that finished longer ago than the retention window.
// It returns the number dropped.
func (m *Monitor) Prune() int {
	cutoff := m.now().Add(-m.retention)

	m.mu.Lock()
	defer m.mu.Unlock()
	var n int
	for id, t := range m.tasks {
		if !t.finishedAt.IsZero() && t.finishedAt.Before(cutoff) {
			delete(m.tasks, id)
			n++
		}
	}
	if n > 0 {
		m.log.Debug("pruned finished tasks", "count", n)
	}
	return n
}
