// Package acquire coordinates mod acquisitions: at most one task per source,
// durable pending records for restart, and catalog registration of results.
package acquire

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/smaitlx1/Nexus-Mod-Manager/internal/events"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/modinfo"
)

var errNoOutcome = errors.New("task closed without an outcome")

// Config holds queue settings.
type Config struct {
	GameMode            string
	AutoFillMissingInfo bool
}

// entry is a tracked task. The key is stored with the task so removal is
// a keyed delete guarded by entry identity.
type entry struct {
	key       SourceKey
	task      Task
	info      *modinfo.Info
	running   bool
	cancelled bool
}

// Queue owns the table of active acquisitions.
type Queue struct {
	cfg     Config
	factory TaskFactory
	catalog Catalog
	pending PendingStore
	tagger  Tagger
	monitor Monitor
	bus     *events.Bus
	log     *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	active map[SourceKey]*entry
	closed bool
}

// New creates a queue. The pending store may be nil to disable persistence.
func New(cfg Config, factory TaskFactory, cat Catalog, pending PendingStore, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		cfg:     cfg,
		factory: factory,
		catalog: cat,
		pending: pending,
		log:     logger,
		ctx:     ctx,
		cancel:  cancel,
		active:  make(map[SourceKey]*entry),
	}
}

// SetTagger configures the auto-tagger used when auto-fill is enabled.
func (q *Queue) SetTagger(t Tagger) {
	q.tagger = t
}

// SetMonitor configures the observer notified of every started task.
func (q *Queue) SetMonitor(m Monitor) {
	q.monitor = m
}

// SetBus configures the event bus for lifecycle events.
func (q *Queue) SetBus(b *events.Bus) {
	q.bus = b
}

// Request starts an acquisition for key, or returns the task already
// tracked for it. The bool reports whether a new task was started.
// A nil resolver selects ResolveConflict. Request does not wait on I/O.
func (q *Queue) Request(key SourceKey, resolve Resolver) (Task, bool, error) {
	return q.request(key, nil, resolve, false)
}

// RequestWithInfo is Request with known metadata about the source mod.
func (q *Queue) RequestWithInfo(key SourceKey, info *modinfo.Info, resolve Resolver) (Task, bool, error) {
	return q.request(key, info, resolve, false)
}

func (q *Queue) request(key SourceKey, info *modinfo.Info, resolve Resolver, reloaded bool) (Task, bool, error) {
	if resolve == nil {
		resolve = ResolveConflict
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil, false, ErrQueueClosed
	}
	if e, ok := q.active[key]; ok {
		q.mu.Unlock()
		q.log.Debug("acquisition already active", "source", key, "task_id", e.task.ID())
		return e.task, false, nil
	}

	task := q.factory.NewTask(key, info, resolve)
	e := &entry{key: key, task: task, info: info, running: true}
	q.active[key] = e
	q.wg.Add(1)
	q.mu.Unlock()

	if q.monitor != nil {
		q.monitor.Track(task)
	}

	q.log.Info("acquisition queued", "source", key, "task_id", task.ID(), "reloaded", reloaded)
	go q.run(e, true, reloaded)
	return task, true, nil
}

// Reload replays the pending records of the configured game mode. Each
// record is handled on its own: malformed ones are logged and skipped.
// It returns the number of records requested.
func (q *Queue) Reload(ctx context.Context) (int, error) {
	if q.pending == nil {
		return 0, nil
	}

	records, err := q.pending.Load(ctx, q.cfg.GameMode)
	if err != nil {
		return 0, err
	}

	var n int
	for _, rec := range records {
		key, info, err := decodeRecord(rec)
		if err != nil {
			q.log.Warn("skipping pending acquisition", "source", rec.Key, "error", err)
			continue
		}
		if _, _, err := q.request(key, info, ResolveConflict, true); err != nil {
			return n, err
		}
		n++
	}

	q.log.Info("pending acquisitions reloaded", "game_mode", q.cfg.GameMode, "requested", n, "records", len(records))
	return n, nil
}

// Get returns the task tracked for key.
func (q *Queue) Get(key SourceKey) (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	e, ok := q.active[key]
	if !ok {
		return nil, false
	}
	return e.task, true
}

// Active returns the tracked tasks ordered by source key.
func (q *Queue) Active() []Task {
	q.mu.Lock()
	keys := make([]SourceKey, 0, len(q.active))
	for k := range q.active {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	tasks := make([]Task, 0, len(keys))
	for _, k := range keys {
		tasks = append(tasks, q.active[k].task)
	}
	q.mu.Unlock()
	return tasks
}

// Len returns the number of tracked tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.active)
}

// Pause asks a running task to pause. The task stays tracked.
func (q *Queue) Pause(key SourceKey) error {
	q.mu.Lock()
	e, ok := q.active[key]
	q.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	p, ok := e.task.(Pauser)
	if !ok {
		return ErrNotPausable
	}
	p.Pause()
	return nil
}

// Resume restarts a suspended task through the same instance.
func (q *Queue) Resume(key SourceKey) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	e, ok := q.active[key]
	if !ok {
		q.mu.Unlock()
		return ErrNotFound
	}
	if e.running || e.cancelled {
		q.mu.Unlock()
		return ErrNotResumable
	}
	e.running = true
	q.wg.Add(1)
	q.mu.Unlock()

	q.log.Info("acquisition resumed", "source", key, "task_id", e.task.ID())
	go q.run(e, false, false)
	return nil
}

// Cancel terminates the task for key. A running task is removed when it
// reports its cancellation; a suspended one is removed immediately.
func (q *Queue) Cancel(key SourceKey) error {
	q.mu.Lock()
	e, ok := q.active[key]
	if !ok || e.cancelled {
		q.mu.Unlock()
		return ErrNotFound
	}
	e.cancelled = true
	running := e.running
	q.mu.Unlock()

	e.task.Terminate()
	if running {
		return nil
	}

	q.forget(e)

	q.mu.Lock()
	owned := q.active[key] == e
	if owned {
		delete(q.active, key)
	}
	q.mu.Unlock()

	if owned {
		q.log.Info("acquisition cancelled", "source", key, "task_id", e.task.ID())
		q.publishTerminal(e, Outcome{Status: StatusCancelled})
	}
	return nil
}

// Shutdown terminates every tracked task and waits for their watchers.
// Pending records are kept so the acquisitions resume on the next Reload.
func (q *Queue) Shutdown() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	tracked := make([]*entry, 0, len(q.active))
	for _, e := range q.active {
		tracked = append(tracked, e)
	}
	q.active = make(map[SourceKey]*entry)
	q.mu.Unlock()

	for _, e := range tracked {
		e.task.Terminate()
	}
	q.cancel()
	q.wg.Wait()

	q.log.Info("acquisition queue stopped", "terminated", len(tracked))
}

// run drives one run of a task and hands its outcome to onTerminal.
func (q *Queue) run(e *entry, first, reloaded bool) {
	defer q.wg.Done()

	if first {
		q.persist(e)
		q.publish(&events.AcquisitionQueued{
			BaseEvent: events.NewBaseEvent(events.EventAcquisitionQueued, events.EntityAcquisition, e.key.String()),
			TaskID:    e.task.ID(),
			Source:    e.key.String(),
			GameMode:  q.cfg.GameMode,
			Reloaded:  reloaded,
		})
	}

	done := e.task.Start(q.ctx)
	select {
	case out, ok := <-done:
		if !ok {
			out = Outcome{Status: StatusFailed, Err: errNoOutcome}
		}
		q.onTerminal(e, out)
	case <-q.ctx.Done():
		// Shutdown already dropped the entry
	}
}

// onTerminal applies a task outcome to the table. Outcomes for entries no
// longer tracked (shut down, cancelled or replaced) are ignored.
func (q *Queue) onTerminal(e *entry, out Outcome) {
	q.mu.Lock()
	if q.active[e.key] != e {
		q.mu.Unlock()
		q.log.Debug("ignoring outcome for untracked task", "source", e.key, "task_id", e.task.ID(), "status", out.Status)
		return
	}
	if out.Status.Suspended() && e.cancelled {
		// Cancel raced with the task suspending itself
		out = Outcome{Status: StatusCancelled}
	}
	if out.Status.Suspended() {
		e.running = false
		q.mu.Unlock()
		q.log.Info("acquisition suspended", "source", e.key, "task_id", e.task.ID(), "status", out.Status)
		q.publishTerminal(e, out)
		return
	}
	q.mu.Unlock()

	if !out.Status.IsTerminal() {
		q.log.Error("task reported non-terminal outcome", "source", e.key, "task_id", e.task.ID(), "status", out.Status)
		out = Outcome{Status: StatusFailed, Err: out.Err}
	}

	if out.Status == StatusComplete {
		q.register(e, out.Result)
	}

	// The entry still holds the key here, so no new task for it can
	// have saved a record that this removal would clobber.
	q.forget(e)

	q.mu.Lock()
	if q.active[e.key] == e {
		delete(q.active, e.key)
	}
	q.mu.Unlock()

	switch out.Status {
	case StatusComplete:
		q.log.Info("acquisition complete", "source", e.key, "task_id", e.task.ID())
	case StatusFailed:
		q.log.Warn("acquisition failed", "source", e.key, "task_id", e.task.ID(), "error", out.Err)
	case StatusCancelled:
		q.log.Info("acquisition cancelled", "source", e.key, "task_id", e.task.ID())
	}
	q.publishTerminal(e, out)
}

func (q *Queue) persist(e *entry) {
	if q.pending == nil {
		return
	}
	descriptor, err := encodeDescriptor(e.info)
	if err != nil {
		q.log.Error("encode pending descriptor", "source", e.key, "error", err)
	}
	rec := PendingRecord{GameMode: q.cfg.GameMode, Key: e.key.String(), Descriptor: descriptor}
	if err := q.pending.Save(context.WithoutCancel(q.ctx), rec); err != nil {
		q.log.Error("save pending acquisition", "source", e.key, "error", err)
	}
}

func (q *Queue) forget(e *entry) {
	if q.pending == nil {
		return
	}
	if err := q.pending.Remove(context.WithoutCancel(q.ctx), q.cfg.GameMode, e.key.String()); err != nil {
		q.log.Error("remove pending acquisition", "source", e.key, "error", err)
	}
}

func (q *Queue) publishTerminal(e *entry, out Outcome) {
	base := func(eventType string) events.BaseEvent {
		return events.NewBaseEvent(eventType, events.EntityAcquisition, e.key.String())
	}

	var ev events.Event
	switch out.Status {
	case StatusComplete:
		paths, _ := out.Result.([]string)
		ev = &events.AcquisitionCompleted{BaseEvent: base(events.EventAcquisitionCompleted), TaskID: e.task.ID(), Source: e.key.String(), Paths: paths}
	case StatusFailed:
		reason := ""
		if out.Err != nil {
			reason = out.Err.Error()
		}
		ev = &events.AcquisitionFailed{BaseEvent: base(events.EventAcquisitionFailed), TaskID: e.task.ID(), Source: e.key.String(), Reason: reason}
	case StatusCancelled:
		ev = &events.AcquisitionCancelled{BaseEvent: base(events.EventAcquisitionCancelled), TaskID: e.task.ID(), Source: e.key.String()}
	default:
		ev = &events.AcquisitionSuspended{BaseEvent: base(events.EventAcquisitionSuspended), TaskID: e.task.ID(), Source: e.key.String(), Status: string(out.Status)}
	}
	q.publish(ev)
}

func (q *Queue) publish(ev events.Event) {
	if err := q.bus.Publish(context.WithoutCancel(q.ctx), ev); err != nil {
		q.log.Error("failed to publish event", "type", ev.EventType(), "error", err)
	}
}
