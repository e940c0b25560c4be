package acquire_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/smaitlx1/Nexus-Mod-Manager/internal/acquire"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/acquire/mocks"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/catalog"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/events"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/modinfo"
)

const (
	gameMode = "skyrim"
	keyA     = acquire.SourceKey("nxm://skyrim/mods/1/files/10")
	keyB     = acquire.SourceKey("nxm://skyrim/mods/2/files/20")
)

// fakeTask lets tests decide when and how each run ends.
type fakeTask struct {
	id         string
	key        acquire.SourceKey
	descriptor *modinfo.Info
	resolve    acquire.Resolver

	mu              sync.Mutex
	status          acquire.Status
	current         chan acquire.Outcome
	starts          int
	terminated      bool
	ignoreTerminate bool
}

func (f *fakeTask) ID() string                 { return f.id }
func (f *fakeTask) Key() acquire.SourceKey     { return f.key }
func (f *fakeTask) Source() *modinfo.Info      { return nil }
func (f *fakeTask) Progress() acquire.Progress { return acquire.Progress{} }

func (f *fakeTask) Status() acquire.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *fakeTask) Start(context.Context) <-chan acquire.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan acquire.Outcome, 1)
	f.current = ch
	f.starts++
	f.status = acquire.StatusRunning
	return ch
}

func (f *fakeTask) Pause() {
	f.finish(acquire.Outcome{Status: acquire.StatusPaused})
}

func (f *fakeTask) Terminate() {
	f.mu.Lock()
	f.terminated = true
	ignore := f.ignoreTerminate
	f.mu.Unlock()
	if !ignore {
		f.finish(acquire.Outcome{Status: acquire.StatusCancelled})
	}
}

// finish ends the current run with out. It is a no-op between runs.
func (f *fakeTask) finish(out acquire.Outcome) {
	f.mu.Lock()
	ch := f.current
	f.current = nil
	if ch != nil {
		f.status = out.Status
	}
	f.mu.Unlock()
	if ch == nil {
		return
	}
	ch <- out
	close(ch)
}

// closeRun closes the current run's channel without an outcome.
func (f *fakeTask) closeRun() {
	f.mu.Lock()
	ch := f.current
	f.current = nil
	f.mu.Unlock()
	close(ch)
}

func (f *fakeTask) startCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts
}

func (f *fakeTask) isTerminated() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.terminated
}

type fakeFactory struct {
	mu              sync.Mutex
	tasks           []*fakeTask
	ignoreTerminate bool
}

func (f *fakeFactory) NewTask(key acquire.SourceKey, descriptor *modinfo.Info, resolve acquire.Resolver) acquire.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTask{
		id:              fmt.Sprintf("task-%d", len(f.tasks)+1),
		key:             key,
		descriptor:      descriptor,
		resolve:         resolve,
		status:          acquire.StatusQueued,
		ignoreTerminate: f.ignoreTerminate,
	}
	f.tasks = append(f.tasks, t)
	return t
}

func (f *fakeFactory) created() []*fakeTask {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*fakeTask(nil), f.tasks...)
}

type harness struct {
	queue   *acquire.Queue
	factory *fakeFactory
	catalog *mocks.MockCatalog
	tagger  *mocks.MockTagger
	pending *mocks.MockPendingStore
	bus     *events.Bus
}

func newHarness(t *testing.T, autoFill bool) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	h := &harness{
		factory: &fakeFactory{},
		catalog: mocks.NewMockCatalog(ctrl),
		tagger:  mocks.NewMockTagger(ctrl),
		pending: mocks.NewMockPendingStore(ctrl),
		bus:     events.NewBus(nil, nil),
	}
	h.queue = acquire.New(acquire.Config{GameMode: gameMode, AutoFillMissingInfo: autoFill}, h.factory, h.catalog, h.pending, nil)
	h.queue.SetTagger(h.tagger)
	h.queue.SetBus(h.bus)
	t.Cleanup(func() {
		h.queue.Shutdown()
		_ = h.bus.Close()
	})
	return h
}

// allowPersistence accepts any pending store writes.
func (h *harness) allowPersistence() {
	h.pending.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	h.pending.EXPECT().Remove(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func waitStarts(t *testing.T, task *fakeTask, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return task.startCount() == n }, 2*time.Second, 5*time.Millisecond)
}

func waitLen(t *testing.T, q *acquire.Queue, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return q.Len() == n }, 2*time.Second, 5*time.Millisecond)
}

func waitEvent(t *testing.T, ch <-chan events.Event) events.Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestQueue_RequestDeduplicatesConcurrentCallers(t *testing.T) {
	h := newHarness(t, false)
	h.pending.EXPECT().
		Save(gomock.Any(), acquire.PendingRecord{GameMode: gameMode, Key: keyA.String()}).
		Return(nil).
		Times(1)

	const callers = 50
	var wg sync.WaitGroup
	tasks := make([]acquire.Task, callers)
	created := make([]bool, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			task, isNew, err := h.queue.Request(keyA, nil)
			assert.NoError(t, err)
			tasks[i], created[i] = task, isNew
		}()
	}
	wg.Wait()

	require.Len(t, h.factory.created(), 1)
	var newCount int
	for i := range callers {
		assert.Same(t, tasks[0], tasks[i])
		if created[i] {
			newCount++
		}
	}
	assert.Equal(t, 1, newCount)
	assert.Equal(t, 1, h.queue.Len())

	task := h.factory.created()[0]
	waitStarts(t, task, 1)
	assert.NotNil(t, task.resolve, "nil resolver selects the default")
}

func TestQueue_CompleteRegistersAndTags(t *testing.T) {
	h := newHarness(t, true)
	info := &modinfo.Info{ID: "1", Name: "SkyUI"}

	gomock.InOrder(
		h.pending.EXPECT().Save(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, rec acquire.PendingRecord) error {
				assert.Equal(t, keyA.String(), rec.Key)
				assert.JSONEq(t, `{"id":"1","name":"SkyUI"}`, rec.Descriptor)
				return nil
			}),
		h.pending.EXPECT().Remove(gomock.Any(), gomock.Eq(gameMode), gomock.Eq(keyA.String())).Return(nil),
	)

	modA := &catalog.Mod{ID: 1, Path: "/mods/a.zip"}
	modB := &catalog.Mod{ID: 2, Path: "/mods/b.esp"}
	h.catalog.EXPECT().RegisterMod(gomock.Any(), "/mods/a.zip").Return(modA, nil).Times(1)
	h.catalog.EXPECT().RegisterMod(gomock.Any(), "/mods/b.esp").Return(modB, nil).Times(1)
	h.tagger.EXPECT().Tag(gomock.Any(), modA, info, false).Return(nil).Times(1)
	h.tagger.EXPECT().Tag(gomock.Any(), modB, info, false).Return(nil).Times(1)

	registered := h.bus.Subscribe(events.EventModRegistered, 10)
	completed := h.bus.Subscribe(events.EventAcquisitionCompleted, 10)

	_, _, err := h.queue.RequestWithInfo(keyA, info, nil)
	require.NoError(t, err)
	task := h.factory.created()[0]
	assert.Same(t, info, task.descriptor)
	waitStarts(t, task, 1)

	task.finish(acquire.Outcome{Status: acquire.StatusComplete, Result: []string{"/mods/a.zip", "/mods/b.esp"}})

	waitLen(t, h.queue, 0)
	assert.Equal(t, "/mods/a.zip", waitEvent(t, registered).(*events.ModRegistered).Path)
	assert.Equal(t, "/mods/b.esp", waitEvent(t, registered).(*events.ModRegistered).Path)
	ev := waitEvent(t, completed).(*events.AcquisitionCompleted)
	assert.Equal(t, task.ID(), ev.TaskID)
	assert.Equal(t, []string{"/mods/a.zip", "/mods/b.esp"}, ev.Paths)
}

func TestQueue_CompleteRegistersBeforeDroppingRecord(t *testing.T) {
	h := newHarness(t, false)
	h.pending.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	gomock.InOrder(
		h.catalog.EXPECT().RegisterMod(gomock.Any(), "/mods/a.zip").Return(&catalog.Mod{ID: 1}, nil),
		h.pending.EXPECT().Remove(gomock.Any(), gameMode, keyA.String()).Return(nil),
	)

	_, _, err := h.queue.RequestWithInfo(keyA, &modinfo.Info{Name: "SkyUI"}, nil)
	require.NoError(t, err)
	task := h.factory.created()[0]
	waitStarts(t, task, 1)

	task.finish(acquire.Outcome{Status: acquire.StatusComplete, Result: []string{"/mods/a.zip"}})
	waitLen(t, h.queue, 0)
}

func TestQueue_CompleteWithoutAutoFillSkipsTagger(t *testing.T) {
	h := newHarness(t, false)
	h.allowPersistence()
	h.catalog.EXPECT().RegisterMod(gomock.Any(), "/mods/a.zip").Return(&catalog.Mod{ID: 1}, nil).Times(1)

	_, _, err := h.queue.RequestWithInfo(keyA, &modinfo.Info{Name: "SkyUI"}, nil)
	require.NoError(t, err)
	task := h.factory.created()[0]
	waitStarts(t, task, 1)

	task.finish(acquire.Outcome{Status: acquire.StatusComplete, Result: []string{"/mods/a.zip"}})
	waitLen(t, h.queue, 0)
}

func TestQueue_CompleteWithoutSourceSkipsTagger(t *testing.T) {
	h := newHarness(t, true)
	h.allowPersistence()
	h.catalog.EXPECT().RegisterMod(gomock.Any(), "/mods/a.zip").Return(&catalog.Mod{ID: 1}, nil).Times(1)

	_, _, err := h.queue.Request(keyA, nil)
	require.NoError(t, err)
	task := h.factory.created()[0]
	waitStarts(t, task, 1)

	task.finish(acquire.Outcome{Status: acquire.StatusComplete, Result: []string{"/mods/a.zip"}})
	waitLen(t, h.queue, 0)
}

func TestQueue_CompleteWithOtherPayloadRegistersNothing(t *testing.T) {
	payloads := []any{nil, "/mods/a.zip", []string{}, map[string]string{"path": "/mods/a.zip"}}

	for _, payload := range payloads {
		t.Run(fmt.Sprintf("%T", payload), func(t *testing.T) {
			h := newHarness(t, true)
			h.allowPersistence()

			_, _, err := h.queue.Request(keyA, nil)
			require.NoError(t, err)
			task := h.factory.created()[0]
			waitStarts(t, task, 1)

			task.finish(acquire.Outcome{Status: acquire.StatusComplete, Result: payload})
			waitLen(t, h.queue, 0)
		})
	}
}

func TestQueue_RegisterFailureContinues(t *testing.T) {
	h := newHarness(t, false)
	h.allowPersistence()
	h.catalog.EXPECT().RegisterMod(gomock.Any(), "/mods/a.zip").Return(nil, errors.New("disk full"))
	h.catalog.EXPECT().RegisterMod(gomock.Any(), "/mods/b.zip").Return(&catalog.Mod{ID: 2}, nil)

	_, _, err := h.queue.Request(keyA, nil)
	require.NoError(t, err)
	task := h.factory.created()[0]
	waitStarts(t, task, 1)

	task.finish(acquire.Outcome{Status: acquire.StatusComplete, Result: []string{"/mods/a.zip", "/mods/b.zip"}})
	waitLen(t, h.queue, 0)
}

func TestQueue_TerminalOutcomesRemoveEntry(t *testing.T) {
	tests := []struct {
		status    acquire.Status
		eventType string
	}{
		{acquire.StatusFailed, events.EventAcquisitionFailed},
		{acquire.StatusCancelled, events.EventAcquisitionCancelled},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			h := newHarness(t, true)
			h.pending.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(1)
			h.pending.EXPECT().Remove(gomock.Any(), gameMode, keyA.String()).Return(nil).Times(1)
			sub := h.bus.Subscribe(tt.eventType, 1)

			_, _, err := h.queue.Request(keyA, nil)
			require.NoError(t, err)
			task := h.factory.created()[0]
			waitStarts(t, task, 1)

			task.finish(acquire.Outcome{Status: tt.status, Err: errors.New("boom")})
			waitLen(t, h.queue, 0)
			assert.Equal(t, tt.eventType, waitEvent(t, sub).EventType())

			_, ok := h.queue.Get(keyA)
			assert.False(t, ok)
		})
	}
}

func TestQueue_ClosedWithoutOutcomeFails(t *testing.T) {
	h := newHarness(t, false)
	h.allowPersistence()
	failed := h.bus.Subscribe(events.EventAcquisitionFailed, 1)

	_, _, err := h.queue.Request(keyA, nil)
	require.NoError(t, err)
	task := h.factory.created()[0]
	waitStarts(t, task, 1)

	task.closeRun()
	waitLen(t, h.queue, 0)
	assert.NotEmpty(t, waitEvent(t, failed).(*events.AcquisitionFailed).Reason)
}

func TestQueue_NewRequestAfterCompletionStartsNewTask(t *testing.T) {
	h := newHarness(t, false)
	h.allowPersistence()

	first, _, err := h.queue.Request(keyA, nil)
	require.NoError(t, err)
	waitStarts(t, first.(*fakeTask), 1)
	first.(*fakeTask).finish(acquire.Outcome{Status: acquire.StatusFailed})
	waitLen(t, h.queue, 0)

	second, isNew, err := h.queue.Request(keyA, nil)
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.NotSame(t, first, second)
}

func TestQueue_SuspendedKeepsEntry(t *testing.T) {
	for _, status := range []acquire.Status{acquire.StatusPaused, acquire.StatusIncomplete} {
		t.Run(string(status), func(t *testing.T) {
			h := newHarness(t, false)
			h.pending.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(1)
			suspended := h.bus.Subscribe(events.EventAcquisitionSuspended, 1)

			task, _, err := h.queue.Request(keyA, nil)
			require.NoError(t, err)
			ft := task.(*fakeTask)
			waitStarts(t, ft, 1)

			ft.finish(acquire.Outcome{Status: status})
			ev := waitEvent(t, suspended).(*events.AcquisitionSuspended)
			assert.Equal(t, string(status), ev.Status)

			got, ok := h.queue.Get(keyA)
			require.True(t, ok)
			assert.Same(t, task, got)

			again, isNew, err := h.queue.Request(keyA, nil)
			require.NoError(t, err)
			assert.False(t, isNew)
			assert.Same(t, task, again)
		})
	}
}

func TestQueue_PauseAndResume(t *testing.T) {
	h := newHarness(t, false)
	h.pending.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	h.pending.EXPECT().Remove(gomock.Any(), gameMode, keyA.String()).Return(nil).Times(1)
	h.catalog.EXPECT().RegisterMod(gomock.Any(), "/mods/a.zip").Return(&catalog.Mod{ID: 1}, nil)
	suspended := h.bus.Subscribe(events.EventAcquisitionSuspended, 1)

	task, _, err := h.queue.Request(keyA, nil)
	require.NoError(t, err)
	ft := task.(*fakeTask)
	waitStarts(t, ft, 1)

	assert.ErrorIs(t, h.queue.Resume(keyA), acquire.ErrNotResumable, "still running")

	require.NoError(t, h.queue.Pause(keyA))
	waitEvent(t, suspended)
	assert.Equal(t, 1, h.queue.Len())

	require.NoError(t, h.queue.Resume(keyA))
	waitStarts(t, ft, 2)
	assert.Len(t, h.factory.created(), 1, "resume reuses the task")

	ft.finish(acquire.Outcome{Status: acquire.StatusComplete, Result: []string{"/mods/a.zip"}})
	waitLen(t, h.queue, 0)
}

func TestQueue_PauseResumeUnknown(t *testing.T) {
	h := newHarness(t, false)

	assert.ErrorIs(t, h.queue.Pause(keyA), acquire.ErrNotFound)
	assert.ErrorIs(t, h.queue.Resume(keyA), acquire.ErrNotFound)
	assert.ErrorIs(t, h.queue.Cancel(keyA), acquire.ErrNotFound)
}

func TestQueue_CancelRunning(t *testing.T) {
	h := newHarness(t, false)
	h.pending.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	h.pending.EXPECT().Remove(gomock.Any(), gameMode, keyA.String()).Return(nil).Times(1)
	cancelled := h.bus.Subscribe(events.EventAcquisitionCancelled, 1)

	task, _, err := h.queue.Request(keyA, nil)
	require.NoError(t, err)
	waitStarts(t, task.(*fakeTask), 1)

	require.NoError(t, h.queue.Cancel(keyA))
	waitLen(t, h.queue, 0)
	waitEvent(t, cancelled)
	assert.True(t, task.(*fakeTask).isTerminated())
}

func TestQueue_CancelSuspended(t *testing.T) {
	h := newHarness(t, false)
	h.pending.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	h.pending.EXPECT().Remove(gomock.Any(), gameMode, keyA.String()).Return(nil).Times(1)
	suspended := h.bus.Subscribe(events.EventAcquisitionSuspended, 1)
	cancelled := h.bus.Subscribe(events.EventAcquisitionCancelled, 1)

	task, _, err := h.queue.Request(keyA, nil)
	require.NoError(t, err)
	ft := task.(*fakeTask)
	waitStarts(t, ft, 1)
	ft.finish(acquire.Outcome{Status: acquire.StatusIncomplete})
	waitEvent(t, suspended)

	require.NoError(t, h.queue.Cancel(keyA))
	assert.Equal(t, 0, h.queue.Len())
	assert.True(t, ft.isTerminated())
	waitEvent(t, cancelled)

	assert.ErrorIs(t, h.queue.Cancel(keyA), acquire.ErrNotFound)
}

func TestQueue_ActiveSortedByKey(t *testing.T) {
	h := newHarness(t, false)
	h.allowPersistence()

	_, _, err := h.queue.Request(keyB, nil)
	require.NoError(t, err)
	_, _, err = h.queue.Request(keyA, nil)
	require.NoError(t, err)

	active := h.queue.Active()
	require.Len(t, active, 2)
	assert.Equal(t, keyA, active[0].Key())
	assert.Equal(t, keyB, active[1].Key())
}

func TestQueue_MonitorTracksNewTasks(t *testing.T) {
	h := newHarness(t, false)
	h.allowPersistence()
	monitor := mocks.NewMockMonitor(gomock.NewController(t))
	h.queue.SetMonitor(monitor)

	monitor.EXPECT().Track(gomock.Any()).Do(func(task acquire.Task) {
		assert.Equal(t, keyA, task.Key())
	}).Times(1)

	_, _, err := h.queue.Request(keyA, nil)
	require.NoError(t, err)
	_, _, err = h.queue.Request(keyA, nil)
	require.NoError(t, err)
}

func TestQueue_Reload(t *testing.T) {
	h := newHarness(t, false)
	h.pending.EXPECT().Load(gomock.Any(), gameMode).Return([]acquire.PendingRecord{
		{GameMode: gameMode, Key: keyA.String(), Descriptor: `{"name":"SkyUI"}`},
		{GameMode: gameMode, Key: "ftp://example.com/bad.zip"},
		{GameMode: gameMode, Key: "https://example.com/c.zip", Descriptor: "{broken"},
		{GameMode: gameMode, Key: keyB.String()},
	}, nil)
	h.pending.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	queued := h.bus.Subscribe(events.EventAcquisitionQueued, 2)

	n, err := h.queue.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	created := h.factory.created()
	require.Len(t, created, 2)
	assert.Equal(t, keyA, created[0].key)
	require.NotNil(t, created[0].descriptor)
	assert.Equal(t, "SkyUI", created[0].descriptor.Name)
	assert.Equal(t, keyB, created[1].key)
	assert.Nil(t, created[1].descriptor)

	for range 2 {
		assert.True(t, waitEvent(t, queued).(*events.AcquisitionQueued).Reloaded)
	}
}

func TestQueue_ReloadLoadError(t *testing.T) {
	h := newHarness(t, false)
	h.pending.EXPECT().Load(gomock.Any(), gameMode).Return(nil, errors.New("db locked"))

	n, err := h.queue.Reload(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 0, n)
}

func TestQueue_ReloadWithoutStore(t *testing.T) {
	q := acquire.New(acquire.Config{GameMode: gameMode}, &fakeFactory{}, nil, nil, nil)
	defer q.Shutdown()

	n, err := q.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestQueue_Shutdown(t *testing.T) {
	h := newHarness(t, true)
	h.factory.ignoreTerminate = true
	h.pending.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	a, _, err := h.queue.Request(keyA, nil)
	require.NoError(t, err)
	b, _, err := h.queue.Request(keyB, nil)
	require.NoError(t, err)
	waitStarts(t, a.(*fakeTask), 1)
	waitStarts(t, b.(*fakeTask), 1)

	h.queue.Shutdown()

	assert.Equal(t, 0, h.queue.Len())
	assert.True(t, a.(*fakeTask).isTerminated())
	assert.True(t, b.(*fakeTask).isTerminated())

	// Outcomes arriving after shutdown are ignored: no registration, no
	// pending record removal.
	a.(*fakeTask).finish(acquire.Outcome{Status: acquire.StatusComplete, Result: []string{"/mods/a.zip"}})

	_, _, err = h.queue.Request(keyA, nil)
	assert.ErrorIs(t, err, acquire.ErrQueueClosed)
	assert.ErrorIs(t, h.queue.Resume(keyA), acquire.ErrQueueClosed)

	h.queue.Shutdown()
}

func TestQueue_PendingStoreErrorsDoNotBlock(t *testing.T) {
	h := newHarness(t, false)
	h.pending.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("read-only"))
	h.pending.EXPECT().Remove(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("read-only"))

	task, _, err := h.queue.Request(keyA, nil)
	require.NoError(t, err)
	waitStarts(t, task.(*fakeTask), 1)

	task.(*fakeTask).finish(acquire.Outcome{Status: acquire.StatusFailed})
	waitLen(t, h.queue, 0)
}
