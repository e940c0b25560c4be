package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/smaitlx1/Nexus-Mod-Manager/internal/acquire"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/modinfo"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/repository"
)

const partSuffix = ".part"

var errAlreadyRunning = errors.New("task already running")

// Task downloads one mod file into the mods directory. A paused or
// incomplete task keeps its part file and resumes from it on the next Start.
type Task struct {
	id      string
	key     acquire.SourceKey
	resolve acquire.Resolver
	f       *Factory
	log     *slog.Logger

	done  atomic.Int64
	total atomic.Int64

	mu         sync.Mutex
	status     acquire.Status
	source     *modinfo.Info
	part       string
	cancel     context.CancelFunc
	stop       acquire.Status // Requested stop: paused or cancelled
	terminated bool
}

var (
	_ acquire.Task   = (*Task)(nil)
	_ acquire.Pauser = (*Task)(nil)
)

func (t *Task) ID() string             { return t.id }
func (t *Task) Key() acquire.SourceKey { return t.key }

func (t *Task) Source() *modinfo.Info {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.source
}

func (t *Task) Status() acquire.Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *Task) Progress() acquire.Progress {
	return acquire.Progress{Done: t.done.Load(), Total: t.total.Load()}
}

// Start begins a run. The returned channel is buffered, so the run never
// blocks on a reader that went away.
func (t *Task) Start(ctx context.Context) <-chan acquire.Outcome {
	out := make(chan acquire.Outcome, 1)

	t.mu.Lock()
	switch {
	case t.terminated:
		t.status = acquire.StatusCancelled
		t.mu.Unlock()
		out <- acquire.Outcome{Status: acquire.StatusCancelled}
		close(out)
		return out
	case t.status == acquire.StatusRunning:
		t.mu.Unlock()
		out <- acquire.Outcome{Status: acquire.StatusFailed, Err: errAlreadyRunning}
		close(out)
		return out
	}
	runCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.stop = ""
	t.status = acquire.StatusRunning
	t.mu.Unlock()

	go func() {
		defer close(out)
		defer cancel()

		o := t.run(runCtx)

		t.mu.Lock()
		t.status = o.Status
		t.cancel = nil
		t.mu.Unlock()

		out <- o
	}()
	return out
}

// Pause stops a running transfer and keeps the part file.
func (t *Task) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status != acquire.StatusRunning || t.stop != "" {
		return
	}
	t.stop = acquire.StatusPaused
	t.cancel()
}

// Terminate cancels the task and removes its part file. A terminated task
// cannot be started again.
func (t *Task) Terminate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.terminated {
		return
	}
	t.terminated = true
	t.stop = acquire.StatusCancelled
	if t.status == acquire.StatusRunning {
		t.cancel()
		return
	}
	if !t.status.IsTerminal() {
		t.status = acquire.StatusCancelled
		t.removePart()
	}
}

func (t *Task) run(ctx context.Context) acquire.Outcome {
	if err := t.f.slots.Acquire(ctx, 1); err != nil {
		return t.interrupted(ctx, err)
	}
	defer t.f.slots.Release(1)

	o, err := t.f.resolveOrigin(ctx, t.key)
	if err != nil {
		return t.interrupted(ctx, fmt.Errorf("resolve source: %w", err))
	}

	name, err := safeName(o.name)
	if err != nil {
		return t.failed(err)
	}

	t.mu.Lock()
	if t.source == nil {
		t.source = o.info
	}
	t.part = t.f.partFile(t.key, name)
	t.mu.Unlock()

	if _, ok := t.f.formats.Detect(name); !ok {
		t.log.Warn("skipping unrecognized mod format", "file", name)
		return acquire.Outcome{Status: acquire.StatusComplete, Result: []string{}}
	}

	if o.size > 0 {
		t.total.Store(o.size)
	}
	if err := t.transfer(ctx, o); err != nil {
		return t.interrupted(ctx, err)
	}

	dst, err := t.install(name)
	if errors.Is(err, acquire.ErrNoAvailableDestination) {
		t.log.Warn("no free destination, skipping file", "file", name)
		t.removePart()
		return acquire.Outcome{Status: acquire.StatusComplete, Result: []string{}}
	}
	if err != nil {
		return t.failed(err)
	}

	t.log.Info("mod file installed", "path", dst, "bytes", t.done.Load())
	return acquire.Outcome{Status: acquire.StatusComplete, Result: []string{dst}}
}

// install moves the part file to a free destination for name. Tasks of one
// factory install one at a time so two of them never pick the same path.
func (t *Task) install(name string) (string, error) {
	t.f.install.Lock()
	defer t.f.install.Unlock()

	dst, err := t.resolve(filepath.Join(t.f.cfg.ModsDir, name))
	if errors.Is(err, acquire.ErrNoAvailableDestination) {
		return "", err
	}
	if err != nil {
		return "", fmt.Errorf("resolve destination: %w", err)
	}
	if err := os.Rename(t.partPath(), dst); err != nil {
		return "", fmt.Errorf("install %s: %w", name, err)
	}
	return dst, nil
}

// transfer appends the source to the part file, resuming at its size.
func (t *Task) transfer(ctx context.Context, o *origin) error {
	part := t.partPath()
	if err := os.MkdirAll(filepath.Dir(part), 0o755); err != nil {
		return fmt.Errorf("create parts dir: %w", err)
	}
	var offset int64
	if st, err := os.Stat(part); err == nil {
		offset = st.Size()
	}

	body, err := o.open(ctx, offset)
	if errors.Is(err, repository.ErrRangeNotSatisfiable) && offset > 0 {
		t.log.Debug("part file larger than source, restarting", "file", part)
		offset = 0
		body, err = o.open(ctx, 0)
	}
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = body.Close() }()

	fh, err := os.OpenFile(part, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open part file: %w", err)
	}
	defer func() { _ = fh.Close() }()

	// The server may ignore the range and send the whole file
	if err := fh.Truncate(body.Offset); err != nil {
		return fmt.Errorf("truncate part file: %w", err)
	}
	if _, err := fh.Seek(body.Offset, io.SeekStart); err != nil {
		return fmt.Errorf("seek part file: %w", err)
	}
	if body.Offset > 0 {
		t.log.Info("resuming transfer", "file", part, "offset", body.Offset)
	}

	t.done.Store(body.Offset)
	if body.Total > 0 {
		t.total.Store(body.Total)
	}

	w := &progressWriter{w: fh, done: &t.done}
	if _, err := io.Copy(w, &ctxReader{ctx: ctx, r: body}); err != nil {
		return err
	}
	if total := t.total.Load(); total > 0 && t.done.Load() < total {
		return fmt.Errorf("received %d of %d bytes: %w", t.done.Load(), total, io.ErrUnexpectedEOF)
	}
	return fh.Sync()
}

// interrupted classifies a run error. A requested pause or cancel wins,
// a short transfer is incomplete, anything else fails.
func (t *Task) interrupted(ctx context.Context, err error) acquire.Outcome {
	t.mu.Lock()
	stop := t.stop
	t.mu.Unlock()

	switch {
	case stop == acquire.StatusCancelled:
		t.removePart()
		t.log.Info("transfer cancelled")
		return acquire.Outcome{Status: acquire.StatusCancelled}
	case stop == acquire.StatusPaused:
		t.log.Info("transfer paused", "bytes", t.done.Load())
		return acquire.Outcome{Status: acquire.StatusPaused}
	case ctx.Err() != nil, errors.Is(err, io.ErrUnexpectedEOF):
		t.log.Warn("transfer incomplete", "bytes", t.done.Load(), "error", err)
		return acquire.Outcome{Status: acquire.StatusIncomplete, Err: err}
	default:
		return t.failed(err)
	}
}

func (t *Task) failed(err error) acquire.Outcome {
	t.log.Warn("acquisition failed", "error", err)
	return acquire.Outcome{Status: acquire.StatusFailed, Err: err}
}

func (t *Task) partPath() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.part
}

// removePart deletes the part file. Callers other than run hold t.mu.
func (t *Task) removePart() {
	part := t.part
	if part == "" {
		return
	}
	if err := os.Remove(part); err != nil && !errors.Is(err, os.ErrNotExist) {
		t.log.Warn("remove part file", "file", part, "error", err)
	}
}

type progressWriter struct {
	w    io.Writer
	done *atomic.Int64
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.done.Add(int64(n))
	return n, err
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(b []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(b)
}
