package acquire

import (
	"context"
	"strconv"

	"github.com/smaitlx1/Nexus-Mod-Manager/internal/events"
)

// register adds the installed paths of a completed task to the catalog and
// tags them when auto-fill is enabled. A result that is not a []string
// registers nothing.
func (q *Queue) register(e *entry, result any) {
	paths, ok := result.([]string)
	if !ok || len(paths) == 0 {
		q.log.Debug("completed task installed nothing", "source", e.key, "task_id", e.task.ID())
		return
	}

	source := e.task.Source()
	if source == nil {
		source = e.info
	}

	ctx := context.WithoutCancel(q.ctx)
	for _, path := range paths {
		mod, err := q.catalog.RegisterMod(ctx, path)
		if err != nil {
			q.log.Error("register mod failed", "source", e.key, "path", path, "error", err)
			continue
		}
		q.publish(&events.ModRegistered{
			BaseEvent: events.NewBaseEvent(events.EventModRegistered, events.EntityMod, strconv.FormatInt(mod.ID, 10)),
			ModID:     mod.ID,
			Path:      path,
			Source:    e.key.String(),
		})

		if !q.cfg.AutoFillMissingInfo || q.tagger == nil || source == nil {
			continue
		}
		if err := q.tagger.Tag(ctx, mod, source, false); err != nil {
			q.log.Warn("auto-tag failed", "mod_id", mod.ID, "path", path, "error", err)
			continue
		}
		q.publish(&events.ModTagged{
			BaseEvent: events.NewBaseEvent(events.EventModTagged, events.EntityMod, strconv.FormatInt(mod.ID, 10)),
			ModID:     mod.ID,
			Name:      source.Name,
		})
	}
}
