// Package tagger fills missing mod metadata from the mod's source.
package tagger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hbollon/go-edlib"

	"github.com/smaitlx1/Nexus-Mod-Manager/internal/catalog"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/modinfo"
)

// mismatchThreshold is the Jaro-Winkler similarity below which a source
// name is reported as not resembling the installed file.
const mismatchThreshold = 0.5

// Updater persists mod metadata.
type Updater interface {
	UpdateInfo(ctx context.Context, id int64, info modinfo.Info) error
}

// Tagger applies source metadata to catalog mods.
type Tagger struct {
	store Updater
	log   *slog.Logger
}

// New creates a tagger.
func New(store Updater, logger *slog.Logger) *Tagger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tagger{store: store, log: logger}
}

// Tag merges info into the mod's metadata. Without overwrite only empty
// fields are filled. Nothing is written when no field changes.
func (t *Tagger) Tag(ctx context.Context, mod *catalog.Mod, info *modinfo.Info, overwrite bool) error {
	if mod == nil || info == nil {
		return nil
	}

	incoming := NormalizeInfo(*info)
	if incoming.Name != "" {
		if score := Similarity(mod.FileName, incoming.Name); score < mismatchThreshold {
			t.log.Warn("source name does not resemble installed file",
				"mod_id", mod.ID,
				"file", mod.FileName,
				"source_name", incoming.Name,
				"similarity", score)
		}
	}

	merged, changed := Merge(mod.Info, incoming, overwrite)
	if len(changed) == 0 {
		t.log.Debug("mod already tagged", "mod_id", mod.ID)
		return nil
	}

	if err := t.store.UpdateInfo(ctx, mod.ID, merged); err != nil {
		return fmt.Errorf("tag mod %d: %w", mod.ID, err)
	}
	mod.Info = merged

	t.log.Info("mod tagged", "mod_id", mod.ID, "fields", changed)
	return nil
}

// Merge returns current with fields taken from incoming, and the names of
// the fields that changed. Empty incoming fields never replace values.
func Merge(current, incoming modinfo.Info, overwrite bool) (modinfo.Info, []string) {
	merged := current
	fields := []struct {
		name string
		dst  *string
		src  string
	}{
		{"id", &merged.ID, incoming.ID},
		{"name", &merged.Name, incoming.Name},
		{"version", &merged.Version, incoming.Version},
		{"author", &merged.Author, incoming.Author},
		{"category", &merged.Category, incoming.Category},
		{"website", &merged.Website, incoming.Website},
		{"description", &merged.Description, incoming.Description},
	}

	var changed []string
	for _, f := range fields {
		if f.src == "" || f.src == *f.dst {
			continue
		}
		if *f.dst != "" && !overwrite {
			continue
		}
		*f.dst = f.src
		changed = append(changed, f.name)
	}
	return merged, changed
}

// Similarity scores how alike a file name and a mod name are, from 0 to 1.
func Similarity(fileName, modName string) float64 {
	a, b := matchKey(trimExt(fileName)), matchKey(modName)
	if a == "" || b == "" {
		return 0
	}
	return float64(edlib.JaroWinklerSimilarity(a, b))
}
