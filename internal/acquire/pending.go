package acquire

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/smaitlx1/Nexus-Mod-Manager/internal/modinfo"
)

// PendingRecord is the durable form of a queued acquisition.
type PendingRecord struct {
	GameMode   string
	Key        string
	Descriptor string // JSON-encoded modinfo.Info, empty if unknown
}

// PendingStore persists queued acquisitions per game mode.
type PendingStore interface {
	// Load returns the records for gameMode in insertion order.
	Load(ctx context.Context, gameMode string) ([]PendingRecord, error)
	// Save inserts or updates a record.
	Save(ctx context.Context, rec PendingRecord) error
	// Remove deletes a record. Removing a missing record is not an error.
	Remove(ctx context.Context, gameMode, key string) error
}

func encodeDescriptor(info *modinfo.Info) (string, error) {
	if info == nil || info.IsZero() {
		return "", nil
	}
	data, err := json.Marshal(info)
	if err != nil {
		return "", fmt.Errorf("marshal descriptor: %w", err)
	}
	return string(data), nil
}

func decodeRecord(rec PendingRecord) (SourceKey, *modinfo.Info, error) {
	key, err := ParseSourceKey(rec.Key)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformedPendingRecord, err)
	}
	if rec.Descriptor == "" {
		return key, nil, nil
	}
	var info modinfo.Info
	if err := json.Unmarshal([]byte(rec.Descriptor), &info); err != nil {
		return "", nil, fmt.Errorf("%w: descriptor: %v", ErrMalformedPendingRecord, err)
	}
	return key, &info, nil
}
