package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/smaitlx1/Nexus-Mod-Manager/internal/acquire"
	v1 "github.com/smaitlx1/Nexus-Mod-Manager/internal/api/v1"
)

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// formatProgress renders transferred bytes, with a percentage when the
// total is known.
func formatProgress(p acquire.Progress) string {
	if p.Total <= 0 {
		if p.Done == 0 {
			return "-"
		}
		return humanize.Bytes(uint64(p.Done))
	}
	pct := p.Done * 100 / p.Total
	return fmt.Sprintf("%s / %s (%d%%)", humanize.Bytes(uint64(p.Done)), humanize.Bytes(uint64(p.Total)), pct)
}

func progressOf(a v1.AcquisitionResponse) acquire.Progress {
	return acquire.Progress{Done: a.Done, Total: a.Total}
}

func formatTimeAgo(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
