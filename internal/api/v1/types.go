package v1

import (
	"encoding/json"
	"time"

	"github.com/smaitlx1/Nexus-Mod-Manager/internal/acquire"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/activity"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/catalog"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/modinfo"
)

// acquisitionRequest is the body of POST /acquisitions.
type acquisitionRequest struct {
	Source string        `json:"source"`
	Info   *modinfo.Info `json:"info,omitempty"`
}

// sourceRequest is the body of pause and resume requests.
type sourceRequest struct {
	Source string `json:"source"`
}

// AcquisitionResponse is the API representation of an acquisition task.
type AcquisitionResponse struct {
	TaskID  string        `json:"task_id"`
	Source  string        `json:"source"`
	Status  string        `json:"status"`
	Done    int64         `json:"bytes_done"`
	Total   int64         `json:"bytes_total"`
	Info    *modinfo.Info `json:"info,omitempty"`
	Created bool          `json:"created,omitempty"`
}

// ListAcquisitionsResponse is the response for GET /acquisitions.
type ListAcquisitionsResponse struct {
	Items []AcquisitionResponse `json:"items"`
	Total int                   `json:"total"`
}

// ActivityResponse is the response for GET /activity.
type ActivityResponse struct {
	Items []activity.Item `json:"items"`
}

// ModResponse is the API representation of a catalog mod.
type ModResponse struct {
	ID          int64        `json:"id"`
	Path        string       `json:"path"`
	FileName    string       `json:"file_name"`
	Info        modinfo.Info `json:"info"`
	InstalledAt time.Time    `json:"installed_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ListModsResponse is the response for GET /mods.
type ListModsResponse struct {
	Items  []ModResponse `json:"items"`
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// EventResponse is the API representation of a logged event.
type EventResponse struct {
	ID         int64           `json:"id"`
	EventType  string          `json:"event_type"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// ListEventsResponse is the response for GET /events.
type ListEventsResponse struct {
	Items []EventResponse `json:"items"`
}

// StatusResponse is the response for GET /status.
type StatusResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version,omitempty"`
	GameMode string `json:"game_mode"`
	ModsDir  string `json:"mods_dir"`
	Active   int    `json:"active"`
	Mods     int    `json:"mods"`
	Pending  int    `json:"pending"`
}

func taskToResponse(t acquire.Task) AcquisitionResponse {
	p := t.Progress()
	return AcquisitionResponse{
		TaskID: t.ID(),
		Source: t.Key().String(),
		Status: string(t.Status()),
		Done:   p.Done,
		Total:  p.Total,
		Info:   t.Source(),
	}
}

func modToResponse(m *catalog.Mod) ModResponse {
	return ModResponse{
		ID:          m.ID,
		Path:        m.Path,
		FileName:    m.FileName,
		Info:        m.Info,
		InstalledAt: m.InstalledAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
