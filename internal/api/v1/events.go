package v1

import (
	"encoding/json"
	"net/http"
)

const (
	defaultEventLimit = 100
	maxEventLimit     = 1000
)

func (s *Server) listActivity(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ActivityResponse{Items: s.deps.Activity.Snapshot()})
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultEventLimit)
	if limit < 1 || limit > maxEventLimit {
		writeError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be between 1 and 1000")
		return
	}

	raw, err := s.deps.EventLog.Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	items := make([]EventResponse, len(raw))
	for i, e := range raw {
		items[i] = EventResponse{
			ID:         e.ID,
			EventType:  e.EventType,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			OccurredAt: e.OccurredAt,
		}
		if json.Valid([]byte(e.Payload)) {
			items[i].Payload = json.RawMessage(e.Payload)
		}
	}
	writeJSON(w, http.StatusOK, ListEventsResponse{Items: items})
}
