package v1

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"github.com/smaitlx1/Nexus-Mod-Manager/internal/acquire"
)

func (s *Server) requestAcquisition(w http.ResponseWriter, r *http.Request) {
	var req acquisitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body")
		return
	}

	key, err := acquire.ParseSourceKey(req.Source)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_SOURCE", err.Error())
		return
	}

	task, created, err := s.deps.Queue.RequestWithInfo(key, req.Info, nil)
	if err != nil {
		writeQueueError(w, err)
		return
	}

	resp := taskToResponse(task)
	resp.Created = created
	code := http.StatusOK
	if created {
		code = http.StatusAccepted
	}
	writeJSON(w, code, resp)
}

func (s *Server) listAcquisitions(w http.ResponseWriter, r *http.Request) {
	tasks := s.deps.Queue.Active()
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Key() < tasks[j].Key() })

	items := make([]AcquisitionResponse, len(tasks))
	for i, t := range tasks {
		items[i] = taskToResponse(t)
	}
	writeJSON(w, http.StatusOK, ListAcquisitionsResponse{Items: items, Total: len(items)})
}

func (s *Server) pauseAcquisition(w http.ResponseWriter, r *http.Request) {
	s.withSource(w, r, s.deps.Queue.Pause)
}

func (s *Server) resumeAcquisition(w http.ResponseWriter, r *http.Request) {
	s.withSource(w, r, s.deps.Queue.Resume)
}

func (s *Server) cancelAcquisition(w http.ResponseWriter, r *http.Request) {
	key, err := acquire.ParseSourceKey(r.URL.Query().Get("source"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_SOURCE", err.Error())
		return
	}
	if err := s.deps.Queue.Cancel(key); err != nil {
		writeQueueError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// withSource decodes a sourceRequest body and applies op to its key.
// On success it responds with the task's current state.
func (s *Server) withSource(w http.ResponseWriter, r *http.Request, op func(acquire.SourceKey) error) {
	var req sourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body")
		return
	}
	key, err := acquire.ParseSourceKey(req.Source)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_SOURCE", err.Error())
		return
	}

	if err := op(key); err != nil {
		writeQueueError(w, err)
		return
	}

	task, ok := s.deps.Queue.Get(key)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, taskToResponse(task))
}

func writeQueueError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, acquire.ErrInvalidSourceKey):
		writeError(w, http.StatusBadRequest, "INVALID_SOURCE", err.Error())
	case errors.Is(err, acquire.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Acquisition not found")
	case errors.Is(err, acquire.ErrNotResumable):
		writeError(w, http.StatusConflict, "NOT_RESUMABLE", err.Error())
	case errors.Is(err, acquire.ErrNotPausable):
		writeError(w, http.StatusConflict, "NOT_PAUSABLE", err.Error())
	case errors.Is(err, acquire.ErrQueueClosed):
		writeError(w, http.StatusServiceUnavailable, "QUEUE_CLOSED", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "QUEUE_ERROR", err.Error())
	}
}
