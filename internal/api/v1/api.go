// Package v1 implements the native REST API.
package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/smaitlx1/Nexus-Mod-Manager/internal/catalog"
)

// Config holds API server configuration.
type Config struct {
	Version  string
	GameMode string
	ModsDir  string
}

// Server is the v1 API server.
type Server struct {
	deps ServerDeps
	cfg  Config
}

// New creates a v1 API server. It fails if a required dependency is missing.
func New(cfg Config, deps ServerDeps) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingDependency, err)
	}
	return &Server{deps: deps, cfg: cfg}, nil
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Acquisitions
	mux.HandleFunc("POST /api/v1/acquisitions", s.requestAcquisition)
	mux.HandleFunc("GET /api/v1/acquisitions", s.listAcquisitions)
	mux.HandleFunc("DELETE /api/v1/acquisitions", s.cancelAcquisition)
	mux.HandleFunc("POST /api/v1/acquisitions/pause", s.pauseAcquisition)
	mux.HandleFunc("POST /api/v1/acquisitions/resume", s.resumeAcquisition)

	// Activity
	mux.HandleFunc("GET /api/v1/activity", s.requireActivity(s.listActivity))
	mux.HandleFunc("GET /api/v1/events", s.requireEventLog(s.listEvents))

	// Mods
	mux.HandleFunc("GET /api/v1/mods", s.listMods)
	mux.HandleFunc("GET /api/v1/mods/{id}", s.getMod)

	// System
	mux.HandleFunc("GET /api/v1/status", s.getStatus)
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// pathID extracts an integer ID from the URL path.
func pathID(r *http.Request, name string) (int64, error) {
	idStr := r.PathValue(name)
	if idStr == "" {
		return 0, fmt.Errorf("missing path parameter: %s", name)
	}
	return strconv.ParseInt(idStr, 10, 64)
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	_, total, err := s.deps.Mods.List(r.Context(), catalog.Filter{Limit: 1})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	var pending int
	if s.deps.Pending != nil {
		pending, err = s.deps.Pending.Count(r.Context(), s.cfg.GameMode)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:   "ok",
		Version:  s.cfg.Version,
		GameMode: s.cfg.GameMode,
		ModsDir:  s.cfg.ModsDir,
		Active:   len(s.deps.Queue.Active()),
		Mods:     total,
		Pending:  pending,
	})
}
