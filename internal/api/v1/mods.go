package v1

import (
	"errors"
	"net/http"

	"github.com/smaitlx1/Nexus-Mod-Manager/internal/catalog"
)

const (
	defaultModLimit = 50
	maxModLimit     = 500
)

func (s *Server) listMods(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultModLimit)
	offset := queryInt(r, "offset", 0)
	if limit < 1 || limit > maxModLimit {
		writeError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be between 1 and 500")
		return
	}
	if offset < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_OFFSET", "offset must not be negative")
		return
	}

	mods, total, err := s.deps.Mods.List(r.Context(), catalog.Filter{
		Name:   r.URL.Query().Get("name"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	items := make([]ModResponse, len(mods))
	for i, m := range mods {
		items[i] = modToResponse(m)
	}
	writeJSON(w, http.StatusOK, ListModsResponse{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

func (s *Server) getMod(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid mod ID")
		return
	}

	m, err := s.deps.Mods.Get(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Mod not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, modToResponse(m))
}
