// Package api provides HTTP API handlers for the tracking application.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/iHakawaTi/CV-Modules/internal/store"
)

// SessionHandler handles HTTP requests for session resources.
type SessionHandler struct {
	store *store.Store
}

// NewSessionHandler creates a new SessionHandler with the given store.
func NewSessionHandler(s *store.Store) *SessionHandler {
	return &SessionHandler{store: s}
}

// ServeHTTP routes requests to the appropriate methods.
// Expected paths: /api/sessions, /api/sessions/{id},
// /api/sessions/{id}/measurements.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if id, ok := strings.CutSuffix(path, "/measurements"); ok {
		switch r.Method {
		case http.MethodGet:
			h.measurements(w, r, id)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Response types

type sessionResponse struct {
	ID        string `json:"id"`
	Solution  string `json:"solution"`
	StartedAt string `json:"started_at"`
	EndedAt   string `json:"ended_at,omitempty"`
	Frames    int    `json:"frames"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type measurementResponse struct {
	ID         string  `json:"id"`
	Frame      int     `json:"frame"`
	Entity     int     `json:"entity"`
	P1         int     `json:"p1"`
	P2         int     `json:"p2"`
	P3         int     `json:"p3"`
	Angle      float64 `json:"angle"`
	RecordedAt string  `json:"recorded_at"`
}

type listMeasurementsResponse struct {
	Measurements []measurementResponse `json:"measurements"`
}

type errorResponse struct {
	Error string `json:"error"`
}

const timeFormat = "2006-01-02T15:04:05Z07:00"

func toSessionResponse(s *store.Session) sessionResponse {
	resp := sessionResponse{
		ID:        s.ID,
		Solution:  s.Solution,
		StartedAt: s.StartedAt.Format(timeFormat),
		Frames:    s.Frames,
	}
	if s.EndedAt.Valid {
		resp.EndedAt = s.EndedAt.Time.Format(timeFormat)
	}
	return resp
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/sessions.
func (h *SessionHandler) list(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.Sessions().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	response := listSessionsResponse{
		Sessions: make([]sessionResponse, 0, len(sessions)),
	}
	for _, s := range sessions {
		response.Sessions = append(response.Sessions, toSessionResponse(s))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/sessions/{id}.
func (h *SessionHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	session, err := h.store.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

// delete handles DELETE /api/sessions/{id}.
func (h *SessionHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Sessions().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// measurements handles GET /api/sessions/{id}/measurements.
func (h *SessionHandler) measurements(w http.ResponseWriter, r *http.Request, id string) {
	if _, err := h.store.Sessions().GetByID(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	measurements, err := h.store.Measurements().BySession(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list measurements")
		return
	}

	response := listMeasurementsResponse{
		Measurements: make([]measurementResponse, 0, len(measurements)),
	}
	for _, m := range measurements {
		response.Measurements = append(response.Measurements, measurementResponse{
			ID:         m.ID,
			Frame:      m.Frame,
			Entity:     m.Entity,
			P1:         m.P1,
			P2:         m.P2,
			P3:         m.P3,
			Angle:      m.Angle,
			RecordedAt: m.RecordedAt.Format(timeFormat),
		})
	}

	writeJSON(w, http.StatusOK, response)
}
