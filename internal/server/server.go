// Package server provides the HTTP surface of the tracking application:
// health, session history, live landmark websocket, and the annotated
// MJPEG stream.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/iHakawaTi/CV-Modules/internal/app"
	"github.com/iHakawaTi/CV-Modules/internal/server/api"
	"github.com/iHakawaTi/CV-Modules/internal/store"
)

// Source provides the latest pipeline output to the live endpoints.
type Source interface {
	// Snapshot returns the most recent frame result.
	Snapshot() (app.FrameResult, bool)
	// EncodeFrame returns the latest annotated frame as JPEG bytes.
	EncodeFrame() ([]byte, bool)
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Source    Source
}

// Server represents the HTTP server for the tracking application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Store != nil {
		sessionHandler := api.NewSessionHandler(s.config.Store)
		s.mux.Handle("/api/sessions", sessionHandler)
		s.mux.Handle("/api/sessions/", sessionHandler)
	}

	if s.config.Source != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Source))
		s.mux.Handle("/api/landmarks", NewLandmarksHandler(s.config.Source))
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
