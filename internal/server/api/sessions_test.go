package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/iHakawaTi/CV-Modules/internal/store"
)

func testHandler(t *testing.T) (*SessionHandler, *store.Store) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return NewSessionHandler(s), s
}

func TestSessionHandler_List(t *testing.T) {
	h, s := testHandler(t)

	for _, solution := range []string{"pose", "hands"} {
		if err := s.Sessions().Create(&store.Session{Solution: solution}); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body listSessionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if len(body.Sessions) != 2 {
		t.Errorf("expected 2 sessions, got %d", len(body.Sessions))
	}
}

func TestSessionHandler_Get(t *testing.T) {
	h, s := testHandler(t)

	sess := &store.Session{Solution: "pose"}
	if err := s.Sessions().Create(sess); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+sess.ID, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body.ID != sess.ID || body.Solution != "pose" {
		t.Errorf("unexpected session body: %+v", body)
	}
	if body.EndedAt != "" {
		t.Error("running session should have no end time")
	}
}

func TestSessionHandler_GetMissing(t *testing.T) {
	h, _ := testHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/nope", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestSessionHandler_Delete(t *testing.T) {
	h, s := testHandler(t)

	sess := &store.Session{Solution: "face_mesh"}
	if err := s.Sessions().Create(sess); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/sessions/"+sess.ID, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	if _, err := s.Sessions().GetByID(sess.ID); err == nil {
		t.Error("session should be gone after delete")
	}
}

func TestSessionHandler_Measurements(t *testing.T) {
	h, s := testHandler(t)

	sess := &store.Session{Solution: "pose"}
	if err := s.Sessions().Create(sess); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	m := &store.Measurement{
		SessionID: sess.ID,
		Frame:     0,
		P1:        11, P2: 13, P3: 15,
		Angle: 92.5,
	}
	if err := s.Measurements().Add(m); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+sess.ID+"/measurements", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body listMeasurementsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if len(body.Measurements) != 1 {
		t.Fatalf("expected 1 measurement, got %d", len(body.Measurements))
	}
	got := body.Measurements[0]
	if got.P2 != 13 || got.Angle != 92.5 {
		t.Errorf("unexpected measurement: %+v", got)
	}
}

func TestSessionHandler_MeasurementsMissingSession(t *testing.T) {
	h, _ := testHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/nope/measurements", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestSessionHandler_MethodNotAllowed(t *testing.T) {
	h, _ := testHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/sessions", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
