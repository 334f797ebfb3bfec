package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/iHakawaTi/CV-Modules/internal/landmark"
)

// Measurement is one computed angle: which landmarks, on which entity, in
// which frame of a session.
type Measurement struct {
	ID         string
	SessionID  string
	Frame      int
	Entity     int
	P1, P2, P3 int
	Angle      float64
	RecordedAt time.Time
}

// MeasurementRepository provides persistence for angle measurements and
// raw landmark frame snapshots.
type MeasurementRepository struct {
	db *sql.DB
}

// Measurements returns the measurement repository for this store.
func (s *Store) Measurements() *MeasurementRepository {
	return &MeasurementRepository{db: s.db}
}

// Add inserts a measurement. A missing ID is generated.
func (r *MeasurementRepository) Add(m *Measurement) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.RecordedAt.IsZero() {
		m.RecordedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO measurements (id, session_id, frame, entity, p1, p2, p3, angle, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.SessionID, m.Frame, m.Entity, m.P1, m.P2, m.P3, m.Angle, m.RecordedAt,
	)
	return err
}

// BySession returns all measurements of a session in frame order.
func (r *MeasurementRepository) BySession(sessionID string) ([]*Measurement, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, frame, entity, p1, p2, p3, angle, recorded_at
		 FROM measurements WHERE session_id = ? ORDER BY frame, entity`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var measurements []*Measurement
	for rows.Next() {
		m := &Measurement{}
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Frame, &m.Entity,
			&m.P1, &m.P2, &m.P3, &m.Angle, &m.RecordedAt); err != nil {
			return nil, err
		}
		measurements = append(measurements, m)
	}

	return measurements, rows.Err()
}

// AddFrame stores a landmark set snapshot for one entity in one frame.
func (r *MeasurementRepository) AddFrame(sessionID string, frame, entity int, set landmark.Set) error {
	data, err := json.Marshal(set.All())
	if err != nil {
		return err
	}

	_, err = r.db.Exec(
		`INSERT INTO landmark_frames (session_id, frame, entity, data) VALUES (?, ?, ?, ?)`,
		sessionID, frame, entity, string(data),
	)
	return err
}

// FramesBySession returns the recorded landmark sets of a session, keyed
// by frame index then entity index.
func (r *MeasurementRepository) FramesBySession(sessionID string) (map[int][]landmark.Set, error) {
	rows, err := r.db.Query(
		`SELECT frame, data FROM landmark_frames WHERE session_id = ? ORDER BY frame, entity`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	frames := make(map[int][]landmark.Set)
	for rows.Next() {
		var frame int
		var data string
		if err := rows.Scan(&frame, &data); err != nil {
			return nil, err
		}

		var points []landmark.Landmark
		if err := json.Unmarshal([]byte(data), &points); err != nil {
			return nil, err
		}
		frames[frame] = append(frames[frame], landmark.NewSet(points))
	}

	return frames, rows.Err()
}
