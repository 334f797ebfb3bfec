package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Sessions table - one row per tracking run
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			solution TEXT NOT NULL CHECK(solution IN ('face_mesh', 'hands', 'pose')),
			started_at DATETIME NOT NULL,
			ended_at DATETIME,
			frames INTEGER NOT NULL DEFAULT 0
		)`,

		// Measurements table - one row per computed angle
		`CREATE TABLE IF NOT EXISTS measurements (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			frame INTEGER NOT NULL,
			entity INTEGER NOT NULL,
			p1 INTEGER NOT NULL,
			p2 INTEGER NOT NULL,
			p3 INTEGER NOT NULL,
			angle REAL NOT NULL,
			recorded_at DATETIME NOT NULL
		)`,

		// Landmark frames table - optional raw landmark snapshots as JSON
		`CREATE TABLE IF NOT EXISTS landmark_frames (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			frame INTEGER NOT NULL,
			entity INTEGER NOT NULL,
			data TEXT NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_measurements_session_id ON measurements(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_landmark_frames_session_id ON landmark_frames(session_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
