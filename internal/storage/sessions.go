package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session is one connection to a cube. Frames are counted, not stored.
type Session struct {
	SessionID     string
	DeviceAddress string
	StartedAt     time.Time
	EndedAt       *time.Time
	DurationMs    *int64
	FrameCount    int
	SolvedCount   int // Number of times the cube became solved
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create starts a session for a known device and returns its ID.
func (r *SessionRepository) Create(deviceAddress string) (string, error) {
	id := uuid.New().String()

	_, err := r.db.Exec(`
		INSERT INTO sessions (session_id, device_address, started_at)
		VALUES (?, ?, ?)
	`, id, deviceAddress, formatTime(time.Now()))

	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return id, nil
}

// RecordFrame counts one decoded frame. The solved count only increases when
// the cube goes from unsolved to solved.
func (r *SessionRepository) RecordFrame(sessionID string, solved bool) error {
	flag := 0
	if solved {
		flag = 1
	}

	result, err := r.db.Exec(`
		UPDATE sessions
		SET frame_count = frame_count + 1,
			solved_count = solved_count + CASE WHEN ? = 1 AND last_solved = 0 THEN 1 ELSE 0 END,
			last_solved = ?
		WHERE session_id = ?
	`, flag, flag, sessionID)
	if err != nil {
		return fmt.Errorf("failed to record frame: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to record frame: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("failed to record frame: unknown session %s", sessionID)
	}

	return nil
}

// End marks a session as finished.
func (r *SessionRepository) End(sessionID string) error {
	endedAt := time.Now()

	var startedAtStr string
	err := r.db.QueryRow("SELECT started_at FROM sessions WHERE session_id = ?", sessionID).Scan(&startedAtStr)
	if err != nil {
		return fmt.Errorf("failed to get session start time: %w", err)
	}

	durationMs := endedAt.Sub(parseTime(startedAtStr)).Milliseconds()

	_, err = r.db.Exec(`
		UPDATE sessions
		SET ended_at = ?, duration_ms = ?
		WHERE session_id = ?
	`, formatTime(endedAt), durationMs, sessionID)

	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	return nil
}

const sessionColumns = `session_id, device_address, started_at, ended_at, duration_ms, frame_count, solved_count`

// Get retrieves a session by ID. It returns nil if the session does not exist.
func (r *SessionRepository) Get(sessionID string) (*Session, error) {
	row := r.db.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE session_id = ?`, sessionID)

	s, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return s, nil
}

// ListByDevice retrieves the most recent sessions of a device.
func (r *SessionRepository) ListByDevice(deviceAddress string, limit int) ([]Session, error) {
	rows, err := r.db.Query(`
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE device_address = ?
		ORDER BY started_at DESC
		LIMIT ?
	`, deviceAddress, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}

	return sessions, rows.Err()
}

func scanSession(sc scanner) (*Session, error) {
	var s Session
	var startedAt string
	var endedAt sql.NullString
	var duration sql.NullInt64

	err := sc.Scan(&s.SessionID, &s.DeviceAddress, &startedAt, &endedAt, &duration, &s.FrameCount, &s.SolvedCount)
	if err != nil {
		return nil, err
	}

	s.StartedAt = parseTime(startedAt)
	if endedAt.Valid {
		t := parseTime(endedAt.String)
		s.EndedAt = &t
	}
	if duration.Valid {
		d := duration.Int64
		s.DurationMs = &d
	}

	return &s, nil
}
