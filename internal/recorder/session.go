// Package recorder keeps a sqlite record of a connection to a cube: the device
// it was made to, how many frames arrived and how often the cube was solved.
package recorder

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/SeamusWaldron/micube"
	"github.com/SeamusWaldron/micube/internal/storage"
)

// SessionState represents the current state of a recording session.
type SessionState int

const (
	StateIdle SessionState = iota
	StateRecording
	StateEnded
)

// String returns the string representation of the session state.
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Session records one connection.
type Session struct {
	logger zerolog.Logger

	mu          sync.RWMutex
	state       SessionState
	sessionID   string
	address     string
	startTime   time.Time
	frameCount  int
	moveCount   int
	solvedCount int
	lastSolved  bool
	lastRaw     [micube.FrameSize]byte
	hasLast     bool

	// Repositories
	deviceRepo  *storage.DeviceRepository
	sessionRepo *storage.SessionRepository
}

// NewSession creates a new session manager.
func NewSession(db *storage.DB, logger zerolog.Logger) *Session {
	return &Session{
		logger:      logger.With().Str("component", "recorder").Logger(),
		state:       StateIdle,
		deviceRepo:  storage.NewDeviceRepository(db),
		sessionRepo: storage.NewSessionRepository(db),
	}
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SessionID returns the current session ID.
func (s *Session) SessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID
}

// ElapsedMs returns the elapsed time since the session started in milliseconds.
func (s *Session) ElapsedMs() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateRecording {
		return 0
	}
	return time.Since(s.startTime).Milliseconds()
}

// Counts returns the number of frames, moves and solves seen so far.
func (s *Session) Counts() (frames, moves, solves int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frameCount, s.moveCount, s.solvedCount
}

// Start registers the device and opens a new session for it.
func (s *Session) Start(device micube.Device) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRecording {
		return "", fmt.Errorf("session already in progress")
	}

	if err := s.deviceRepo.Upsert(device.Address, device.Name); err != nil {
		return "", err
	}

	sessionID, err := s.sessionRepo.Create(device.Address)
	if err != nil {
		return "", err
	}

	s.sessionID = sessionID
	s.address = device.Address
	s.startTime = time.Now()
	s.frameCount = 0
	s.moveCount = 0
	s.solvedCount = 0
	s.lastSolved = false
	s.lastRaw = [micube.FrameSize]byte{}
	s.hasLast = false
	s.state = StateRecording

	s.logger.Info().
		Str("session", sessionID).
		Str("address", device.Address).
		Str("name", device.Name).
		Msg("session started")

	return sessionID, nil
}

// HandleFrame counts a decoded frame. Frames outside a session are ignored.
// A frame identical to the one before it is a resend and adds no move.
func (s *Session) HandleFrame(f *micube.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return nil
	}

	solved := f.Cube.IsSolved()
	if err := s.sessionRepo.RecordFrame(s.sessionID, solved); err != nil {
		return err
	}

	s.frameCount++
	resent := s.hasLast && f.Raw == s.lastRaw
	if !f.Move.IsZero() && !resent {
		s.moveCount++
	}
	s.lastRaw = f.Raw
	s.hasLast = true
	if solved && !s.lastSolved {
		s.solvedCount++
	}
	s.lastSolved = solved

	return nil
}

// HandleBattery stores the latest battery level of the session's device.
func (s *Session) HandleBattery(level int) error {
	s.mu.RLock()
	address := s.address
	recording := s.state == StateRecording
	s.mu.RUnlock()

	if !recording {
		return nil
	}
	return s.deviceRepo.SetBattery(address, level)
}

// End closes the current session.
func (s *Session) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return fmt.Errorf("no session in progress")
	}

	if err := s.sessionRepo.End(s.sessionID); err != nil {
		return err
	}

	s.state = StateEnded

	s.logger.Info().
		Str("session", s.sessionID).
		Int("frames", s.frameCount).
		Int("solves", s.solvedCount).
		Msg("session ended")

	return nil
}
