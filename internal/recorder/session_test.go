package recorder

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/micube"
	"github.com/SeamusWaldron/micube/internal/storage"
)

func openTestDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.MigrateUp())
	return db
}

func frame(t *testing.T, solved bool, face byte) *micube.Frame {
	t.Helper()
	cells := make([]byte, micube.FrameSize)
	for i := 0; i < 8; i++ {
		cells[i] = byte(i + 1)
		cells[8+i] = 3
	}
	for i := 0; i < 12; i++ {
		cells[16+i] = byte(i + 1)
	}
	if !solved {
		cells[0], cells[1] = 2, 1
	}
	cells[32], cells[33] = face, 3

	f, err := micube.DecodeFrame(cells)
	require.NoError(t, err)
	return f
}

func TestSessionRecordsFrames(t *testing.T) {
	db := openTestDB(t)
	s := NewSession(db, zerolog.Nop())
	assert.Equal(t, StateIdle, s.State())

	device := micube.Device{Name: "GiC12345", Address: "AA:BB:CC:DD:EE:FF"}
	id, err := s.Start(device)
	require.NoError(t, err)
	assert.Equal(t, id, s.SessionID())
	assert.Equal(t, StateRecording, s.State())

	_, err = s.Start(device)
	assert.Error(t, err, "second Start should fail while recording")

	frames := []*micube.Frame{
		frame(t, false, 6),
		frame(t, true, 6),
		frame(t, false, 0),
		frame(t, true, 3),
	}
	for _, f := range frames {
		require.NoError(t, s.HandleFrame(f))
	}
	require.NoError(t, s.HandleBattery(77))

	nFrames, nMoves, nSolves := s.Counts()
	assert.Equal(t, 4, nFrames)
	assert.Equal(t, 3, nMoves)
	assert.Equal(t, 2, nSolves)

	require.NoError(t, s.End())
	assert.Equal(t, StateEnded, s.State())
	assert.Zero(t, s.ElapsedMs())

	stored, err := storage.NewSessionRepository(db).Get(id)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 4, stored.FrameCount)
	assert.Equal(t, 2, stored.SolvedCount)
	assert.NotNil(t, stored.EndedAt)

	dev, err := storage.NewDeviceRepository(db).Get(device.Address)
	require.NoError(t, err)
	require.NotNil(t, dev)
	assert.Equal(t, "GiC12345", dev.Name)
	require.NotNil(t, dev.Battery)
	assert.Equal(t, 77, *dev.Battery)
}

func TestSessionSkipsMovesOfRepeatedFrames(t *testing.T) {
	s := NewSession(openTestDB(t), zerolog.Nop())
	_, err := s.Start(micube.Device{Name: "GiC12345", Address: "AA:BB:CC:DD:EE:FF"})
	require.NoError(t, err)

	f := frame(t, false, 6)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.HandleFrame(f))
	}
	require.NoError(t, s.HandleFrame(frame(t, false, 3)))
	require.NoError(t, s.HandleFrame(f))

	nFrames, nMoves, _ := s.Counts()
	assert.Equal(t, 5, nFrames)
	assert.Equal(t, 3, nMoves)
}

func TestSessionIgnoresFramesWhenIdle(t *testing.T) {
	s := NewSession(openTestDB(t), zerolog.Nop())

	require.NoError(t, s.HandleFrame(frame(t, true, 6)))
	require.NoError(t, s.HandleBattery(50))

	nFrames, _, _ := s.Counts()
	assert.Zero(t, nFrames)
	assert.Error(t, s.End())
}

func TestSessionStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "recording", StateRecording.String())
	assert.Equal(t, "ended", StateEnded.String())
	assert.Equal(t, "unknown", SessionState(9).String())
}
