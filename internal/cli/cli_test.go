package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/micube"
	"github.com/SeamusWaldron/micube/internal/storage"
)

const solvedHex = "12345678" + "33333333" + "123456789ABC" + "0000" + "6130"

func TestParseFrameHexCells(t *testing.T) {
	cells, encrypted, err := parseFrameHex("12345678 33333333 123456789abc 0000 6130")
	require.NoError(t, err)
	assert.False(t, encrypted)
	require.Len(t, cells, micube.FrameSize)
	assert.Equal(t, byte(1), cells[0])
	assert.Equal(t, byte(0x0C), cells[27])
	assert.Equal(t, byte(6), cells[32])
	assert.Equal(t, byte(1), cells[33])
}

func TestParseFrameHexNotification(t *testing.T) {
	// 20 bytes, byte 18 is not the encryption marker
	cells, encrypted, err := parseFrameHex("12:34:56:78:33:33:33:33:12:34:56:78:9A:BC:00:00:61:30:00:00")
	require.NoError(t, err)
	assert.False(t, encrypted)
	assert.Equal(t, solvedHex, micube.FormatHex(cells))
}

func TestParseFrameHexErrors(t *testing.T) {
	for _, input := range []string{
		"",
		"1234",
		strings.Repeat("0", 37),
		strings.Repeat("G", micube.FrameSize),
		strings.Repeat("Z", 40),
	} {
		_, _, err := parseFrameHex(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestWriteFramePlain(t *testing.T) {
	cells, _, err := parseFrameHex(solvedHex)
	require.NoError(t, err)
	f, err := micube.DecodeFrame(cells)
	require.NoError(t, err)

	var out bytes.Buffer
	writeFrame(&out, f, false, true)

	text := out.String()
	assert.Contains(t, text, "Frame: "+solvedHex)
	assert.Contains(t, text, "Solved: yes")
	assert.Contains(t, text, "Move: U' (previous: R)")
	assert.Contains(t, text, strings.Repeat(" ", 9)+" G  G  G \n")
	assert.Contains(t, text, " R  R  R  W  W  W  O  O  O  Y  Y  Y \n")
	assert.Contains(t, text, strings.Repeat(" ", 9)+" B  B  B \n")
}

func TestWriteFrameJSON(t *testing.T) {
	cells, _, err := parseFrameHex(solvedHex)
	require.NoError(t, err)
	f, err := micube.DecodeFrame(cells)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, writeFrameJSON(&out, f, true))

	var got decodedFrame
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.True(t, got.Solved)
	assert.True(t, got.Encrypted)
	assert.Equal(t, "U'", got.Move)
	assert.Equal(t, "R", got.PrevMove)
	assert.Equal(t, []string{"GGG", "GGG", "GGG"}, got.Faces["U"])
	assert.Equal(t, []string{"WWW", "WWW", "WWW"}, got.Faces["F"])
	assert.Len(t, got.Faces, 6)
}

func TestRenderNetLayout(t *testing.T) {
	lines := strings.Split(strings.TrimRight(renderNet(micube.NewCube(), true), "\n"), "\n")
	require.Len(t, lines, 9)

	indent := strings.Repeat(" ", 9)
	for _, line := range lines[:3] {
		assert.Equal(t, indent+" G  G  G ", line)
	}
	for _, line := range lines[3:6] {
		assert.Equal(t, " R  R  R  W  W  W  O  O  O  Y  Y  Y ", line)
	}
	for _, line := range lines[6:] {
		assert.Equal(t, indent+" B  B  B ", line)
	}
}

func TestListDevices(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "micube.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.MigrateUp())

	var out bytes.Buffer
	require.NoError(t, listDevices(&out, db, 5))
	assert.Contains(t, out.String(), "No devices yet")

	devices := storage.NewDeviceRepository(db)
	sessions := storage.NewSessionRepository(db)
	require.NoError(t, devices.Upsert("AA:BB:CC:DD:EE:FF", "GiC12345"))
	require.NoError(t, devices.SetBattery("AA:BB:CC:DD:EE:FF", 64))
	id, err := sessions.Create("AA:BB:CC:DD:EE:FF")
	require.NoError(t, err)
	require.NoError(t, sessions.RecordFrame(id, true))

	out.Reset()
	require.NoError(t, listDevices(&out, db, 5))
	text := out.String()
	assert.Contains(t, text, "GiC12345 (AA:BB:CC:DD:EE:FF)")
	assert.Contains(t, text, "Battery:   64%")
	assert.Contains(t, text, "active  frames=1 solves=1")
}

func TestFormatElapsed(t *testing.T) {
	ms := int64(1500)
	assert.Equal(t, "1.5s", formatDuration(&ms))
	ms = 83250
	assert.Equal(t, "1:23.25", formatDuration(&ms))
	assert.Equal(t, "active", formatDuration(nil))
}
