package micube

import (
	"fmt"
	"strings"
)

// Turn represents the direction of a quarter turn.
type Turn int

const (
	TurnNone Turn = 0
	CW       Turn = 1  // Clockwise (90 degrees)
	CCW      Turn = -1 // Counter-clockwise (90 degrees)
)

func (t Turn) String() string {
	switch t {
	case CW:
		return "cw"
	case CCW:
		return "ccw"
	default:
		return "none"
	}
}

// Move is a single face turn as reported by the cube.
type Move struct {
	Face Face // Which face was turned (FaceNone if the cube reported no move)
	Turn Turn // Direction
}

// IsZero reports whether m is no move: no face or no direction. The zero
// Move{} is no move.
func (m Move) IsZero() bool {
	return m.Face == FaceNone || m.Turn == TurnNone
}

// Notation returns the standard cube notation string for this move.
// Examples: R, R', U. A move without a face returns "-".
func (m Move) Notation() string {
	if m.IsZero() {
		return "-"
	}
	suffix := ""
	if m.Turn == CCW {
		suffix = "'"
	}
	return m.Face.String() + suffix
}

// Inverse returns the inverse of this move.
// R becomes R', R' becomes R.
func (m Move) Inverse() Move {
	inv := m
	switch m.Turn {
	case CW:
		inv.Turn = CCW
	case CCW:
		inv.Turn = CW
	}
	return inv
}

// String returns the notation string (alias for Notation).
func (m Move) String() string {
	return m.Notation()
}

// ParseMove parses a standard notation string into a Move.
// Examples: R, R', U. Half turns are not reported by the cube and are rejected.
func ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return Move{}, ErrInvalidNotation
	}

	var face Face
	switch s[0] {
	case 'U', 'u':
		face = FaceU
	case 'L', 'l':
		face = FaceL
	case 'F', 'f':
		face = FaceF
	case 'R', 'r':
		face = FaceR
	case 'B', 'b':
		face = FaceB
	case 'D', 'd':
		face = FaceD
	default:
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
	}

	turn := CW
	if len(s) > 1 {
		switch s[1:] {
		case "'", "`":
			turn = CCW
		default:
			return Move{}, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
		}
	}

	return Move{Face: face, Turn: turn}, nil
}

// wireFaces maps the cube's face numbering (by center color, 1=blue .. 6=green)
// to model faces.
var wireFaces = [7]Face{
	0: FaceNone,
	1: FaceD, // Blue
	2: FaceB, // Yellow
	3: FaceR, // Orange
	4: FaceF, // White
	5: FaceL, // Red
	6: FaceU, // Green
}

// FaceFromWire decodes a wire face number. Zero means no move has been
// reported yet; 1..6 name faces by center color; anything else is malformed.
func FaceFromWire(v byte) (Face, error) {
	if int(v) >= len(wireFaces) {
		return FaceNone, fmt.Errorf("%w: face number %d out of range", ErrMalformedFrame, v)
	}
	return wireFaces[v], nil
}

// FaceToWire is the inverse of FaceFromWire.
func FaceToWire(f Face) byte {
	for v, face := range wireFaces {
		if face == f {
			return byte(v)
		}
	}
	return 0
}

// TurnFromWire decodes a direction nibble: 1 is counter-clockwise, any other
// nibble value is clockwise.
func TurnFromWire(v byte) (Turn, error) {
	if v > 0x0F {
		return TurnNone, fmt.Errorf("%w: direction code %d out of range", ErrMalformedFrame, v)
	}
	if v == 1 {
		return CCW, nil
	}
	return CW, nil
}

// TurnToWire is the inverse of TurnFromWire, using 3 for clockwise as the cube does.
func TurnToWire(t Turn) byte {
	if t == CCW {
		return 1
	}
	return 3
}
