package micube

import (
	"fmt"
	"strings"
)

// FrameSize is the number of half-byte cells in a plaintext state frame.
const FrameSize = 36

// Frame layout. Every cell holds one nibble.
const (
	offCornerPieces = 0  // 8 cells, 1-indexed corner piece per corner slot
	offCornerOrient = 8  // 8 cells, orientation code per corner slot
	offEdgePieces   = 16 // 12 cells, 1-indexed edge piece per edge slot
	offFlip         = 28 // 3 cells, edge group flip triple
	offMoveFace     = 32
	offMoveTurn     = 33
	offPrevFace     = 34
	offPrevTurn     = 35
)

// Flip triples at offsets 28..30.
var (
	flipBack  = [3]byte{0x08, 0x09, 0x08}
	flipFront = [3]byte{0x02, 0x06, 0x02}
	flipBoth  = [3]byte{0x0A, 0x0F, 0x0A}
)

// Edge groups the cube reports as flipped together.
var (
	backEdges  = [4]Edge{EdgeUB, EdgeBL, EdgeBR, EdgeDB}
	frontEdges = [4]Edge{EdgeUF, EdgeFL, EdgeFR, EdgeDF}
)

// Frame is one decoded state notification: the cube state plus the move that
// produced it and the move before that.
type Frame struct {
	Cube     Cube
	Move     Move
	PrevMove Move
	Raw      [FrameSize]byte
}

// DecodeFrame decodes a 36-cell plaintext frame.
//
// The frame is validated first. Structural problems (length, nibble range,
// piece numbers that are out of range or repeated, face numbers) fail with
// ErrMalformedFrame; a corner orientation code outside 1..3 fails with
// ErrInvalidOrientation.
//
// Edges are only ever reported as flipped in groups of four: the back group
// (UB, BL, BR, DB) and the front group (UF, FL, FR, DF).
func DecodeFrame(data []byte) (*Frame, error) {
	if len(data) != FrameSize {
		return nil, fmt.Errorf("%w: expected %d cells, got %d", ErrMalformedFrame, FrameSize, len(data))
	}
	for i, v := range data {
		if v > 0x0F {
			return nil, fmt.Errorf("%w: cell %d holds 0x%02X, not a nibble", ErrMalformedFrame, i, v)
		}
	}

	f := &Frame{}
	copy(f.Raw[:], data)
	f.Cube.centers = centerColors

	var seenCorners [NumCorners]bool
	for i := 0; i < NumCorners; i++ {
		piece := int(data[offCornerPieces+i])
		if piece < 1 || piece > NumCorners {
			return nil, fmt.Errorf("%w: corner piece %d at offset %d", ErrMalformedFrame, piece, offCornerPieces+i)
		}
		if seenCorners[piece-1] {
			return nil, fmt.Errorf("%w: corner piece %d repeated at offset %d", ErrMalformedFrame, piece, offCornerPieces+i)
		}
		seenCorners[piece-1] = true

		o := Orientation(data[offCornerOrient+i])
		if !o.validCorner() {
			return nil, fmt.Errorf("%w: corner code %d at offset %d", ErrInvalidOrientation, o, offCornerOrient+i)
		}
		f.Cube.corners[i] = Cubie{Home: piece - 1, Orientation: o}
	}

	var seenEdges [NumEdges]bool
	for i := 0; i < NumEdges; i++ {
		piece := int(data[offEdgePieces+i])
		if piece < 1 || piece > NumEdges {
			return nil, fmt.Errorf("%w: edge piece %d at offset %d", ErrMalformedFrame, piece, offEdgePieces+i)
		}
		if seenEdges[piece-1] {
			return nil, fmt.Errorf("%w: edge piece %d repeated at offset %d", ErrMalformedFrame, piece, offEdgePieces+i)
		}
		seenEdges[piece-1] = true
		f.Cube.edges[i] = Cubie{Home: piece - 1, Orientation: Oriented}
	}

	var triple [3]byte
	copy(triple[:], data[offFlip:offFlip+3])
	if triple == flipBack || triple == flipBoth {
		for _, e := range backEdges {
			f.Cube.edges[e].Orientation = Flipped
		}
	}
	if triple == flipFront || triple == flipBoth {
		for _, e := range frontEdges {
			f.Cube.edges[e].Orientation = Flipped
		}
	}

	var err error
	if f.Move, err = decodeMove(data[offMoveFace], data[offMoveTurn]); err != nil {
		return nil, fmt.Errorf("current move: %w", err)
	}
	if f.PrevMove, err = decodeMove(data[offPrevFace], data[offPrevTurn]); err != nil {
		return nil, fmt.Errorf("previous move: %w", err)
	}

	return f, nil
}

func decodeMove(face, turn byte) (Move, error) {
	fc, err := FaceFromWire(face)
	if err != nil {
		return Move{}, err
	}
	if fc == FaceNone {
		return Move{Face: FaceNone}, nil
	}
	t, err := TurnFromWire(turn)
	if err != nil {
		return Move{}, err
	}
	return Move{Face: fc, Turn: t}, nil
}

// Encode writes the frame back into its 36-cell wire form.
// It fails with ErrUnencodable if edges are flipped in any pattern other than
// whole front and back groups, which the wire cannot carry.
func (f *Frame) Encode() ([FrameSize]byte, error) {
	var data [FrameSize]byte

	for i, c := range f.Cube.corners {
		data[offCornerPieces+i] = byte(c.Home + 1)
		data[offCornerOrient+i] = byte(c.Orientation)
	}
	for i, e := range f.Cube.edges {
		data[offEdgePieces+i] = byte(e.Home + 1)
	}

	back := groupFlipped(f.Cube, backEdges)
	front := groupFlipped(f.Cube, frontEdges)
	for i, e := range f.Cube.edges {
		if e.Orientation != Flipped {
			continue
		}
		if (inGroup(Edge(i), backEdges) && back) || (inGroup(Edge(i), frontEdges) && front) {
			continue
		}
		return data, fmt.Errorf("%w: edge %v flipped outside a full group", ErrUnencodable, Edge(i))
	}

	var triple [3]byte
	switch {
	case back && front:
		triple = flipBoth
	case back:
		triple = flipBack
	case front:
		triple = flipFront
	}
	copy(data[offFlip:], triple[:])

	data[offMoveFace], data[offMoveTurn] = encodeMove(f.Move)
	data[offPrevFace], data[offPrevTurn] = encodeMove(f.PrevMove)

	return data, nil
}

func encodeMove(m Move) (byte, byte) {
	if m.IsZero() {
		return 0, 0
	}
	return FaceToWire(m.Face), TurnToWire(m.Turn)
}

func groupFlipped(c Cube, group [4]Edge) bool {
	for _, e := range group {
		if c.edges[e].Orientation != Flipped {
			return false
		}
	}
	return true
}

func inGroup(e Edge, group [4]Edge) bool {
	for _, g := range group {
		if g == e {
			return true
		}
	}
	return false
}

// Hex returns the raw cells as 36 hex digits, one per cell.
func (f *Frame) Hex() string {
	return FormatHex(f.Raw[:])
}

// FormatHex formats nibble cells as one hex digit per cell.
func FormatHex(cells []byte) string {
	const digits = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(cells))
	for _, v := range cells {
		b.WriteByte(digits[v&0x0F])
	}
	return b.String()
}
