package micube

import (
	"errors"
	"testing"
)

// solvedFrame returns the wire cells of a solved cube with no moves reported.
func solvedFrame() []byte {
	data := make([]byte, FrameSize)
	for i := 0; i < 8; i++ {
		data[i] = byte(i + 1)
		data[8+i] = 3
	}
	for i := 0; i < 12; i++ {
		data[16+i] = byte(i + 1)
	}
	return data
}

func TestDecodeSolvedFrame(t *testing.T) {
	f, err := DecodeFrame(solvedFrame())
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if !f.Cube.Equal(NewCube()) {
		t.Errorf("decoded cube differs from NewCube:\n%s", f.Cube)
	}
	if !f.Cube.IsSolved() {
		t.Error("decoded solved frame should be solved")
	}
	if !f.Move.IsZero() || !f.PrevMove.IsZero() {
		t.Errorf("expected no moves, got %v and %v", f.Move, f.PrevMove)
	}
}

func TestDecodeFlipTriples(t *testing.T) {
	tests := []struct {
		name    string
		triple  [3]byte
		flipped []Edge
	}{
		{"back group", [3]byte{8, 9, 8}, []Edge{EdgeUB, EdgeBL, EdgeBR, EdgeDB}},
		{"front group", [3]byte{2, 6, 2}, []Edge{EdgeUF, EdgeFL, EdgeFR, EdgeDF}},
		{"both groups", [3]byte{0x0A, 0x0F, 0x0A}, []Edge{EdgeUB, EdgeBL, EdgeBR, EdgeDB, EdgeUF, EdgeFL, EdgeFR, EdgeDF}},
		{"unknown triple", [3]byte{1, 2, 3}, nil},
		{"partial back", [3]byte{8, 9, 0}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := solvedFrame()
			copy(data[28:31], tt.triple[:])
			f, err := DecodeFrame(data)
			if err != nil {
				t.Fatalf("DecodeFrame: %v", err)
			}

			want := map[Edge]bool{}
			for _, e := range tt.flipped {
				want[e] = true
			}
			for e := Edge(0); e < NumEdges; e++ {
				got := f.Cube.Edge(e).Orientation
				if want[e] && got != Flipped {
					t.Errorf("edge %v = %v, want flipped", e, got)
				}
				if !want[e] && got != Oriented {
					t.Errorf("edge %v = %v, want oriented", e, got)
				}
			}
		})
	}
}

func TestDecodeMoveFields(t *testing.T) {
	data := solvedFrame()
	copy(data[32:36], []byte{6, 1, 3, 0})
	f, err := DecodeFrame(data)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if want := (Move{Face: FaceU, Turn: CCW}); f.Move != want {
		t.Errorf("Move = %+v, want %+v", f.Move, want)
	}
	if want := (Move{Face: FaceR, Turn: CW}); f.PrevMove != want {
		t.Errorf("PrevMove = %+v, want %+v", f.PrevMove, want)
	}
	if f.Move.Notation() != "U'" || f.PrevMove.Notation() != "R" {
		t.Errorf("notation = %s %s", f.Move, f.PrevMove)
	}
}

func TestDecodeScrambledFrame(t *testing.T) {
	data := solvedFrame()
	// Swap corner pieces 1 and 2 and twist both.
	data[0], data[1] = 2, 1
	data[8], data[9] = 1, 2
	// Cycle three edges.
	data[16], data[17], data[18] = 2, 3, 1

	f, err := DecodeFrame(data)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if f.Cube.IsSolved() {
		t.Error("scrambled frame should not be solved")
	}
	if got := f.Cube.Corner(CornerULB); got != (Cubie{Home: 1, Orientation: RotatedTwice}) {
		t.Errorf("ULB = %+v", got)
	}
	if got := f.Cube.Corner(CornerULF); got != (Cubie{Home: 0, Orientation: Rotated}) {
		t.Errorf("ULF = %+v", got)
	}
	if got := f.Cube.Edge(EdgeUF).Home; got != 0 {
		t.Errorf("UF home = %d, want 0", got)
	}
}

func TestDecodeDoesNotRetainInput(t *testing.T) {
	data := solvedFrame()
	f, err := DecodeFrame(data)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	data[0] = 9
	if f.Raw[0] != 1 {
		t.Error("frame should hold its own copy of the cells")
	}
}

func TestDecodeRejectsMalformedFrames(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]byte) []byte
		want   error
	}{
		{"short", func(d []byte) []byte { return d[:35] }, ErrMalformedFrame},
		{"long", func(d []byte) []byte { return append(d, 0) }, ErrMalformedFrame},
		{"empty", func([]byte) []byte { return nil }, ErrMalformedFrame},
		{"not a nibble", func(d []byte) []byte { d[31] = 0x10; return d }, ErrMalformedFrame},
		{"corner piece zero", func(d []byte) []byte { d[0] = 0; return d }, ErrMalformedFrame},
		{"corner piece nine", func(d []byte) []byte { d[7] = 9; return d }, ErrMalformedFrame},
		{"corner repeated", func(d []byte) []byte { d[1] = 1; return d }, ErrMalformedFrame},
		{"edge piece thirteen", func(d []byte) []byte { d[27] = 13; return d }, ErrMalformedFrame},
		{"edge repeated", func(d []byte) []byte { d[20] = 4; return d }, ErrMalformedFrame},
		{"move face seven", func(d []byte) []byte { d[32] = 7; return d }, ErrMalformedFrame},
		{"previous face fifteen", func(d []byte) []byte { d[34] = 15; return d }, ErrMalformedFrame},
		{"orientation zero", func(d []byte) []byte { d[8] = 0; return d }, ErrInvalidOrientation},
		{"orientation four", func(d []byte) []byte { d[15] = 4; return d }, ErrInvalidOrientation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := DecodeFrame(tt.mutate(solvedFrame()))
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if f != nil {
				t.Error("expected nil frame on error")
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	frames := map[string]func([]byte){
		"solved":     func([]byte) {},
		"back flip":  func(d []byte) { copy(d[28:], []byte{8, 9, 8}) },
		"front flip": func(d []byte) { copy(d[28:], []byte{2, 6, 2}) },
		"both flip":  func(d []byte) { copy(d[28:], []byte{0x0A, 0x0F, 0x0A}) },
		"moves":      func(d []byte) { copy(d[32:], []byte{6, 1, 3, 3}) },
		"twisted": func(d []byte) {
			d[2], d[3] = 4, 3
			d[10], d[11] = 2, 1
			d[16], d[17] = 2, 1
		},
	}

	for name, mutate := range frames {
		t.Run(name, func(t *testing.T) {
			data := solvedFrame()
			mutate(data)
			f, err := DecodeFrame(data)
			if err != nil {
				t.Fatalf("DecodeFrame: %v", err)
			}
			out, err := f.Encode()
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if string(out[:]) != string(data) {
				t.Errorf("round trip mismatch\n got %s\nwant %s", FormatHex(out[:]), FormatHex(data))
			}
		})
	}
}

func TestEncodeRejectsSingleFlip(t *testing.T) {
	edges, corners := solvedPieces()
	edges[EdgeUR].Orientation = Flipped
	f := &Frame{Cube: mustCube(t, edges, corners)}
	if _, err := f.Encode(); !errors.Is(err, ErrUnencodable) {
		t.Errorf("err = %v, want %v", err, ErrUnencodable)
	}

	edges, corners = solvedPieces()
	for _, e := range backEdges[:3] {
		edges[e].Orientation = Flipped
	}
	f = &Frame{Cube: mustCube(t, edges, corners)}
	if _, err := f.Encode(); !errors.Is(err, ErrUnencodable) {
		t.Errorf("partial group: err = %v, want %v", err, ErrUnencodable)
	}
}

func TestEncodeWithoutMoves(t *testing.T) {
	f := &Frame{Cube: NewCube()}
	out, err := f.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got := out[32:36]; string(got) != string([]byte{0, 0, 0, 0}) {
		t.Errorf("move cells = %v, want [0 0 0 0]", got)
	}

	back, err := DecodeFrame(out[:])
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if !back.Move.IsZero() || !back.PrevMove.IsZero() {
		t.Errorf("decoded moves = %v, %v, want none", back.Move, back.PrevMove)
	}
}

func TestFrameHex(t *testing.T) {
	f, err := DecodeFrame(solvedFrame())
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if got, want := f.Hex(), "1234567833333333123456789ABC00000000"; got != want {
		t.Errorf("Hex() = %s, want %s", got, want)
	}
}
