package micube

import (
	"errors"
	"testing"
)

func solvedPieces() ([NumEdges]Cubie, [NumCorners]Cubie) {
	var edges [NumEdges]Cubie
	var corners [NumCorners]Cubie
	for i := range edges {
		edges[i] = Cubie{Home: i, Orientation: Oriented}
	}
	for i := range corners {
		corners[i] = Cubie{Home: i, Orientation: Oriented}
	}
	return edges, corners
}

func mustCube(t *testing.T, edges [NumEdges]Cubie, corners [NumCorners]Cubie) Cube {
	t.Helper()
	c, err := NewCubeFromPieces(edges, corners)
	if err != nil {
		t.Fatalf("NewCubeFromPieces: %v", err)
	}
	return c
}

func TestNewCubeIsSolved(t *testing.T) {
	c := NewCube()
	if !c.IsSolved() {
		t.Error("New cube should be solved")
	}
	for _, f := range AllFaces {
		if c.Center(f) != centerColors[f] {
			t.Errorf("Center(%v) = %v, want %v", f, c.Center(f), centerColors[f])
		}
	}
}

func TestNewCubeFromPiecesSolvedEqualsNewCube(t *testing.T) {
	edges, corners := solvedPieces()
	c := mustCube(t, edges, corners)
	if !c.Equal(NewCube()) {
		t.Error("solved pieces should equal NewCube")
	}
}

func TestIsSolvedChecksEveryCorner(t *testing.T) {
	// Only the last two corners are swapped.
	edges, corners := solvedPieces()
	corners[CornerDRF].Home, corners[CornerDRB].Home = int(CornerDRB), int(CornerDRF)
	c := mustCube(t, edges, corners)
	if c.IsSolved() {
		t.Error("cube with DRF and DRB swapped should not be solved")
	}
}

func TestIsSolvedChecksOrientation(t *testing.T) {
	edges, corners := solvedPieces()
	edges[EdgeDR].Orientation = Flipped
	if mustCube(t, edges, corners).IsSolved() {
		t.Error("cube with a flipped edge should not be solved")
	}

	edges, corners = solvedPieces()
	corners[CornerDRB].Orientation = Rotated
	if mustCube(t, edges, corners).IsSolved() {
		t.Error("cube with a twisted corner should not be solved")
	}
}

func TestEqual(t *testing.T) {
	edges, corners := solvedPieces()
	edges[EdgeUB].Orientation = Flipped
	a := mustCube(t, edges, corners)
	b := mustCube(t, edges, corners)
	solved := NewCube()

	if !a.Equal(a) {
		t.Error("Equal should be reflexive")
	}
	if !a.Equal(b) || !b.Equal(a) {
		t.Error("cubes built from the same pieces should be equal both ways")
	}
	if a.Equal(solved) || solved.Equal(a) {
		t.Error("cubes differing in one edge orientation should not be equal")
	}

	edges, corners = solvedPieces()
	edges[EdgeUB].Home, edges[EdgeUL].Home = 1, 0
	c := mustCube(t, edges, corners)
	if c.Equal(solved) {
		t.Error("cubes differing in edge permutation should not be equal")
	}
}

func TestCubeIsValueType(t *testing.T) {
	a := NewCube()
	edges := a.Edges()
	edges[0].Orientation = Flipped
	if a.Edge(EdgeUB).Orientation != Oriented {
		t.Error("modifying the result of Edges should not change the cube")
	}
}

func TestNewCubeFromPiecesRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*[NumEdges]Cubie, *[NumCorners]Cubie)
		want   error
	}{
		{"edge home out of range", func(e *[NumEdges]Cubie, _ *[NumCorners]Cubie) { e[3].Home = 12 }, ErrInvalidPieces},
		{"negative corner home", func(_ *[NumEdges]Cubie, c *[NumCorners]Cubie) { c[0].Home = -1 }, ErrInvalidPieces},
		{"duplicate edge", func(e *[NumEdges]Cubie, _ *[NumCorners]Cubie) { e[1].Home = 0 }, ErrInvalidPieces},
		{"duplicate corner", func(_ *[NumEdges]Cubie, c *[NumCorners]Cubie) { c[7].Home = 6 }, ErrInvalidPieces},
		{"edge rotated", func(e *[NumEdges]Cubie, _ *[NumCorners]Cubie) { e[0].Orientation = Rotated }, ErrInvalidOrientation},
		{"corner flipped", func(_ *[NumEdges]Cubie, c *[NumCorners]Cubie) { c[0].Orientation = Flipped }, ErrInvalidOrientation},
		{"corner zero orientation", func(_ *[NumEdges]Cubie, c *[NumCorners]Cubie) { c[2].Orientation = 0 }, ErrInvalidOrientation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edges, corners := solvedPieces()
			tt.mutate(&edges, &corners)
			_, err := NewCubeFromPieces(edges, corners)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEnumStrings(t *testing.T) {
	if EdgeDR.String() != "DR" || Edge(12).String() != "??" {
		t.Errorf("unexpected edge names %q %q", EdgeDR, Edge(12))
	}
	if CornerURB.String() != "URB" || Corner(-1).String() != "???" {
		t.Errorf("unexpected corner names %q %q", CornerURB, Corner(-1))
	}
	if FaceNone.String() != "-" || FaceB.String() != "B" {
		t.Errorf("unexpected face names %q %q", FaceNone, FaceB)
	}
	if Green.Name() != "green" || Color(9).String() != "X" {
		t.Errorf("unexpected color names %q %q", Green.Name(), Color(9))
	}
	if RotatedTwice.String() != "rotated_twice" || Orientation(0).String() != "invalid" {
		t.Errorf("unexpected orientation names %q %q", RotatedTwice, Orientation(0))
	}
}
