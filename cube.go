package micube

import "fmt"

// Cubie is the piece occupying a slot. Home is the slot the piece sits in when
// the cube is solved and serves as its identity.
type Cubie struct {
	Home        int
	Orientation Orientation
}

// centerColors is fixed: this cube has green on top and white in front.
var centerColors = [6]Color{
	FaceU: Green,
	FaceL: Red,
	FaceF: White,
	FaceR: Orange,
	FaceB: Yellow,
	FaceD: Blue,
}

// Cube is the mechanical state of a 3x3 cube: permutation and orientation of
// the 12 edges and 8 corners, plus the fixed centers.
//
// Cube is a value type. Assigning or passing a Cube copies it; no two Cubes
// share state.
//
// The zero Cube is not usable: its corners carry no orientation, and color
// lookups panic with ErrInvalidOrientation. Build cubes with NewCube,
// NewCubeFromPieces or DecodeFrame.
type Cube struct {
	edges   [NumEdges]Cubie
	corners [NumCorners]Cubie
	centers [6]Color
}

// NewCube returns the solved cube: every slot holds its home piece, oriented.
func NewCube() Cube {
	var c Cube
	for i := range c.edges {
		c.edges[i] = Cubie{Home: i, Orientation: Oriented}
	}
	for i := range c.corners {
		c.corners[i] = Cubie{Home: i, Orientation: Oriented}
	}
	c.centers = centerColors
	return c
}

// NewCubeFromPieces builds a cube from explicit slot contents.
// Edge homes must be a permutation of 0..11 with edge orientations, corner
// homes a permutation of 0..7 with corner orientations.
func NewCubeFromPieces(edges [NumEdges]Cubie, corners [NumCorners]Cubie) (Cube, error) {
	var seenEdges [NumEdges]bool
	for slot, e := range edges {
		if e.Home < 0 || e.Home >= NumEdges {
			return Cube{}, fmt.Errorf("%w: edge %v holds piece %d", ErrInvalidPieces, Edge(slot), e.Home)
		}
		if seenEdges[e.Home] {
			return Cube{}, fmt.Errorf("%w: edge piece %v appears twice", ErrInvalidPieces, Edge(e.Home))
		}
		seenEdges[e.Home] = true
		if !e.Orientation.validEdge() {
			return Cube{}, fmt.Errorf("%w: edge %v is %v", ErrInvalidOrientation, Edge(slot), e.Orientation)
		}
	}

	var seenCorners [NumCorners]bool
	for slot, c := range corners {
		if c.Home < 0 || c.Home >= NumCorners {
			return Cube{}, fmt.Errorf("%w: corner %v holds piece %d", ErrInvalidPieces, Corner(slot), c.Home)
		}
		if seenCorners[c.Home] {
			return Cube{}, fmt.Errorf("%w: corner piece %v appears twice", ErrInvalidPieces, Corner(c.Home))
		}
		seenCorners[c.Home] = true
		if !c.Orientation.validCorner() {
			return Cube{}, fmt.Errorf("%w: corner %v is %v", ErrInvalidOrientation, Corner(slot), c.Orientation)
		}
	}

	return Cube{edges: edges, corners: corners, centers: centerColors}, nil
}

// Edge returns the cubie in an edge slot.
func (c Cube) Edge(e Edge) Cubie {
	return c.edges[e]
}

// Corner returns the cubie in a corner slot.
func (c Cube) Corner(k Corner) Cubie {
	return c.corners[k]
}

// Center returns the fixed center color of a face.
func (c Cube) Center(f Face) Color {
	return c.centers[f]
}

// Edges returns a copy of all edge slots.
func (c Cube) Edges() [NumEdges]Cubie {
	return c.edges
}

// Corners returns a copy of all corner slots.
func (c Cube) Corners() [NumCorners]Cubie {
	return c.corners
}

// IsSolved returns true if every edge and corner is home and oriented.
func (c Cube) IsSolved() bool {
	for i, e := range c.edges {
		if e.Home != i || e.Orientation != Oriented {
			return false
		}
	}
	for i, k := range c.corners {
		if k.Home != i || k.Orientation != Oriented {
			return false
		}
	}
	return true
}

// Equal reports whether both cubes have the same pieces in the same slots with
// the same orientations and the same centers.
func (c Cube) Equal(other Cube) bool {
	return c.edges == other.edges &&
		c.corners == other.corners &&
		c.centers == other.centers
}
