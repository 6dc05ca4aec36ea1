package micube

import "strings"

// FaceGrid is the 3x3 sticker grid of one face, row-major from the top-left
// as seen looking straight at that face.
type FaceGrid [3][3]Color

// String returns the grid as three space-separated rows.
func (g FaceGrid) String() string {
	var b strings.Builder
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			if col > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(g[row][col].String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// sticker locates one visible sticker: a slot and an index into that slot's
// color tuple.
type sticker struct {
	corner bool
	slot   int
	index  int
}

func edgeAt(slot Edge, index int) sticker { return sticker{slot: int(slot), index: index} }
func cornerAt(slot Corner, index int) sticker { return sticker{corner: true, slot: int(slot), index: index} }

// center marks the middle cell, which always shows the face's center color.
var center = sticker{slot: -1}

// faceStickers maps every cell of every face to the sticker shown there.
var faceStickers = [6][3][3]sticker{
	FaceU: {
		{cornerAt(CornerULB, 0), edgeAt(EdgeUB, 0), cornerAt(CornerURB, 0)},
		{edgeAt(EdgeUL, 0), center, edgeAt(EdgeUR, 0)},
		{cornerAt(CornerULF, 0), edgeAt(EdgeUF, 0), cornerAt(CornerURF, 0)},
	},
	FaceL: {
		{cornerAt(CornerULB, 1), edgeAt(EdgeUL, 1), cornerAt(CornerULF, 1)},
		{edgeAt(EdgeBL, 1), center, edgeAt(EdgeFL, 1)},
		{cornerAt(CornerDLB, 1), edgeAt(EdgeDL, 1), cornerAt(CornerDLF, 1)},
	},
	FaceF: {
		{cornerAt(CornerULF, 2), edgeAt(EdgeUF, 1), cornerAt(CornerURF, 2)},
		{edgeAt(EdgeFL, 0), center, edgeAt(EdgeFR, 0)},
		{cornerAt(CornerDLF, 2), edgeAt(EdgeDF, 1), cornerAt(CornerDRF, 2)},
	},
	FaceR: {
		{cornerAt(CornerURF, 1), edgeAt(EdgeUR, 1), cornerAt(CornerURB, 1)},
		{edgeAt(EdgeFR, 1), center, edgeAt(EdgeBR, 1)},
		{cornerAt(CornerDRF, 1), edgeAt(EdgeDR, 1), cornerAt(CornerDRB, 1)},
	},
	FaceB: {
		{cornerAt(CornerURB, 2), edgeAt(EdgeUB, 1), cornerAt(CornerULB, 2)},
		{edgeAt(EdgeBR, 0), center, edgeAt(EdgeBL, 0)},
		{cornerAt(CornerDRB, 2), edgeAt(EdgeDB, 1), cornerAt(CornerDLB, 2)},
	},
	FaceD: {
		{cornerAt(CornerDLF, 0), edgeAt(EdgeDF, 0), cornerAt(CornerDRF, 0)},
		{edgeAt(EdgeDL, 0), center, edgeAt(EdgeDR, 0)},
		{cornerAt(CornerDLB, 0), edgeAt(EdgeDB, 0), cornerAt(CornerDRB, 0)},
	},
}

// Color returns the sticker color at row, col (each 0..2) of a face.
func (c Cube) Color(face Face, row, col int) Color {
	return c.color(face, row, col, c.IsSolved())
}

func (c Cube) color(face Face, row, col int, solved bool) Color {
	s := faceStickers[face][row][col]
	switch {
	case s == center:
		return c.centers[face]
	case s.corner:
		return c.cornerColors(Corner(s.slot), solved)[s.index]
	default:
		return c.EdgeColors(Edge(s.slot))[s.index]
	}
}

// FaceColors returns all nine stickers of a face.
func (c Cube) FaceColors(face Face) FaceGrid {
	solved := c.IsSolved()
	var g FaceGrid
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			g[row][col] = c.color(face, row, col, solved)
		}
	}
	return g
}

// Faces returns the grids of all six faces indexed by Face.
func (c Cube) Faces() [6]FaceGrid {
	var grids [6]FaceGrid
	for _, f := range AllFaces {
		grids[f] = c.FaceColors(f)
	}
	return grids
}

// String returns the cube as an unfolded net:
//
//	  U
//	L F R B
//	  D
func (c Cube) String() string {
	grids := c.Faces()
	var b strings.Builder

	// U face (indented)
	for row := 0; row < 3; row++ {
		b.WriteString("      ")
		for col := 0; col < 3; col++ {
			b.WriteString(grids[FaceU][row][col].String() + " ")
		}
		b.WriteString("\n")
	}

	// L, F, R, B faces (side by side)
	for row := 0; row < 3; row++ {
		for _, face := range []Face{FaceL, FaceF, FaceR, FaceB} {
			for col := 0; col < 3; col++ {
				b.WriteString(grids[face][row][col].String() + " ")
			}
		}
		b.WriteString("\n")
	}

	// D face (indented)
	for row := 0; row < 3; row++ {
		b.WriteString("      ")
		for col := 0; col < 3; col++ {
			b.WriteString(grids[FaceD][row][col].String() + " ")
		}
		b.WriteString("\n")
	}

	return b.String()
}
