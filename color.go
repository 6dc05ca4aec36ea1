package micube

// Color represents a sticker color.
// The numeric values match the wire face numbering minus one.
type Color byte

const (
	Blue   Color = 0 // Down face when solved
	Yellow Color = 1 // Back face when solved
	Orange Color = 2 // Right face when solved
	White  Color = 3 // Front face when solved
	Red    Color = 4 // Left face when solved
	Green  Color = 5 // Up face when solved
)

func (c Color) String() string {
	switch c {
	case Blue:
		return "B"
	case Yellow:
		return "Y"
	case Orange:
		return "O"
	case White:
		return "W"
	case Red:
		return "R"
	case Green:
		return "G"
	default:
		return "X"
	}
}

// Name returns the lowercase color name.
func (c Color) Name() string {
	switch c {
	case Blue:
		return "blue"
	case Yellow:
		return "yellow"
	case Orange:
		return "orange"
	case White:
		return "white"
	case Red:
		return "red"
	case Green:
		return "green"
	default:
		return "unknown"
	}
}

// Face identifies one side of the cube as held with green up and white in front.
type Face int

const (
	FaceU Face = iota // Up (Green)
	FaceL             // Left (Red)
	FaceF             // Front (White)
	FaceR             // Right (Orange)
	FaceB             // Back (Yellow)
	FaceD             // Down (Blue)
	FaceNone
)

// AllFaces lists the six real faces in model order.
var AllFaces = [6]Face{FaceU, FaceL, FaceF, FaceR, FaceB, FaceD}

func (f Face) String() string {
	switch f {
	case FaceU:
		return "U"
	case FaceL:
		return "L"
	case FaceF:
		return "F"
	case FaceR:
		return "R"
	case FaceB:
		return "B"
	case FaceD:
		return "D"
	default:
		return "-"
	}
}

// Edge is one of the 12 edge slots.
// Top layer counter-clockwise from UB, then the middle layer from BL, then the
// bottom layer counter-clockwise from DB.
type Edge int

const (
	EdgeUB Edge = iota
	EdgeUL
	EdgeUF
	EdgeUR
	EdgeBL
	EdgeFL
	EdgeFR
	EdgeBR
	EdgeDB
	EdgeDL
	EdgeDF
	EdgeDR
)

// NumEdges is the number of edge slots.
const NumEdges = 12

var edgeNames = [NumEdges]string{"UB", "UL", "UF", "UR", "BL", "FL", "FR", "BR", "DB", "DL", "DF", "DR"}

func (e Edge) String() string {
	if e < 0 || int(e) >= NumEdges {
		return "??"
	}
	return edgeNames[e]
}

// Corner is one of the 8 corner slots.
// Top layer counter-clockwise from ULB, then the bottom layer counter-clockwise from DLB.
type Corner int

const (
	CornerULB Corner = iota
	CornerULF
	CornerURF
	CornerURB
	CornerDLB
	CornerDLF
	CornerDRF
	CornerDRB
)

// NumCorners is the number of corner slots.
const NumCorners = 8

var cornerNames = [NumCorners]string{"ULB", "ULF", "URF", "URB", "DLB", "DLF", "DRF", "DRB"}

func (c Corner) String() string {
	if c < 0 || int(c) >= NumCorners {
		return "???"
	}
	return cornerNames[c]
}

// Orientation is the rotational state of a cubie in its slot, seen from the
// up/left/back reference. Values are the codes used on the wire.
type Orientation byte

const (
	RotatedTwice Orientation = 1 // corner, 240 degrees
	Rotated      Orientation = 2 // corner, 120 degrees
	Oriented     Orientation = 3
	Flipped      Orientation = 4 // edge only
)

func (o Orientation) String() string {
	switch o {
	case Oriented:
		return "oriented"
	case Flipped:
		return "flipped"
	case Rotated:
		return "rotated"
	case RotatedTwice:
		return "rotated_twice"
	default:
		return "invalid"
	}
}

// validCorner reports whether o is a corner orientation.
func (o Orientation) validCorner() bool {
	return o == Oriented || o == Rotated || o == RotatedTwice
}

// validEdge reports whether o is an edge orientation.
func (o Orientation) validEdge() bool {
	return o == Oriented || o == Flipped
}
