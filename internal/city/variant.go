package city

import "fmt"

// Shape is the connector piece a road cell needs.
type Shape uint8

const (
	ShapeIsolated Shape = iota // no road neighbours
	ShapeDeadEnd               // one neighbour
	ShapeStraight              // two opposite neighbours
	ShapeCorner                // two adjacent neighbours
	ShapeTJunction             // three neighbours
	ShapeCross                 // four neighbours
)

func (s Shape) String() string {
	switch s {
	case ShapeIsolated:
		return "isolated"
	case ShapeDeadEnd:
		return "dead_end"
	case ShapeStraight:
		return "straight"
	case ShapeCorner:
		return "corner"
	case ShapeTJunction:
		return "t_junction"
	case ShapeCross:
		return "cross"
	default:
		return fmt.Sprintf("shape(%d)", uint8(s))
	}
}

// Axis is the orientation of a straight piece.
type Axis uint8

const (
	AxisNone Axis = iota
	AxisX
	AxisZ
)

// Variant is the resolved piece for a road cell. Rotation is a clockwise
// quarter-turn count in [0,3]; degrees are 90*Rotation.
type Variant struct {
	Shape    Shape
	Rotation int
	Sides    Side
}

func (v Variant) String() string {
	return fmt.Sprintf("%s@%d", v.Shape, v.Rotation*90)
}

// Degrees returns the rotation in degrees.
func (v Variant) Degrees() int { return v.Rotation * 90 }

// Axis reports the run direction of a straight piece, AxisNone otherwise.
func (v Variant) Axis() Axis {
	if v.Shape != ShapeStraight {
		return AxisNone
	}
	if v.Rotation%2 == 0 {
		return AxisX
	}
	return AxisZ
}

// NormalizeRotation folds quarter-turns or multiples of 90 degrees into [0,3].
func NormalizeRotation(r int) int {
	if r%90 == 0 && (r > 3 || r < -3) {
		r = r / 90
	}
	r %= 4
	if r < 0 {
		r += 4
	}
	return r
}

// variantForSides maps the set of road-connected sides to a piece and its
// rotation. The models face +X at rotation 0.
func variantForSides(s Side) Variant {
	v := Variant{Sides: s}
	switch s.Count() {
	case 0:
		v.Shape, v.Rotation = ShapeIsolated, 2
	case 1:
		v.Shape = ShapeDeadEnd
		switch s {
		case SideUp:
			v.Rotation = 3
		case SideRight:
			v.Rotation = 0
		case SideDown:
			v.Rotation = 1
		default:
			v.Rotation = 2
		}
	case 2:
		switch s {
		case SideLeft | SideRight:
			v.Shape, v.Rotation = ShapeStraight, 0
		case SideUp | SideDown:
			v.Shape, v.Rotation = ShapeStraight, 1
		case SideUp | SideRight:
			v.Shape, v.Rotation = ShapeCorner, 1
		case SideRight | SideDown:
			v.Shape, v.Rotation = ShapeCorner, 2
		case SideDown | SideLeft:
			v.Shape, v.Rotation = ShapeCorner, 3
		default: // left and up
			v.Shape, v.Rotation = ShapeCorner, 0
		}
	case 3:
		v.Shape = ShapeTJunction
		switch {
		case s&SideLeft == 0:
			v.Rotation = 0
		case s&SideUp == 0:
			v.Rotation = 1
		case s&SideRight == 0:
			v.Rotation = 2
		default:
			v.Rotation = 3
		}
	default:
		v.Shape = ShapeCross
	}
	return v
}
