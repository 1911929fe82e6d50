package geom

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// OrientedBox is a rectangle aligned to its own heading rather than to the
// world axes.
//
//   - Center: box centre (metres, world frame)
//   - Heading: direction of the Length axis (radians)
//   - Length: extent along Heading (metres)
//   - Width: extent perpendicular to Heading (metres)
type OrientedBox struct {
	Center  Vec2
	Heading float64
	Length  float64
	Width   float64
}

// NewOrientedBox builds a box centred on center.
func NewOrientedBox(center Vec2, heading, length, width float64) OrientedBox {
	return OrientedBox{
		Center:  center,
		Heading: heading,
		Length:  length,
		Width:   width,
	}
}

// Shift translates the box by offset without rotating it.
func (b OrientedBox) Shift(offset Vec2) OrientedBox {
	b.Center = r2.Add(b.Center, offset)
	return b
}

// ShiftAlongHeading moves the box distance metres along its own heading.
// Negative distances move it backwards.
func (b OrientedBox) ShiftAlongHeading(distance float64) OrientedBox {
	return b.Shift(r2.Scale(distance, HeadingVec(b.Heading)))
}

// Corners returns the four box vertices in counter-clockwise order, starting
// at the front-left corner.
func (b OrientedBox) Corners() []Vec2 {
	dir := HeadingVec(b.Heading)
	halfLen := r2.Scale(b.Length/2, dir)
	halfWid := r2.Scale(b.Width/2, Vec2{X: -dir.Y, Y: dir.X})

	front := r2.Add(b.Center, halfLen)
	rear := r2.Sub(b.Center, halfLen)
	return []Vec2{
		r2.Add(front, halfWid),
		r2.Add(rear, halfWid),
		r2.Sub(rear, halfWid),
		r2.Sub(front, halfWid),
	}
}

// Polygon returns the box as a 4-vertex convex polygon.
func (b OrientedBox) Polygon() Polygon {
	return Polygon{Points: b.Corners()}
}
