package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec2 is a point or direction in the world X-Y plane (metres).
type Vec2 = r2.Vec

// Pose2D is a planar pose snapshot.
//
//   - X, Y: position (metres, world frame)
//   - Heading: yaw (radians, (-π, π])
type Pose2D struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
}

// Position returns the pose's X-Y position.
func (p Pose2D) Position() Vec2 {
	return Vec2{X: p.X, Y: p.Y}
}

// Direction returns the unit vector along the pose heading.
func (p Pose2D) Direction() Vec2 {
	return HeadingVec(p.Heading)
}

// HeadingVec returns the unit vector for a heading angle.
func HeadingVec(heading float64) Vec2 {
	return Vec2{X: math.Cos(heading), Y: math.Sin(heading)}
}

// FrenetCoordinate is a point expressed relative to a reference path.
// S is the arc length along the path, L the signed lateral offset (positive
// to the left of the path direction).
type FrenetCoordinate struct {
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Vec2) float64 {
	return r2.Norm(r2.Sub(a, b))
}
