package geom

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
)

// axisEpsilon is the cross-product magnitude below which two unit axes are
// treated as parallel and tested only once. Edges shorter than this are
// skipped when collecting axes.
const axisEpsilon = 1e-12

// Overlaps reports whether an oriented box intersects a convex polygon.
// Touching boundaries count as overlap. A polygon with fewer than three
// vertices never overlaps.
func Overlaps(box OrientedBox, polygon Polygon) bool {
	return PolygonsOverlap(box.Polygon(), polygon)
}

// PolygonsOverlap runs a separating-axis test between two convex polygons.
//
// Algorithm:
//  1. Collect the edge normals of both polygons, dropping parallel duplicates
//  2. Project both vertex sets onto each normal
//  3. Disjoint projection intervals on any axis mean no overlap
//
// Intervals that share an endpoint are not disjoint, so touching shapes
// overlap.
func PolygonsOverlap(a, b Polygon) bool {
	if a.IsDegenerate() || b.IsDegenerate() {
		return false
	}

	axes := make([]Vec2, 0, a.NumPoints()+b.NumPoints())
	axes = appendAxes(axes, a)
	axes = appendAxes(axes, b)

	for _, axis := range axes {
		minA, maxA := projectOnto(a.Points, axis)
		minB, maxB := projectOnto(b.Points, axis)
		if maxA < minB || maxB < minA {
			return false
		}
	}
	return true
}

// appendAxes appends the unit edge normals of p that are not parallel to an
// axis already in the list.
func appendAxes(axes []Vec2, p Polygon) []Vec2 {
	for i := range p.Points {
		e := p.edge(i)
		n := r2.Norm(e)
		if n < axisEpsilon {
			continue
		}
		normal := Vec2{X: -e.Y / n, Y: e.X / n}
		if hasParallel(axes, normal) {
			continue
		}
		axes = append(axes, normal)
	}
	return axes
}

func hasParallel(axes []Vec2, v Vec2) bool {
	for _, a := range axes {
		if scalar.EqualWithinAbs(r2.Cross(a, v), 0, axisEpsilon) {
			return true
		}
	}
	return false
}

func projectOnto(points []Vec2, axis Vec2) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, pt := range points {
		d := r2.Dot(pt, axis)
		if d < lo {
			lo = d
		}
		if d > hi {
			hi = d
		}
	}
	return lo, hi
}
