package refline

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/maneuver.report/internal/geom"
)

// minSegmentLength drops consecutive path points closer than this (metres).
const minSegmentLength = 1e-6

// ErrTooFewPoints is returned when a path has fewer than two distinct points.
var ErrTooFewPoints = errors.New("reference path needs at least two distinct points")

// Path is a piecewise-linear reference path.
type Path struct {
	points   []geom.Vec2
	accS     []float64 // arc length at each point
	headings []float64 // heading of segment i (points[i] -> points[i+1])
	overlaps *PathOverlaps
}

// NewPath builds a Path from an ordered point list. Consecutive duplicate
// points are collapsed.
func NewPath(points []geom.Vec2) (*Path, error) {
	pts := make([]geom.Vec2, 0, len(points))
	for i, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			return nil, fmt.Errorf("reference path point %d is NaN", i)
		}
		if len(pts) > 0 && geom.Distance(pts[len(pts)-1], p) < minSegmentLength {
			continue
		}
		pts = append(pts, p)
	}
	if len(pts) < 2 {
		return nil, ErrTooFewPoints
	}

	accS := make([]float64, len(pts))
	headings := make([]float64, len(pts)-1)
	for i := 1; i < len(pts); i++ {
		d := r2.Sub(pts[i], pts[i-1])
		accS[i] = accS[i-1] + r2.Norm(d)
		headings[i-1] = math.Atan2(d.Y, d.X)
	}

	return &Path{
		points:   pts,
		accS:     accS,
		headings: headings,
		overlaps: NewPathOverlaps(),
	}, nil
}

// WithOverlaps returns a copy of the path carrying the given overlaps. The
// receiver is left unchanged. The overlap set must not be modified after
// it is attached.
func (p *Path) WithOverlaps(o *PathOverlaps) *Path {
	if o == nil {
		o = NewPathOverlaps()
	}
	cp := *p
	cp.overlaps = o
	return &cp
}

// Overlaps returns the categorized overlaps along the path.
func (p *Path) Overlaps() *PathOverlaps {
	return p.overlaps
}

// Length returns the total arc length (metres).
func (p *Path) Length() float64 {
	return p.accS[len(p.accS)-1]
}

// Points returns a copy of the path vertices.
func (p *Path) Points() []geom.Vec2 {
	cp := make([]geom.Vec2, len(p.points))
	copy(cp, p.points)
	return cp
}

// Project converts a world point into Frenet coordinates relative to the
// path. Points before the start or past the end are extrapolated along the
// first or last segment, so s may be negative or exceed Length().
func (p *Path) Project(pt geom.Vec2) geom.FrenetCoordinate {
	best := math.Inf(1)
	var out geom.FrenetCoordinate
	last := len(p.headings) - 1

	for i := 0; i <= last; i++ {
		a := p.points[i]
		segLen := p.accS[i+1] - p.accS[i]
		u := geom.HeadingVec(p.headings[i])
		rel := r2.Sub(pt, a)

		along := r2.Dot(rel, u)
		if i > 0 && along < 0 {
			along = 0
		}
		if i < last && along > segLen {
			along = segLen
		}

		foot := r2.Add(a, r2.Scale(along, u))
		d := geom.Distance(pt, foot)
		if d < best {
			best = d
			l := d
			if r2.Cross(u, rel) < 0 {
				l = -d
			}
			out = geom.FrenetCoordinate{S: p.accS[i] + along, L: l}
		}
	}
	return out
}

// TangentHeadingAt returns the path heading at arc length s. Values outside
// [0, Length()] take the heading of the first or last segment.
func (p *Path) TangentHeadingAt(s float64) float64 {
	return p.headings[p.segmentAt(s)]
}

// PointAt returns the world point at arc length s, clamped to the path.
func (p *Path) PointAt(s float64) geom.Vec2 {
	s = math.Max(0, math.Min(s, p.Length()))
	i := p.segmentAt(s)
	return r2.Add(p.points[i], r2.Scale(s-p.accS[i], geom.HeadingVec(p.headings[i])))
}

// segmentAt returns the index of the first segment whose end lies beyond s.
func (p *Path) segmentAt(s float64) int {
	n := len(p.headings)
	i := sort.Search(n, func(k int) bool { return p.accS[k+1] > s })
	if i >= n {
		return n - 1
	}
	return i
}

// FindOverlap resolves an overlap on this path by category and object id.
func (p *Path) FindOverlap(t OverlapType, objectID string) (PathOverlap, bool) {
	return p.overlaps.Find(t, objectID)
}
