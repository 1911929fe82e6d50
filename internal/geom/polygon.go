package geom

// Polygon is a convex polygon given as an ordered, non-self-intersecting
// vertex ring. The closing edge from the last vertex back to the first is
// implicit. Either winding direction is accepted.
type Polygon struct {
	Points []Vec2
}

// NewPolygon copies points into a Polygon.
func NewPolygon(points ...Vec2) Polygon {
	cp := make([]Vec2, len(points))
	copy(cp, points)
	return Polygon{Points: cp}
}

// NumPoints returns the vertex count.
func (p Polygon) NumPoints() int {
	return len(p.Points)
}

// IsDegenerate reports whether the polygon encloses no area by construction
// (fewer than three vertices).
func (p Polygon) IsDegenerate() bool {
	return len(p.Points) < 3
}

// edge returns the vector from vertex i to vertex i+1 (wrapping).
func (p Polygon) edge(i int) Vec2 {
	a := p.Points[i]
	b := p.Points[(i+1)%len(p.Points)]
	return Vec2{X: b.X - a.X, Y: b.Y - a.Y}
}
