// Package geom holds the 2D primitives used by the maneuver classifiers:
// poses, Frenet coordinates, oriented boxes, convex polygons and the
// separating-axis overlap test between them.
//
// Everything here is a value type and side-effect free. Vector maths is
// delegated to gonum's spatial/r2 package.
package geom
