// Package refline provides a polyline reference path with Frenet (s, l)
// projection and the categorized map overlaps (signals, stop signs, PnC
// junctions, yield signs) that lie along it.
//
// A Path is immutable once built and safe for concurrent readers;
// WithOverlaps returns a new Path rather than changing its receiver. It
// satisfies maneuver.FrenetProjector.
package refline
