// Package maneuver decides whether an in-progress pull-over or park-and-go
// maneuver has completed.
//
// Responsibilities: pull-over completion (reference-line, path-point and
// open-space variants), position tolerance checks, front clearance against
// obstacle polygons, heading alignment, and park-and-go cruise readiness and
// completion.
//
// Every function is a pure computation over the snapshot it is given. No
// status is carried between calls; callers that want hysteresis across
// planning cycles keep it themselves.
package maneuver
