package maneuver

import (
	"math"

	"github.com/banshee-data/maneuver.report/internal/geom"
	"github.com/banshee-data/maneuver.report/internal/monitoring"
)

// Cruise completion thresholds. These are fixed and not part of
// ParkAndGoConfig.
const (
	CruiseLBuffer       = 0.5 // metres
	CruiseHeadingBuffer = 0.1 // radians
)

// ParkAndGoSnapshot is the per-cycle input for the park-and-go checks.
type ParkAndGoSnapshot struct {
	ADC       geom.Pose2D // rear axle centre
	Obstacles []geom.Polygon
}

// HeadingAligned reports whether heading is within buffer (strictly) of the
// reference path tangent at the vehicle's projected s. Without a projector
// the heading is never aligned.
func HeadingAligned(pos geom.Vec2, heading float64, frenet FrenetProjector, buffer float64) bool {
	if frenet == nil {
		return false
	}
	sl := frenet.Project(pos)
	pathHeading := frenet.TangentHeadingAt(sl.S)
	return geom.AngleDiff(heading, pathHeading) < buffer
}

// ReadyToCruise reports whether the vehicle may leave the park position:
// nothing inside the front clearance box and heading aligned with the path.
// It is false when frenet is nil.
func ReadyToCruise(snap ParkAndGoSnapshot, vehicle VehicleParams, cfg ParkAndGoConfig, frenet FrenetProjector) bool {
	blocked := HasFrontClearanceViolation(snap.ADC, vehicle.Length, vehicle.Width,
		cfg.FrontObstacleBuffer, vehicle.BackEdgeToCenter, snap.Obstacles)
	aligned := HeadingAligned(snap.ADC.Position(), snap.ADC.Heading, frenet, cfg.HeadingBuffer)
	monitoring.Debugf("ready_to_cruise: front_blocked[%t] heading_aligned[%t]", blocked, aligned)
	return !blocked && aligned
}

// ClassifyCruise reports CRUISE_COMPLETE once the vehicle is within
// CruiseLBuffer of the path laterally and within CruiseHeadingBuffer of its
// tangent. The heading difference is taken raw, without wrapping. A nil
// projector reports CRUISING.
func ClassifyCruise(adc geom.Pose2D, frenet FrenetProjector) ParkAndGoStatus {
	if frenet == nil {
		return ParkAndGoCruising
	}
	sl := frenet.Project(adc.Position())
	pathHeading := frenet.TangentHeadingAt(sl.S)

	monitoring.Debugf("adc_l[%.3f] adc_heading[%.3f] path_heading[%.3f]", sl.L, adc.Heading, pathHeading)

	if math.Abs(sl.L) < CruiseLBuffer && math.Abs(adc.Heading-pathHeading) < CruiseHeadingBuffer {
		monitoring.Debugf("cruise completed")
		return ParkAndGoCruiseComplete
	}
	return ParkAndGoCruising
}
