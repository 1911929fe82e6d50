package maneuver

import (
	"github.com/banshee-data/maneuver.report/internal/geom"
	"github.com/banshee-data/maneuver.report/internal/monitoring"
)

// StartParkCheckRange is how far short of the target (metres, front edge to
// target s) the vehicle must be before its final position is judged.
const StartParkCheckRange = 3.0

// PullOverSnapshot is everything ClassifyPullOver reads for one planning
// cycle. Callers fill it from their state stores before the call.
type PullOverSnapshot struct {
	Target        PullOverTarget
	ADC           geom.Pose2D // rear axle centre
	ADCFrontEdgeS float64     // s of the vehicle front edge on the reference path
	ADCSpeed      float64     // m/s
	MaxStopSpeed  float64     // m/s; VehicleParams.MaxAbsSpeedWhenStopped
}

// PullOverResult carries the status together with the quantities that drove
// it. DistanceToTarget is front-edge s minus target s and is only set once
// the target has been projected.
type PullOverResult struct {
	Status           PullOverStatus
	DistanceToTarget float64
	TargetSL         geom.FrenetCoordinate
	Projected        bool
}

// ClassifyPullOver decides the pull-over status against the reference path.
//
// Checks run in a fixed order and the first that fires wins:
//  1. incomplete target (or no projector): UNKNOWN
//  2. front edge at least PassDestinationThreshold past the target: PASS_DESTINATION
//  3. speed above MaxStopSpeed: APPROACHING
//  4. front edge StartParkCheckRange or more short of the target: APPROACHING
//  5. position within tolerance (s, l and heading): PARK_COMPLETE, else PARK_FAIL
func ClassifyPullOver(snap PullOverSnapshot, cfg PullOverConfig, frenet FrenetProjector) PullOverStatus {
	return EvaluatePullOver(snap, cfg, frenet).Status
}

// EvaluatePullOver is ClassifyPullOver with the intermediate values exposed.
func EvaluatePullOver(snap PullOverSnapshot, cfg PullOverConfig, frenet FrenetProjector) PullOverResult {
	if !snap.Target.Complete() {
		monitoring.Debugf("pull_over status not set properly: %s", snap.Target)
		return PullOverResult{Status: PullOverUnknown}
	}
	if frenet == nil {
		monitoring.Debugf("pull_over check without reference line")
		return PullOverResult{Status: PullOverUnknown}
	}

	targetSL := frenet.Project(snap.Target.Position())
	distance := snap.ADCFrontEdgeS - targetSL.S
	res := PullOverResult{DistanceToTarget: distance, TargetSL: targetSL, Projected: true}

	if distance >= cfg.PassDestinationThreshold {
		monitoring.Debugf("ADC passed pull-over spot: distance[%.3f]", distance)
		res.Status = PullOverPassDestination
		return res
	}

	if snap.ADCSpeed > snap.MaxStopSpeed {
		monitoring.Debugf("ADC not stopped: speed[%.3f]", snap.ADCSpeed)
		res.Status = PullOverApproaching
		return res
	}

	if distance <= -StartParkCheckRange {
		monitoring.Debugf("ADC still far: distance[%.3f]", distance)
		res.Status = PullOverApproaching
		return res
	}

	if WithinTolerance(snap.ADC.Position(), snap.ADC.Heading,
		snap.Target.Position(), *snap.Target.Theta, cfg, true, frenet) {
		res.Status = PullOverParkComplete
	} else {
		res.Status = PullOverParkFail
	}
	return res
}

// ClassifyPullOverPathPoint checks a planned path point (usually the last
// point of the pull-over path) against the target using lateral and heading
// error only.
func ClassifyPullOverPathPoint(target PullOverTarget, pathPoint geom.Pose2D, cfg PullOverConfig, frenet FrenetProjector) PullOverStatus {
	if !target.Complete() {
		monitoring.Debugf("pull_over status not set properly: %s", target)
		return PullOverUnknown
	}
	if frenet == nil {
		return PullOverUnknown
	}
	if WithinTolerance(pathPoint.Position(), pathPoint.Heading,
		target.Position(), *target.Theta, cfg, false, frenet) {
		return PullOverParkComplete
	}
	return PullOverParkFail
}

// ClassifyPullOverOpenSpace checks the vehicle pose against the target by
// straight-line distance and heading, for pull-overs planned in open space
// without a reference path.
func ClassifyPullOverOpenSpace(target PullOverTarget, adc geom.Pose2D, cfg PullOverConfig) PullOverStatus {
	if !target.Complete() {
		monitoring.Debugf("pull_over status not set properly: %s", target)
		return PullOverUnknown
	}
	if WithinTolerance(adc.Position(), adc.Heading,
		target.Position(), *target.Theta, cfg, false, nil) {
		return PullOverParkComplete
	}
	return PullOverParkFail
}
