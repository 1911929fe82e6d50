package maneuver

import (
	"math"

	"github.com/banshee-data/maneuver.report/internal/geom"
	"github.com/banshee-data/maneuver.report/internal/monitoring"
)

// WithinTolerance reports whether the vehicle position and heading are
// close enough to the target.
//
// With a projector both positions are compared in Frenet coordinates:
// lateral error <= MaxLError, heading error <= MaxThetaError and, when
// checkS is set, 0 <= target.s - adc.s <= MaxSError.
//
// With a nil projector the open-space rule applies: straight-line distance
// <= MaxDistanceError and heading error <= MaxThetaError. checkS is ignored.
func WithinTolerance(adcPos geom.Vec2, adcTheta float64, targetPos geom.Vec2, targetTheta float64,
	cfg PullOverConfig, checkS bool, frenet FrenetProjector) bool {
	if frenet == nil {
		return withinDistance(adcPos, adcTheta, targetPos, targetTheta, cfg)
	}

	targetSL := frenet.Project(targetPos)
	adcSL := frenet.Project(adcPos)

	sDiff := targetSL.S - adcSL.S
	lDiff := math.Abs(targetSL.L - adcSL.L)
	thetaDiff := geom.AngleDiff(targetTheta, adcTheta)

	monitoring.Debugf("adc_s[%.3f] adc_l[%.3f] target_s[%.3f] target_l[%.3f] s_diff[%.3f] l_diff[%.3f] theta_diff[%.3f]",
		adcSL.S, adcSL.L, targetSL.S, targetSL.L, sDiff, lDiff, thetaDiff)

	ok := lDiff <= cfg.MaxLError && thetaDiff <= cfg.MaxThetaError
	if checkS {
		ok = ok && sDiff >= 0 && sDiff <= cfg.MaxSError
	}
	return ok
}

func withinDistance(adcPos geom.Vec2, adcTheta float64, targetPos geom.Vec2, targetTheta float64, cfg PullOverConfig) bool {
	distanceDiff := geom.Distance(adcPos, targetPos)
	thetaDiff := geom.AngleDiff(targetTheta, adcTheta)

	monitoring.Debugf("distance_diff[%.3f] theta_diff[%.3f]", distanceDiff, thetaDiff)

	return distanceDiff <= cfg.MaxDistanceError && thetaDiff <= cfg.MaxThetaError
}
