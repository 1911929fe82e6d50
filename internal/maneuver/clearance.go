package maneuver

import (
	"github.com/banshee-data/maneuver.report/internal/geom"
	"github.com/banshee-data/maneuver.report/internal/monitoring"
)

// ClearanceBox returns the vehicle-sized box used for the front clearance
// check: centred on pose, then pushed forward along the heading by
// forwardBuffer + backEdgeToCenter.
func ClearanceBox(pose geom.Pose2D, length, width, forwardBuffer, backEdgeToCenter float64) geom.OrientedBox {
	return geom.NewOrientedBox(pose.Position(), pose.Heading, length, width).
		ShiftAlongHeading(forwardBuffer + backEdgeToCenter)
}

// HasFrontClearanceViolation reports whether any obstacle polygon overlaps
// the shifted clearance box. pose is the rear axle centre. Obstacles with
// fewer than three vertices never count as a violation.
func HasFrontClearanceViolation(pose geom.Pose2D, length, width, forwardBuffer, backEdgeToCenter float64, obstacles []geom.Polygon) bool {
	if len(obstacles) == 0 {
		return false
	}
	box := ClearanceBox(pose, length, width, forwardBuffer, backEdgeToCenter)
	for i, obstacle := range obstacles {
		if geom.Overlaps(box, obstacle) {
			monitoring.Debugf("front clearance violated by obstacle[%d] buffer[%.2f]", i, forwardBuffer)
			return true
		}
	}
	return false
}

// ClearanceBox returns the clearance box for this vehicle.
func (v VehicleParams) ClearanceBox(pose geom.Pose2D, forwardBuffer float64) geom.OrientedBox {
	return ClearanceBox(pose, v.Length, v.Width, forwardBuffer, v.BackEdgeToCenter)
}
