package maneuver

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/banshee-data/maneuver.report/internal/geom"
)

var validate = validator.New()

// PullOverStatus is the outcome of a pull-over completion check.
type PullOverStatus string

const (
	// PullOverUnknown means the target was missing or incomplete
	PullOverUnknown PullOverStatus = "unknown"
	// PullOverApproaching means the vehicle is still moving or still far away
	PullOverApproaching PullOverStatus = "approaching"
	// PullOverParkComplete means the vehicle stopped within tolerance
	PullOverParkComplete PullOverStatus = "park_complete"
	// PullOverParkFail means the vehicle stopped outside tolerance
	PullOverParkFail PullOverStatus = "park_fail"
	// PullOverPassDestination means the vehicle overshot the target
	PullOverPassDestination PullOverStatus = "pass_destination"
)

// ParkAndGoStatus is the outcome of a park-and-go cruise check.
type ParkAndGoStatus string

const (
	// ParkAndGoCruising means the vehicle has not yet rejoined the path
	ParkAndGoCruising ParkAndGoStatus = "cruising"
	// ParkAndGoCruiseComplete means the vehicle is on the path and aligned
	ParkAndGoCruiseComplete ParkAndGoStatus = "cruise_complete"
)

// FrenetProjector converts world positions into coordinates relative to a
// reference path. Implementations must be safe to call from the goroutine
// running the classifier; refline.Path is one.
type FrenetProjector interface {
	Project(pt geom.Vec2) geom.FrenetCoordinate
	TangentHeadingAt(s float64) float64
}

// PullOverTarget mirrors the externally stored pull-over record. Missing
// fields are nil; a target is only usable when Complete reports true.
type PullOverTarget struct {
	IsFeasible bool     `json:"is_feasible"`
	X          *float64 `json:"x,omitempty"`
	Y          *float64 `json:"y,omitempty"`
	Theta      *float64 `json:"theta,omitempty"`
}

// NewPullOverTarget returns a feasible, fully populated target.
func NewPullOverTarget(x, y, theta float64) PullOverTarget {
	return PullOverTarget{IsFeasible: true, X: &x, Y: &y, Theta: &theta}
}

// Complete reports whether the target is feasible and has x, y and theta.
func (t PullOverTarget) Complete() bool {
	return t.IsFeasible && t.X != nil && t.Y != nil && t.Theta != nil
}

// Position returns the target position. Only valid when Complete.
func (t PullOverTarget) Position() geom.Vec2 {
	return geom.Vec2{X: *t.X, Y: *t.Y}
}

func (t PullOverTarget) String() string {
	f := func(v *float64) string {
		if v == nil {
			return "<nil>"
		}
		return fmt.Sprintf("%.3f", *v)
	}
	return fmt.Sprintf("is_feasible=%t x=%s y=%s theta=%s", t.IsFeasible, f(t.X), f(t.Y), f(t.Theta))
}

// VehicleParams is the ego vehicle geometry.
//
//   - Length, Width: footprint extents (metres)
//   - BackEdgeToCenter: rear axle centre to rear bumper (metres)
//   - MaxAbsSpeedWhenStopped: speed below which the vehicle counts as stopped (m/s)
type VehicleParams struct {
	Length                 float64 `json:"length" validate:"gt=0"`
	Width                  float64 `json:"width" validate:"gt=0"`
	BackEdgeToCenter       float64 `json:"back_edge_to_center" validate:"gte=0"`
	MaxAbsSpeedWhenStopped float64 `json:"max_abs_speed_when_stopped" validate:"gte=0"`
}

// Validate checks the vehicle parameters.
func (v VehicleParams) Validate() error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("invalid vehicle params: %w", err)
	}
	return nil
}

// Footprint returns the vehicle outline for a pose given at the rear axle
// centre.
func (v VehicleParams) Footprint(pose geom.Pose2D) geom.OrientedBox {
	return geom.NewOrientedBox(pose.Position(), pose.Heading, v.Length, v.Width).
		ShiftAlongHeading(v.Length/2 - v.BackEdgeToCenter)
}

// FrontEdgeS returns the largest arc length covered by the vehicle
// footprint, i.e. the s of its front edge on the reference path.
func (v VehicleParams) FrontEdgeS(pose geom.Pose2D, frenet FrenetProjector) float64 {
	corners := v.Footprint(pose).Corners()
	maxS := frenet.Project(corners[0]).S
	for _, c := range corners[1:] {
		if s := frenet.Project(c).S; s > maxS {
			maxS = s
		}
	}
	return maxS
}

// PullOverConfig holds the pull-over tolerances.
//
//   - MaxSError: largest allowed shortfall before the target along s (metres)
//   - MaxLError: largest allowed lateral offset from the target (metres)
//   - MaxThetaError: largest allowed heading error (radians)
//   - MaxDistanceError: largest straight-line error for open-space checks (metres)
//   - PassDestinationThreshold: front-edge overshoot that counts as passing (metres)
type PullOverConfig struct {
	MaxSError                float64 `json:"max_s_error" validate:"gte=0"`
	MaxLError                float64 `json:"max_l_error" validate:"gte=0"`
	MaxThetaError            float64 `json:"max_theta_error" validate:"gte=0"`
	MaxDistanceError         float64 `json:"max_distance_error" validate:"gte=0"`
	PassDestinationThreshold float64 `json:"pass_destination_threshold"`
}

// Validate checks the tolerances.
func (c PullOverConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid pull-over config: %w", err)
	}
	return nil
}

// ParkAndGoConfig holds the park-and-go thresholds.
//
//   - FrontObstacleBuffer: clear distance required ahead of the vehicle (metres)
//   - HeadingBuffer: largest heading error against the path (radians)
type ParkAndGoConfig struct {
	FrontObstacleBuffer float64 `json:"front_obstacle_buffer" validate:"gte=0"`
	HeadingBuffer       float64 `json:"heading_buffer" validate:"gt=0"`
}

// Validate checks the thresholds.
func (c ParkAndGoConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid park-and-go config: %w", err)
	}
	return nil
}
