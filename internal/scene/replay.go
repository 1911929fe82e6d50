package scene

import (
	"fmt"

	"github.com/banshee-data/maneuver.report/internal/geom"
	"github.com/banshee-data/maneuver.report/internal/maneuver"
	"github.com/banshee-data/maneuver.report/internal/monitoring"
	"github.com/banshee-data/maneuver.report/internal/refline"
)

// Params bundles the tuning a replay runs with.
type Params struct {
	PullOver  maneuver.PullOverConfig
	ParkAndGo maneuver.ParkAndGoConfig
	Vehicle   maneuver.VehicleParams
}

// CycleResult is the classifier output for one recorded cycle.
type CycleResult struct {
	Cycle           int
	ADC             geom.Pose2D
	Speed           float64
	FrontEdgeS      float64
	PullOver        maneuver.PullOverResult
	FrontBlocked    bool // an obstacle lies in the clearance box
	ReadyToCruise   bool
	ParkAndGoStatus maneuver.ParkAndGoStatus
	Footprint       geom.OrientedBox
	ClearanceBox    geom.OrientedBox
}

// Replay is the outcome of running every cycle of a scene.
type Replay struct {
	Scene   *Scene
	Path    *refline.Path
	Cycles  []CycleResult
	Overlap *refline.PathOverlap // set when the scene asked for one and it exists
}

// Final returns the last cycle's result.
func (r *Replay) Final() CycleResult {
	return r.Cycles[len(r.Cycles)-1]
}

// Run classifies every cycle of the scene. Both maneuver checks are computed
// on each cycle regardless of Scene.Maneuver; the field only tells callers
// which result to headline.
func Run(s *Scene, p Params) (*Replay, error) {
	if err := p.Vehicle.Validate(); err != nil {
		return nil, err
	}
	if err := p.PullOver.Validate(); err != nil {
		return nil, err
	}
	if err := p.ParkAndGo.Validate(); err != nil {
		return nil, err
	}

	path, err := s.Path()
	if err != nil {
		return nil, fmt.Errorf("failed to build reference path: %w", err)
	}
	obstacles := s.ObstaclePolygons()

	replay := &Replay{Scene: s, Path: path, Cycles: make([]CycleResult, 0, len(s.Cycles))}
	for i, state := range s.Cycles {
		replay.Cycles = append(replay.Cycles, evaluateCycle(i, state, s.Target, obstacles, path, p))
	}

	if q := s.ResolveOverlap; q != nil {
		t, err := refline.ParseOverlapType(q.Type)
		if err != nil {
			return nil, err
		}
		if ov, ok := path.FindOverlap(t, q.ObjectID); ok {
			replay.Overlap = &ov
		} else {
			monitoring.Logf("overlap %s/%s not on reference path", q.Type, q.ObjectID)
		}
	}
	return replay, nil
}

func evaluateCycle(i int, state VehicleState, target maneuver.PullOverTarget, obstacles []geom.Polygon,
	path *refline.Path, p Params) CycleResult {
	pose := state.Pose()
	frontEdgeS := p.Vehicle.FrontEdgeS(pose, path)

	pullOver := maneuver.EvaluatePullOver(maneuver.PullOverSnapshot{
		Target:        target,
		ADC:           pose,
		ADCFrontEdgeS: frontEdgeS,
		ADCSpeed:      state.Speed,
		MaxStopSpeed:  p.Vehicle.MaxAbsSpeedWhenStopped,
	}, p.PullOver, path)

	blocked := maneuver.HasFrontClearanceViolation(pose, p.Vehicle.Length, p.Vehicle.Width,
		p.ParkAndGo.FrontObstacleBuffer, p.Vehicle.BackEdgeToCenter, obstacles)
	ready := maneuver.ReadyToCruise(maneuver.ParkAndGoSnapshot{ADC: pose, Obstacles: obstacles},
		p.Vehicle, p.ParkAndGo, path)

	return CycleResult{
		Cycle:           i,
		ADC:             pose,
		Speed:           state.Speed,
		FrontEdgeS:      frontEdgeS,
		PullOver:        pullOver,
		FrontBlocked:    blocked,
		ReadyToCruise:   ready,
		ParkAndGoStatus: maneuver.ClassifyCruise(pose, path),
		Footprint:       p.Vehicle.Footprint(pose),
		ClearanceBox:    p.Vehicle.ClearanceBox(pose, p.ParkAndGo.FrontObstacleBuffer),
	}
}
