// Package scene loads recorded maneuver scenes (reference path, target,
// obstacles and a sequence of vehicle states) and replays them through the
// maneuver classifiers one planning cycle at a time.
package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/maneuver.report/internal/geom"
	"github.com/banshee-data/maneuver.report/internal/maneuver"
	"github.com/banshee-data/maneuver.report/internal/refline"
)

// Maneuver kinds a scene can describe.
const (
	ManeuverPullOver  = "pull_over"
	ManeuverParkAndGo = "park_and_go"
)

// Point is a JSON X-Y pair.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) vec() geom.Vec2 { return geom.Vec2{X: p.X, Y: p.Y} }

// Obstacle is a perceived obstacle footprint.
type Obstacle struct {
	ID     string  `json:"id"`
	Points []Point `json:"points"`
}

// Polygon converts the obstacle outline.
func (o Obstacle) Polygon() geom.Polygon {
	pts := make([]geom.Vec2, len(o.Points))
	for i, p := range o.Points {
		pts[i] = p.vec()
	}
	return geom.Polygon{Points: pts}
}

// VehicleState is the sampled ego state for one planning cycle.
type VehicleState struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
	Speed   float64 `json:"speed"`
}

// Pose returns the state's pose.
func (v VehicleState) Pose() geom.Pose2D {
	return geom.Pose2D{X: v.X, Y: v.Y, Heading: v.Heading}
}

// OverlapQuery asks the replay to resolve one overlap on the reference path.
type OverlapQuery struct {
	Type     string `json:"type"`
	ObjectID string `json:"object_id"`
}

// Scene is the on-disk scene description.
type Scene struct {
	Name           string                           `json:"name"`
	Maneuver       string                           `json:"maneuver"`
	ReferencePath  []Point                          `json:"reference_path"`
	Overlaps       map[string][]refline.PathOverlap `json:"overlaps,omitempty"`
	Target         maneuver.PullOverTarget          `json:"target"`
	Obstacles      []Obstacle                       `json:"obstacles,omitempty"`
	Cycles         []VehicleState                   `json:"cycles"`
	ResolveOverlap *OverlapQuery                    `json:"resolve_overlap,omitempty"`
}

// Load reads and validates a scene file.
func Load(path string) (*Scene, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scene JSON: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene %q: %w", cleanPath, err)
	}
	return &s, nil
}

// Validate checks the fields the replay depends on.
func (s *Scene) Validate() error {
	switch s.Maneuver {
	case ManeuverPullOver, ManeuverParkAndGo:
	default:
		return fmt.Errorf("maneuver must be %q or %q, got %q", ManeuverPullOver, ManeuverParkAndGo, s.Maneuver)
	}
	if len(s.Cycles) == 0 {
		return fmt.Errorf("scene has no cycles")
	}
	for name := range s.Overlaps {
		if _, err := refline.ParseOverlapType(name); err != nil {
			return err
		}
	}
	if s.ResolveOverlap != nil {
		if _, err := refline.ParseOverlapType(s.ResolveOverlap.Type); err != nil {
			return err
		}
	}
	return nil
}

// Path builds the reference path with its overlaps.
func (s *Scene) Path() (*refline.Path, error) {
	pts := make([]geom.Vec2, len(s.ReferencePath))
	for i, p := range s.ReferencePath {
		pts[i] = p.vec()
	}
	path, err := refline.NewPath(pts)
	if err != nil {
		return nil, err
	}

	overlaps := refline.NewPathOverlaps()
	for name, list := range s.Overlaps {
		t, err := refline.ParseOverlapType(name)
		if err != nil {
			return nil, err
		}
		overlaps.Add(t, list...)
	}
	return path.WithOverlaps(overlaps), nil
}

// ObstaclePolygons returns every obstacle outline.
func (s *Scene) ObstaclePolygons() []geom.Polygon {
	out := make([]geom.Polygon, len(s.Obstacles))
	for i, o := range s.Obstacles {
		out[i] = o.Polygon()
	}
	return out
}
