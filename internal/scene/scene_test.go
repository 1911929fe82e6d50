package scene

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/maneuver.report/internal/maneuver"
	"github.com/banshee-data/maneuver.report/internal/refline"
	"github.com/banshee-data/maneuver.report/internal/testutil"
)

func testParams() Params {
	return Params{
		PullOver: maneuver.PullOverConfig{
			MaxSError:                0.2,
			MaxLError:                0.5,
			MaxThetaError:            0.2,
			MaxDistanceError:         0.2,
			PassDestinationThreshold: 10,
		},
		ParkAndGo: maneuver.ParkAndGoConfig{FrontObstacleBuffer: 2, HeadingBuffer: 0.3},
		Vehicle:   maneuver.VehicleParams{Length: 4, Width: 2, BackEdgeToCenter: 1, MaxAbsSpeedWhenStopped: 0.2},
	}
}

func loadTestScene(t *testing.T) *Scene {
	t.Helper()
	s, err := Load(filepath.Join("testdata", "curbside_stop.json"))
	require.NoError(t, err)
	return s
}

func TestLoad(t *testing.T) {
	s := loadTestScene(t)

	assert.Equal(t, "curbside-stop", s.Name)
	assert.Equal(t, ManeuverPullOver, s.Maneuver)
	assert.Len(t, s.ReferencePath, 3)
	assert.Len(t, s.Cycles, 4)
	require.True(t, s.Target.Complete())
	assert.Equal(t, 20.0, *s.Target.X)
	require.Len(t, s.Obstacles, 1)
	assert.Equal(t, 4, s.Obstacles[0].Polygon().NumPoints())
}

func TestLoad_Errors(t *testing.T) {
	write := func(name, body string) string {
		return testutil.WriteTempFile(t, name, body)
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"missing file", filepath.Join(t.TempDir(), "nope.json"), "failed to read scene file"},
		{"bad json", write("bad.json", "{"), "failed to parse scene JSON"},
		{"bad maneuver", write("m.json", `{"maneuver":"u_turn","cycles":[{}]}`), "maneuver must be"},
		{"no cycles", write("c.json", `{"maneuver":"pull_over"}`), "scene has no cycles"},
		{"bad overlap type", write("o.json", `{"maneuver":"pull_over","cycles":[{}],"overlaps":{"crosswalk":[]}}`), "unknown overlap type"},
		{"bad query type", write("q.json", `{"maneuver":"park_and_go","cycles":[{}],"resolve_overlap":{"type":"lane"}}`), "unknown overlap type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRun_CurbsideStop(t *testing.T) {
	replay, err := Run(loadTestScene(t), testParams())
	require.NoError(t, err)
	require.Len(t, replay.Cycles, 4)

	type summary struct {
		PullOver  maneuver.PullOverStatus
		Blocked   bool
		Ready     bool
		ParkAndGo maneuver.ParkAndGoStatus
	}
	var got []summary
	for _, c := range replay.Cycles {
		got = append(got, summary{c.PullOver.Status, c.FrontBlocked, c.ReadyToCruise, c.ParkAndGoStatus})
	}
	want := []summary{
		{maneuver.PullOverApproaching, false, true, maneuver.ParkAndGoCruiseComplete},
		{maneuver.PullOverParkFail, false, true, maneuver.ParkAndGoCruising},
		{maneuver.PullOverParkComplete, false, true, maneuver.ParkAndGoCruiseComplete},
		{maneuver.PullOverPassDestination, true, false, maneuver.ParkAndGoCruiseComplete},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("cycle statuses mismatch (-want +got):\n%s", diff)
	}

	first := replay.Cycles[0]
	assert.InDelta(t, 8.0, first.FrontEdgeS, 1e-9)
	assert.InDelta(t, -12.0, first.PullOver.DistanceToTarget, 1e-9)
	assert.InDelta(t, 20.0, first.PullOver.TargetSL.S, 1e-9)
	assert.InDelta(t, 11.0, replay.Final().PullOver.DistanceToTarget, 1e-9)

	require.NotNil(t, replay.Overlap)
	assert.Equal(t, refline.PathOverlap{ObjectID: "stop-7", StartS: 10, EndS: 12}, *replay.Overlap)
}

func TestRun_MisalignedButClear(t *testing.T) {
	s := loadTestScene(t)
	s.Obstacles = nil
	s.Cycles = []VehicleState{{X: 5, Y: 0, Heading: 1.0}}

	replay, err := Run(s, testParams())
	require.NoError(t, err)
	c := replay.Final()
	assert.False(t, c.FrontBlocked)
	assert.False(t, c.ReadyToCruise)
}

func TestRun_UnknownTargetAndMissingOverlap(t *testing.T) {
	s := loadTestScene(t)
	s.Target = maneuver.PullOverTarget{IsFeasible: false}
	s.ResolveOverlap = &OverlapQuery{Type: "signal", ObjectID: "tl-9"}

	replay, err := Run(s, testParams())
	require.NoError(t, err)
	for _, c := range replay.Cycles {
		assert.Equal(t, maneuver.PullOverUnknown, c.PullOver.Status)
		assert.False(t, c.PullOver.Projected)
	}
	assert.Nil(t, replay.Overlap)
}

func TestRun_InvalidInputs(t *testing.T) {
	s := loadTestScene(t)

	p := testParams()
	p.Vehicle.Length = 0
	_, err := Run(s, p)
	assert.Error(t, err)

	p = testParams()
	p.ParkAndGo.HeadingBuffer = 0
	_, err = Run(s, p)
	assert.Error(t, err)

	s.ReferencePath = s.ReferencePath[:1]
	_, err = Run(s, testParams())
	assert.ErrorIs(t, err, refline.ErrTooFewPoints)
}

func TestScene_ObstaclePolygons(t *testing.T) {
	s := &Scene{Obstacles: []Obstacle{
		{ID: "a", Points: []Point{{0, 0}, {1, 0}, {1, 1}}},
		{ID: "b", Points: []Point{{0, 0}}},
	}}
	polys := s.ObstaclePolygons()
	require.Len(t, polys, 2)
	assert.False(t, polys[0].IsDegenerate())
	assert.True(t, polys[1].IsDegenerate())
}
