package db

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/maneuver.report/internal/maneuver"
	"github.com/banshee-data/maneuver.report/internal/timeutil"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := OpenMigrated(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func floatPtr(f float64) *float64 {
	return &f
}

func TestMigrateUpAndDown(t *testing.T) {
	database := setupTestDB(t)

	version, dirty, err := database.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	// Re-running is a no-op.
	require.NoError(t, database.MigrateUp())

	require.NoError(t, database.MigrateDown())
	version, _, err = database.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)

	var n int
	err = database.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE name = 'maneuver_decisions'`).Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "down migration drops the table")
}

func TestDecisionStore_RoundTrip(t *testing.T) {
	database := setupTestDB(t)
	clock := timeutil.NewMockClock(time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC))
	store := NewDecisionStore(database.DB).WithClock(clock)

	run := &Run{
		SceneName:  "curbside-stop",
		Maneuver:   "pull_over",
		ConfigJSON: json.RawMessage(`{"pull_over_max_l_error":0.2}`),
	}
	require.NoError(t, store.InsertRun(run))
	require.NotEmpty(t, run.RunID, "run id is generated")
	assert.Equal(t, clock.Now().UnixNano(), run.CreatedAt)

	gotRun, err := store.GetRun(run.RunID)
	require.NoError(t, err)
	if diff := cmp.Diff(run, gotRun); diff != "" {
		t.Errorf("GetRun() mismatch (-want +got):\n%s", diff)
	}

	decisions := []*Decision{
		{
			RunID: run.RunID, Cycle: 1, ADCX: 5, ADCY: 0.1, ADCHeading: 0.02, ADCSpeed: 2.5,
			FrontEdgeS: floatPtr(8.9), DistanceToTarget: floatPtr(-6.1),
			PullOverStatus: maneuver.PullOverApproaching, ParkAndGoStatus: maneuver.ParkAndGoCruiseComplete,
		},
		{
			RunID: run.RunID, Cycle: 0, ADCX: 1, ADCSpeed: 3,
			PullOverStatus: maneuver.PullOverUnknown, ReadyToCruise: true,
			ParkAndGoStatus: maneuver.ParkAndGoCruising,
		},
	}
	for _, d := range decisions {
		clock.Advance(100 * time.Millisecond)
		require.NoError(t, store.Insert(d))
		require.NotEmpty(t, d.DecisionID)
	}
	assert.Equal(t, int64(100*time.Millisecond), decisions[1].CreatedAt-decisions[0].CreatedAt)

	list, err := store.ListByRun(run.RunID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 0, list[0].Cycle, "ordered by cycle")
	if diff := cmp.Diff(decisions[1], list[0]); diff != "" {
		t.Errorf("cycle 0 mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(decisions[0], list[1]); diff != "" {
		t.Errorf("cycle 1 mismatch (-want +got):\n%s", diff)
	}

	got, err := store.Get(decisions[0].DecisionID)
	require.NoError(t, err)
	assert.Equal(t, maneuver.PullOverApproaching, got.PullOverStatus)
	require.NotNil(t, got.DistanceToTarget)
	assert.InDelta(t, -6.1, *got.DistanceToTarget, 1e-12)
}

func TestDecisionStore_NotFound(t *testing.T) {
	database := setupTestDB(t)
	store := NewDecisionStore(database.DB)

	_, err := store.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetRun("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.DeleteRun("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := store.ListByRun("missing")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDecisionStore_DeleteRun(t *testing.T) {
	database := setupTestDB(t)
	store := NewDecisionStore(database.DB)

	run := &Run{SceneName: "s", Maneuver: "park_and_go"}
	require.NoError(t, store.InsertRun(run))
	d := &Decision{RunID: run.RunID, PullOverStatus: maneuver.PullOverUnknown, ParkAndGoStatus: maneuver.ParkAndGoCruising}
	require.NoError(t, store.Insert(d))

	require.NoError(t, store.DeleteRun(run.RunID))

	_, err := store.Get(d.DecisionID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.GetRun(run.RunID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRunMigrateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decisions.db")
	var out bytes.Buffer

	require.NoError(t, RunMigrateCommand(&out, []string{"up"}, path))
	assert.Contains(t, out.String(), "All migrations applied")

	out.Reset()
	require.NoError(t, RunMigrateCommand(&out, []string{"status"}, path))
	assert.Contains(t, out.String(), "Current version: 1")

	out.Reset()
	require.NoError(t, RunMigrateCommand(&out, []string{"down"}, path))
	require.NoError(t, RunMigrateCommand(&out, []string{"version"}, path))
	assert.Contains(t, out.String(), "Current version: 0")

	assert.Error(t, RunMigrateCommand(&out, nil, path))
	assert.Error(t, RunMigrateCommand(&out, []string{"sideways"}, path))

	out.Reset()
	require.NoError(t, RunMigrateCommand(&out, []string{"help"}, path))
	assert.Contains(t, out.String(), "Usage:")
}
