package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/maneuver.report/internal/maneuver"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultTuningConfig(t *testing.T) {
	cfg := DefaultTuningConfig()

	if cfg.PullOverMaxLError == nil || *cfg.PullOverMaxLError != 0.5 {
		t.Errorf("Expected PullOverMaxLError 0.5, got %v", cfg.PullOverMaxLError)
	}
	if cfg.ParkAndGoHeadingBuffer == nil || *cfg.ParkAndGoHeadingBuffer != 0.5 {
		t.Errorf("Expected ParkAndGoHeadingBuffer 0.5, got %v", cfg.ParkAndGoHeadingBuffer)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestEmptyConfigMatchesDefaults(t *testing.T) {
	empty, defaults := EmptyTuningConfig(), DefaultTuningConfig()

	pe, err := empty.PullOver()
	require.NoError(t, err)
	pd, err := defaults.PullOver()
	require.NoError(t, err)
	assert.Equal(t, pd, pe)

	ve, err := empty.Vehicle()
	require.NoError(t, err)
	vd, err := defaults.Vehicle()
	require.NoError(t, err)
	assert.Equal(t, vd, ve)
}

func TestLoadTuningConfig(t *testing.T) {
	path := writeConfig(t, "test_config.json", `{
  "pull_over_max_l_error": 0.2,
  "pull_over_pass_destination_threshold": 2.0,
  "park_and_go_heading_buffer": 0.3,
  "vehicle_length": 4.0
}`)

	cfg, err := LoadTuningConfig(path)
	require.NoError(t, err)

	pullOver, err := cfg.PullOver()
	require.NoError(t, err)
	assert.Equal(t, maneuver.PullOverConfig{
		MaxSError:                0.2,
		MaxLError:                0.2,
		MaxThetaError:            0.2,
		MaxDistanceError:         0.2,
		PassDestinationThreshold: 2.0,
	}, pullOver)

	parkAndGo, err := cfg.ParkAndGo()
	require.NoError(t, err)
	assert.Equal(t, 0.3, parkAndGo.HeadingBuffer)
	assert.Equal(t, 4.0, parkAndGo.FrontObstacleBuffer, "unset field keeps default")

	vehicle, err := cfg.Vehicle()
	require.NoError(t, err)
	assert.Equal(t, 4.0, vehicle.Length)
	assert.Equal(t, 2.11, vehicle.Width)
}

func TestLoadTuningConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		body    string
		wantErr string
	}{
		{"wrong extension", "config.yaml", `{}`, ".json extension"},
		{"bad json", "bad.json", `{"pull_over_max_l_error": }`, "failed to parse"},
		{"negative tolerance", "neg.json", `{"pull_over_max_s_error": -1}`, "pull_over_max_s_error must be non-negative"},
		{"zero width", "zero.json", `{"vehicle_width": 0}`, "vehicle_width must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.body)
			_, err := LoadTuningConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := LoadTuningConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadTuningConfig_TooLarge(t *testing.T) {
	body := `{"pull_over_max_s_error": 0.2, "padding": "` + strings.Repeat("x", 1024*1024) + `"}`
	path := writeConfig(t, "big.json", body)
	_, err := LoadTuningConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()

	defaults := DefaultTuningConfig()
	assert.Equal(t, defaults.GetPullOverPassDestinationThreshold(), cfg.GetPullOverPassDestinationThreshold())
	assert.Equal(t, defaults.GetParkAndGoFrontObstacleBuffer(), cfg.GetParkAndGoFrontObstacleBuffer())

	_, err := cfg.Vehicle()
	assert.NoError(t, err)
}
