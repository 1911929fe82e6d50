package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/maneuver.report/internal/maneuver"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
const DefaultConfigPath = "config/tuning.defaults.json"

// Built-in defaults, used for any field the tuning file leaves out.
const (
	defaultMaxSError                = 0.2
	defaultMaxLError                = 0.5
	defaultMaxThetaError            = 0.2
	defaultMaxDistanceError         = 0.2
	defaultPassDestinationThreshold = 10.0

	defaultFrontObstacleBuffer = 4.0
	defaultHeadingBuffer       = 0.5

	defaultVehicleLength          = 4.933
	defaultVehicleWidth           = 2.11
	defaultBackEdgeToCenter       = 1.043
	defaultMaxAbsSpeedWhenStopped = 0.2
)

// TuningConfig is the flat JSON schema for classifier tolerances and
// vehicle geometry. Every field is optional; Get* methods fall back to the
// built-in defaults.
type TuningConfig struct {
	// Pull-over tolerances
	PullOverMaxSError                *float64 `json:"pull_over_max_s_error,omitempty"`
	PullOverMaxLError                *float64 `json:"pull_over_max_l_error,omitempty"`
	PullOverMaxThetaError            *float64 `json:"pull_over_max_theta_error,omitempty"`
	PullOverMaxDistanceError         *float64 `json:"pull_over_max_distance_error,omitempty"`
	PullOverPassDestinationThreshold *float64 `json:"pull_over_pass_destination_threshold,omitempty"`

	// Park-and-go thresholds
	ParkAndGoFrontObstacleBuffer *float64 `json:"park_and_go_front_obstacle_buffer,omitempty"`
	ParkAndGoHeadingBuffer       *float64 `json:"park_and_go_heading_buffer,omitempty"`

	// Vehicle geometry
	VehicleLength                 *float64 `json:"vehicle_length,omitempty"`
	VehicleWidth                  *float64 `json:"vehicle_width,omitempty"`
	VehicleBackEdgeToCenter       *float64 `json:"vehicle_back_edge_to_center,omitempty"`
	VehicleMaxAbsSpeedWhenStopped *float64 `json:"vehicle_max_abs_speed_when_stopped,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }

func getFloat64(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// DefaultTuningConfig returns a TuningConfig with every field set to its
// built-in default.
func DefaultTuningConfig() *TuningConfig {
	return &TuningConfig{
		PullOverMaxSError:                ptrFloat64(defaultMaxSError),
		PullOverMaxLError:                ptrFloat64(defaultMaxLError),
		PullOverMaxThetaError:            ptrFloat64(defaultMaxThetaError),
		PullOverMaxDistanceError:         ptrFloat64(defaultMaxDistanceError),
		PullOverPassDestinationThreshold: ptrFloat64(defaultPassDestinationThreshold),
		ParkAndGoFrontObstacleBuffer:     ptrFloat64(defaultFrontObstacleBuffer),
		ParkAndGoHeadingBuffer:           ptrFloat64(defaultHeadingBuffer),
		VehicleLength:                    ptrFloat64(defaultVehicleLength),
		VehicleWidth:                     ptrFloat64(defaultVehicleWidth),
		VehicleBackEdgeToCenter:          ptrFloat64(defaultBackEdgeToCenter),
		VehicleMaxAbsSpeedWhenStopped:    ptrFloat64(defaultMaxAbsSpeedWhenStopped),
	}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file must have a .json extension and be under 1MB. Fields omitted from
// the file keep their defaults, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks the values that are set. Unset values are filled from
// defaults and are always valid.
func (c *TuningConfig) Validate() error {
	nonNegative := []struct {
		name string
		v    *float64
	}{
		{"pull_over_max_s_error", c.PullOverMaxSError},
		{"pull_over_max_l_error", c.PullOverMaxLError},
		{"pull_over_max_theta_error", c.PullOverMaxThetaError},
		{"pull_over_max_distance_error", c.PullOverMaxDistanceError},
		{"park_and_go_front_obstacle_buffer", c.ParkAndGoFrontObstacleBuffer},
		{"vehicle_back_edge_to_center", c.VehicleBackEdgeToCenter},
		{"vehicle_max_abs_speed_when_stopped", c.VehicleMaxAbsSpeedWhenStopped},
	}
	for _, f := range nonNegative {
		if f.v != nil && *f.v < 0 {
			return fmt.Errorf("%s must be non-negative, got %f", f.name, *f.v)
		}
	}

	positive := []struct {
		name string
		v    *float64
	}{
		{"park_and_go_heading_buffer", c.ParkAndGoHeadingBuffer},
		{"vehicle_length", c.VehicleLength},
		{"vehicle_width", c.VehicleWidth},
	}
	for _, f := range positive {
		if f.v != nil && *f.v <= 0 {
			return fmt.Errorf("%s must be positive, got %f", f.name, *f.v)
		}
	}

	return nil
}

// GetPullOverMaxSError returns pull_over_max_s_error or the default.
func (c *TuningConfig) GetPullOverMaxSError() float64 {
	return getFloat64(c.PullOverMaxSError, defaultMaxSError)
}

// GetPullOverMaxLError returns pull_over_max_l_error or the default.
func (c *TuningConfig) GetPullOverMaxLError() float64 {
	return getFloat64(c.PullOverMaxLError, defaultMaxLError)
}

// GetPullOverMaxThetaError returns pull_over_max_theta_error or the default.
func (c *TuningConfig) GetPullOverMaxThetaError() float64 {
	return getFloat64(c.PullOverMaxThetaError, defaultMaxThetaError)
}

// GetPullOverMaxDistanceError returns pull_over_max_distance_error or the default.
func (c *TuningConfig) GetPullOverMaxDistanceError() float64 {
	return getFloat64(c.PullOverMaxDistanceError, defaultMaxDistanceError)
}

// GetPullOverPassDestinationThreshold returns pull_over_pass_destination_threshold or the default.
func (c *TuningConfig) GetPullOverPassDestinationThreshold() float64 {
	return getFloat64(c.PullOverPassDestinationThreshold, defaultPassDestinationThreshold)
}

// GetParkAndGoFrontObstacleBuffer returns park_and_go_front_obstacle_buffer or the default.
func (c *TuningConfig) GetParkAndGoFrontObstacleBuffer() float64 {
	return getFloat64(c.ParkAndGoFrontObstacleBuffer, defaultFrontObstacleBuffer)
}

// GetParkAndGoHeadingBuffer returns park_and_go_heading_buffer or the default.
func (c *TuningConfig) GetParkAndGoHeadingBuffer() float64 {
	return getFloat64(c.ParkAndGoHeadingBuffer, defaultHeadingBuffer)
}

// PullOver resolves the pull-over tolerances.
func (c *TuningConfig) PullOver() (maneuver.PullOverConfig, error) {
	cfg := maneuver.PullOverConfig{
		MaxSError:                c.GetPullOverMaxSError(),
		MaxLError:                c.GetPullOverMaxLError(),
		MaxThetaError:            c.GetPullOverMaxThetaError(),
		MaxDistanceError:         c.GetPullOverMaxDistanceError(),
		PassDestinationThreshold: c.GetPullOverPassDestinationThreshold(),
	}
	return cfg, cfg.Validate()
}

// ParkAndGo resolves the park-and-go thresholds.
func (c *TuningConfig) ParkAndGo() (maneuver.ParkAndGoConfig, error) {
	cfg := maneuver.ParkAndGoConfig{
		FrontObstacleBuffer: c.GetParkAndGoFrontObstacleBuffer(),
		HeadingBuffer:       c.GetParkAndGoHeadingBuffer(),
	}
	return cfg, cfg.Validate()
}

// Vehicle resolves the vehicle geometry.
func (c *TuningConfig) Vehicle() (maneuver.VehicleParams, error) {
	v := maneuver.VehicleParams{
		Length:                 getFloat64(c.VehicleLength, defaultVehicleLength),
		Width:                  getFloat64(c.VehicleWidth, defaultVehicleWidth),
		BackEdgeToCenter:       getFloat64(c.VehicleBackEdgeToCenter, defaultBackEdgeToCenter),
		MaxAbsSpeedWhenStopped: getFloat64(c.VehicleMaxAbsSpeedWhenStopped, defaultMaxAbsSpeedWhenStopped),
	}
	return v, v.Validate()
}
