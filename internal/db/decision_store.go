package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/banshee-data/maneuver.report/internal/maneuver"
	"github.com/banshee-data/maneuver.report/internal/timeutil"
)

// ErrNotFound is returned when a run or decision id does not exist.
var ErrNotFound = errors.New("not found")

// Run groups the decisions produced by one replay of a scene.
type Run struct {
	RunID      string          `json:"run_id"`
	SceneName  string          `json:"scene_name"`
	Maneuver   string          `json:"maneuver"`
	ConfigJSON json.RawMessage `json:"config_json,omitempty"`
	CreatedAt  int64           `json:"created_at"`
}

// Decision is one planning-cycle evaluation. FrontEdgeS and
// DistanceToTarget are nil when the target could not be projected.
type Decision struct {
	DecisionID       string                   `json:"decision_id"`
	RunID            string                   `json:"run_id"`
	Cycle            int                      `json:"cycle"`
	ADCX             float64                  `json:"adc_x"`
	ADCY             float64                  `json:"adc_y"`
	ADCHeading       float64                  `json:"adc_heading"`
	ADCSpeed         float64                  `json:"adc_speed"`
	FrontEdgeS       *float64                 `json:"front_edge_s,omitempty"`
	DistanceToTarget *float64                 `json:"distance_to_target,omitempty"`
	PullOverStatus   maneuver.PullOverStatus  `json:"pull_over_status"`
	ReadyToCruise    bool                     `json:"ready_to_cruise"`
	ParkAndGoStatus  maneuver.ParkAndGoStatus `json:"park_and_go_status"`
	CreatedAt        int64                    `json:"created_at"`
}

// DecisionStore provides persistence for runs and their decisions.
type DecisionStore struct {
	db    *sql.DB
	clock timeutil.Clock
}

// NewDecisionStore creates a new DecisionStore stamping rows with the real
// clock.
func NewDecisionStore(db *sql.DB) *DecisionStore {
	return &DecisionStore{db: db, clock: timeutil.RealClock{}}
}

// WithClock replaces the clock used for CreatedAt and returns the store.
func (s *DecisionStore) WithClock(c timeutil.Clock) *DecisionStore {
	s.clock = c
	return s
}

// InsertRun persists a run. If RunID is empty, a UUID is generated.
func (s *DecisionStore) InsertRun(run *Run) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = s.clock.Now().UnixNano()
	}

	var cfg interface{}
	if len(run.ConfigJSON) > 0 {
		cfg = string(run.ConfigJSON)
	}

	_, err := s.db.Exec(`
		INSERT INTO maneuver_runs (run_id, scene_name, maneuver, config_json, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		run.RunID, run.SceneName, run.Maneuver, cfg, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetRun returns a run by ID.
func (s *DecisionStore) GetRun(runID string) (*Run, error) {
	var r Run
	var cfg sql.NullString
	err := s.db.QueryRow(`
		SELECT run_id, scene_name, maneuver, config_json, created_at
		FROM maneuver_runs WHERE run_id = ?`, runID).
		Scan(&r.RunID, &r.SceneName, &r.Maneuver, &cfg, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	if cfg.Valid {
		r.ConfigJSON = json.RawMessage(cfg.String)
	}
	return &r, nil
}

// Insert persists a decision. If DecisionID is empty, a UUID is generated.
func (s *DecisionStore) Insert(d *Decision) error {
	if d.DecisionID == "" {
		d.DecisionID = uuid.New().String()
	}
	if d.CreatedAt == 0 {
		d.CreatedAt = s.clock.Now().UnixNano()
	}

	_, err := s.db.Exec(`
		INSERT INTO maneuver_decisions (
			decision_id, run_id, cycle, adc_x, adc_y, adc_heading, adc_speed,
			front_edge_s, distance_to_target, pull_over_status, ready_to_cruise,
			park_and_go_status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.DecisionID, d.RunID, d.Cycle, d.ADCX, d.ADCY, d.ADCHeading, d.ADCSpeed,
		nullable(d.FrontEdgeS), nullable(d.DistanceToTarget), string(d.PullOverStatus), d.ReadyToCruise,
		string(d.ParkAndGoStatus), d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

func nullable(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

const decisionColumns = `decision_id, run_id, cycle, adc_x, adc_y, adc_heading, adc_speed,
		front_edge_s, distance_to_target, pull_over_status, ready_to_cruise,
		park_and_go_status, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDecision(row rowScanner) (*Decision, error) {
	var d Decision
	var frontEdge, distance sql.NullFloat64
	var pullOver, parkAndGo string
	if err := row.Scan(
		&d.DecisionID, &d.RunID, &d.Cycle, &d.ADCX, &d.ADCY, &d.ADCHeading, &d.ADCSpeed,
		&frontEdge, &distance, &pullOver, &d.ReadyToCruise, &parkAndGo, &d.CreatedAt,
	); err != nil {
		return nil, err
	}
	if frontEdge.Valid {
		d.FrontEdgeS = &frontEdge.Float64
	}
	if distance.Valid {
		d.DistanceToTarget = &distance.Float64
	}
	d.PullOverStatus = maneuver.PullOverStatus(pullOver)
	d.ParkAndGoStatus = maneuver.ParkAndGoStatus(parkAndGo)
	return &d, nil
}

// Get returns a single decision by ID.
func (s *DecisionStore) Get(decisionID string) (*Decision, error) {
	row := s.db.QueryRow(`SELECT `+decisionColumns+` FROM maneuver_decisions WHERE decision_id = ?`, decisionID)
	d, err := scanDecision(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("decision %s: %w", decisionID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get decision: %w", err)
	}
	return d, nil
}

// ListByRun returns a run's decisions ordered by cycle.
func (s *DecisionStore) ListByRun(runID string) ([]*Decision, error) {
	rows, err := s.db.Query(`SELECT `+decisionColumns+`
		FROM maneuver_decisions
		WHERE run_id = ?
		ORDER BY cycle ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var out []*Decision
	for rows.Next() {
		d, err := scanDecision(rows)
		if err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// DeleteRun removes a run and all of its decisions.
func (s *DecisionStore) DeleteRun(runID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM maneuver_decisions WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("delete decisions: %w", err)
	}
	result, err := tx.Exec(`DELETE FROM maneuver_runs WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	return tx.Commit()
}
