// Package results keeps a SQLite ledger of comparative clinic runs.
package results

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/safal938/iso-clinic-v2-sub000/sim/comparison"
)

// RunRecord is one row of the ledger.
type RunRecord struct {
	ID                string    `db:"id" json:"id"`
	RecordedAt        time.Time `db:"recorded_at" json:"recorded_at"`
	Scenario          string    `db:"scenario" json:"scenario"`
	Seed              int64     `db:"seed" json:"seed"`
	BaselineArm       string    `db:"baseline_arm" json:"baseline_arm"`
	CandidateArm      string    `db:"candidate_arm" json:"candidate_arm"`
	Ticks             int64     `db:"ticks" json:"ticks"`
	BaselineArrivals  int64     `db:"baseline_arrivals" json:"baseline_arrivals"`
	CandidateArrivals int64     `db:"candidate_arrivals" json:"candidate_arrivals"`
	ProductivityLift  float64   `db:"productivity_lift" json:"productivity_lift"`
	LiftDefined       bool      `db:"lift_defined" json:"lift_defined"`
	BaselineCostPer   float64   `db:"baseline_cost_per_treated" json:"baseline_cost_per_treated"`
	CandidateCostPer  float64   `db:"candidate_cost_per_treated" json:"candidate_cost_per_treated"`
	WallTimeMs        int64     `db:"wall_time_ms" json:"wall_time_ms"`
	ComparisonJSON    string    `db:"comparison_json" json:"-"`
}

// NewRunRecord flattens a comparison into a ledger row with a fresh ID.
func NewRunRecord(scenario string, seed int64, c comparison.Comparison, wall time.Duration) (RunRecord, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return RunRecord{}, fmt.Errorf("encoding comparison: %w", err)
	}
	return RunRecord{
		ID:                uuid.NewString(),
		RecordedAt:        time.Now().UTC(),
		Scenario:          scenario,
		Seed:              seed,
		BaselineArm:       string(c.Baseline.Arm),
		CandidateArm:      string(c.Candidate.Arm),
		Ticks:             c.Ticks,
		BaselineArrivals:  c.Baseline.MonitoringArrivals,
		CandidateArrivals: c.Candidate.MonitoringArrivals,
		ProductivityLift:  c.ProductivityLift,
		LiftDefined:       c.LiftDefined,
		BaselineCostPer:   c.Baseline.CostPerTreated,
		CandidateCostPer:  c.Candidate.CostPerTreated,
		WallTimeMs:        wall.Milliseconds(),
		ComparisonJSON:    string(raw),
	}, nil
}

// Comparison decodes the full comparison stored with the record.
func (r RunRecord) Comparison() (comparison.Comparison, error) {
	var c comparison.Comparison
	if err := json.Unmarshal([]byte(r.ComparisonJSON), &c); err != nil {
		return c, fmt.Errorf("decoding comparison of run %s: %w", r.ID, err)
	}
	return c, nil
}

// Ledger wraps a SQLite connection holding run records.
type Ledger struct {
	conn *sqlx.DB
}

// Open opens or creates a ledger at the given path.
func Open(path string) (*Ledger, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	l := &Ledger{conn: conn}
	if err := l.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return l, nil
}

// Close closes the database connection.
func (l *Ledger) Close() error {
	return l.conn.Close()
}

func (l *Ledger) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		recorded_at DATETIME NOT NULL,
		scenario TEXT NOT NULL,
		seed INTEGER NOT NULL,
		baseline_arm TEXT NOT NULL,
		candidate_arm TEXT NOT NULL,
		ticks INTEGER NOT NULL,
		baseline_arrivals INTEGER NOT NULL,
		candidate_arrivals INTEGER NOT NULL,
		productivity_lift REAL NOT NULL,
		lift_defined INTEGER NOT NULL,
		baseline_cost_per_treated REAL NOT NULL,
		candidate_cost_per_treated REAL NOT NULL,
		wall_time_ms INTEGER NOT NULL,
		comparison_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_recorded_at ON runs(recorded_at);
	`
	_, err := l.conn.Exec(schema)
	return err
}

// Save inserts a run record.
func (l *Ledger) Save(r RunRecord) error {
	_, err := l.conn.NamedExec(`INSERT INTO runs
		(id, recorded_at, scenario, seed, baseline_arm, candidate_arm, ticks,
		 baseline_arrivals, candidate_arrivals, productivity_lift, lift_defined,
		 baseline_cost_per_treated, candidate_cost_per_treated, wall_time_ms, comparison_json)
		VALUES (:id, :recorded_at, :scenario, :seed, :baseline_arm, :candidate_arm, :ticks,
		 :baseline_arrivals, :candidate_arrivals, :productivity_lift, :lift_defined,
		 :baseline_cost_per_treated, :candidate_cost_per_treated, :wall_time_ms, :comparison_json)`, r)
	if err != nil {
		return fmt.Errorf("saving run %s: %w", r.ID, err)
	}
	return nil
}

// Get returns the run with the given ID.
func (l *Ledger) Get(id string) (RunRecord, error) {
	var r RunRecord
	if err := l.conn.Get(&r, "SELECT * FROM runs WHERE id = ?", id); err != nil {
		return r, fmt.Errorf("loading run %s: %w", id, err)
	}
	return r, nil
}

// List returns up to limit runs, most recent first. limit <= 0 returns all.
func (l *Ledger) List(limit int) ([]RunRecord, error) {
	query := "SELECT * FROM runs ORDER BY recorded_at DESC, id"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	runs := make([]RunRecord, 0)
	if err := l.conn.Select(&runs, query, args...); err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}
