// Package testutil provides shared test infrastructure for the clinic
// simulator: the golden scenario dataset and assertion helpers used across
// sim/ and sim/comparison/ test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/golden_scenarios.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one clinic setup with the outcome it must produce.
// Timing uses one simulated minute per tick and one-tick waiting and
// treatment timers unless overridden.
type GoldenTestCase struct {
	Name                  string        `json:"name"`
	NurseRooms            int           `json:"nurse_rooms"`
	Seed                  int64         `json:"seed"`
	SpawnEveryTicks       int64         `json:"spawn_every_ticks"`
	SessionMinutes        float64       `json:"session_minutes"`
	RetryTicks            int64         `json:"retry_ticks"`
	EscalationProbability float64       `json:"escalation_probability"`
	InstantWalking        bool          `json:"instant_walking"`
	InjectPatients        int           `json:"inject_patients"`
	Ticks                 int64         `json:"ticks"`
	Metrics               GoldenMetrics `json:"metrics"`
}

// GoldenMetrics lists the expected outcome. Nil fields are not checked.
type GoldenMetrics struct {
	// Exact match counters
	Spawned           *int64 `json:"spawned,omitempty"`
	HepatologistCases *int64 `json:"hepatologist_cases,omitempty"`
	ContentionRetries *int64 `json:"contention_retries,omitempty"`
	ClockTicks        *int64 `json:"clock_ticks,omitempty"`

	// Occupancy after the last tick
	AtNurse *int `json:"at_nurse,omitempty"`
	Waiting *int `json:"waiting,omitempty"`

	// OnlyMonitoringRemain requires the session-end sweep to have run.
	OnlyMonitoringRemain bool `json:"only_monitoring_remain,omitempty"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "golden_scenarios.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	if len(dataset.Tests) == 0 {
		t.Fatal("Golden dataset has no test cases")
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
