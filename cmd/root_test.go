package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safal938/iso-clinic-v2-sub000/sim"
	"github.com/safal938/iso-clinic-v2-sub000/sim/comparison"
	"github.com/safal938/iso-clinic-v2-sub000/sim/results"
	"github.com/safal938/iso-clinic-v2-sub000/sim/trace"
)

// newFlagCommand returns a throwaway command with the clinic flags reset to
// their defaults.
func newFlagCommand(t *testing.T) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	registerClinicFlags(c)
	traceOut = ""
	return c
}

func TestLoadArms_FromFlags_SingleArm(t *testing.T) {
	// GIVEN default clinic flags with a seed override
	c := newFlagCommand(t)
	require.NoError(t, c.Flags().Set("seed", "7"))
	require.NoError(t, c.Flags().Set("escalation", "0.5"))

	// WHEN one room count is requested
	arms, label, err := loadArms(c, 2)
	require.NoError(t, err)

	// THEN one clinic is built from the flags
	require.Len(t, arms, 1)
	assert.Equal(t, "flags", label)
	assert.Equal(t, flagSingleArm, arms[0].ID)
	cfg := arms[0].Config
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 2, cfg.Topology.NurseRooms)
	assert.Equal(t, 0.5, cfg.Care.EscalationProbability)
	assert.Equal(t, sim.DefaultSessionMinutes, cfg.Timing.SessionMinutes)
	assert.Equal(t, int64(sim.DefaultSpawnEveryTicks), cfg.Spawn.EveryTicks)
	assert.Equal(t, string(trace.TraceLevelNone), cfg.TraceLevel)
}

func TestLoadArms_FromFlags_TwoArms(t *testing.T) {
	c := newFlagCommand(t)
	arms, _, err := loadArms(c, 1, 3)
	require.NoError(t, err)

	require.Len(t, arms, 2)
	assert.Equal(t, flagBaselineArm, arms[0].ID)
	assert.Equal(t, flagCandidateArm, arms[1].ID)
	assert.Equal(t, 1, arms[0].Config.Topology.NurseRooms)
	assert.Equal(t, 3, arms[1].Config.Topology.NurseRooms)
}

func TestLoadArms_TraceOutEnablesTracing(t *testing.T) {
	c := newFlagCommand(t)
	traceOut = filepath.Join(t.TempDir(), "trace")
	defer func() { traceOut = "" }()

	arms, _, err := loadArms(c, 1)
	require.NoError(t, err)
	assert.Equal(t, string(trace.TraceLevelTransitions), arms[0].Config.TraceLevel)
}

func TestLoadArms_InvalidTraceLevel(t *testing.T) {
	c := newFlagCommand(t)
	require.NoError(t, c.Flags().Set("trace-level", "verbose"))
	_, _, err := loadArms(c, 1)
	assert.Error(t, err)
}

func TestLoadArms_RejectsOutOfRangeFlags(t *testing.T) {
	tests := []struct {
		flag  string
		value string
		rooms int
	}{
		{"waiting-ticks", "-5", 1},
		{"treatment-ticks", "-1", 1},
		{"retry-ticks", "0", 1},
		{"speed", "0", 1},
		{"speed", "-2", 1},
		{"escalation", "1.5", 1},
		{"escalation", "-0.1", 1},
		{"spawn-every", "-180", 1},
		{"minutes-per-tick", "0", 1},
		{"session-minutes", "-1", 1},
		{"seed", "1", -1},
	}
	for _, tc := range tests {
		t.Run(tc.flag+"="+tc.value, func(t *testing.T) {
			// GIVEN one clinic flag outside its valid range
			c := newFlagCommand(t)
			require.NoError(t, c.Flags().Set(tc.flag, tc.value))

			// WHEN arms are built from the flags
			arms, _, err := loadArms(c, tc.rooms)

			// THEN no clinic is built
			assert.Error(t, err)
			assert.Nil(t, arms)
		})
	}
}

func TestLoadArms_ZeroTimersAccepted(t *testing.T) {
	// GIVEN timers at their lower bound
	c := newFlagCommand(t)
	require.NoError(t, c.Flags().Set("waiting-ticks", "0"))
	require.NoError(t, c.Flags().Set("treatment-ticks", "0"))
	require.NoError(t, c.Flags().Set("spawn-every", "0"))
	require.NoError(t, c.Flags().Set("escalation", "0"))
	arms, _, err := loadArms(c, 1)
	require.NoError(t, err)

	// THEN an injected patient still leaves the waiting room
	s := sim.NewSimulator(arms[0].Config)
	a := s.InjectPatient("gp_referral")
	s.RunTicks(500)
	assert.NotEqual(t, sim.StateWaiting, a.State)
	assert.Equal(t, int64(1), s.Stats.NurseVisits)
}

func TestLoadArms_FromScenario_SeedFlagWins(t *testing.T) {
	// GIVEN the shipped example scenario and an explicit --seed
	c := newFlagCommand(t)
	path := filepath.Join("..", "examples", "clinic.yaml")
	require.NoError(t, c.Flags().Set("scenario", path))
	require.NoError(t, c.Flags().Set("seed", "99"))
	defer func() { scenarioPath = "" }()

	arms, label, err := loadArms(c, 5)

	// THEN the scenario arms are used, not the room count, with the CLI seed
	require.NoError(t, err)
	assert.Equal(t, path, label)
	require.Len(t, arms, 2)
	assert.Equal(t, "standard", arms[0].ID)
	assert.Equal(t, 1, arms[0].Config.Topology.NurseRooms)
	assert.Equal(t, 3, arms[1].Config.Topology.NurseRooms)
	assert.Equal(t, int64(99), arms[0].Config.Seed)
	assert.Equal(t, 25.0, arms[1].Config.Cost.FixedPerHour)
}

func TestLoadArms_FromScenario_InvalidFile(t *testing.T) {
	c := newFlagCommand(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("arms: [{id: a, nurse_rooms: 1, typo: 2}]\n"), 0o644))
	require.NoError(t, c.Flags().Set("scenario", path))
	defer func() { scenarioPath = "" }()

	_, _, err := loadArms(c)
	assert.Error(t, err)
}

func TestSelectArm(t *testing.T) {
	arms := []armConfig{{ID: "a"}, {ID: "b"}}

	got, err := selectArm(arms, "")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)

	got, err = selectArm(arms, "b")
	require.NoError(t, err)
	assert.Equal(t, "b", got.ID)

	_, err = selectArm(arms, "c")
	assert.Error(t, err)

	_, err = selectArm(nil, "")
	assert.Error(t, err)
}

func TestNewComparativeRun_NeedsTwoArms(t *testing.T) {
	_, err := newComparativeRun([]armConfig{{ID: "a", Config: sim.DefaultSimConfig(1)}})
	assert.Error(t, err)
}

func TestWriteTrace_RoundTrip(t *testing.T) {
	tr := trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelTransitions, Label: "standard"})
	tr.RecordTransition(trace.TransitionRecord{AgentID: 1, Tick: 3, From: "entering", To: "waiting"})

	path, err := writeTrace(filepath.Join(t.TempDir(), "run"), "standard", tr)
	require.NoError(t, err)
	assert.Equal(t, "run-standard.jsonl.zst", filepath.Base(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	got, err := trace.ReadJSONLZstd(f)
	require.NoError(t, err)
	assert.Equal(t, tr.Transitions, got.Transitions)
}

func TestRecordRun_AndPrintHistory(t *testing.T) {
	// GIVEN a short comparison evaluated from flags
	c := newFlagCommand(t)
	require.NoError(t, c.Flags().Set("session-minutes", "30"))
	require.NoError(t, c.Flags().Set("spawn-every", "20"))
	arms, _, err := loadArms(c, 1, 2)
	require.NoError(t, err)
	run, err := newComparativeRun(arms)
	require.NoError(t, err)
	res := comparison.Evaluate(run, 10_000)

	// WHEN it is recorded
	db := filepath.Join(t.TempDir(), "runs.db")
	id, err := recordRun(db, "flags", 42, res)
	require.NoError(t, err)

	// THEN history lists it
	ledger, err := results.Open(db)
	require.NoError(t, err)
	defer ledger.Close()
	runs, err := ledger.List(0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)

	var buf bytes.Buffer
	require.NoError(t, printHistory(&buf, runs))
	assert.Contains(t, buf.String(), id[:8])
	assert.Contains(t, buf.String(), "standard vs ai-augmented")
}

func TestPrintHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printHistory(&buf, nil))
	assert.Contains(t, buf.String(), "No recorded runs.")
}

func TestPrintHistory_UndefinedLift(t *testing.T) {
	var buf bytes.Buffer
	err := printHistory(&buf, []results.RunRecord{{
		ID: "abc", RecordedAt: time.Now(), Scenario: "x",
		BaselineArm: "standard", CandidateArm: "ai-augmented",
	}})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "n/a")
}

// failingWriter rejects every write.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestPrintHistory_ReportsWriteError(t *testing.T) {
	// GIVEN a writer that fails
	runs := []results.RunRecord{{ID: "abc", RecordedAt: time.Now(), Scenario: "x"}}

	// WHEN history is printed to it, THEN the failure surfaces for both the table and the empty message
	assert.ErrorContains(t, printHistory(failingWriter{}, runs), "disk full")
	assert.ErrorContains(t, printHistory(failingWriter{}, nil), "disk full")
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"run", "compare", "serve", "history"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}
