package cmd

import (
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/safal938/iso-clinic-v2-sub000/sim"
	"github.com/safal938/iso-clinic-v2-sub000/sim/scenario"
	"github.com/safal938/iso-clinic-v2-sub000/sim/trace"
)

// armConfig is one clinic ready to simulate.
type armConfig struct {
	ID     string
	Config sim.SimConfig
}

// Arm names when clinics are described by flags.
const (
	flagSingleArm    = "clinic"
	flagBaselineArm  = "standard"
	flagCandidateArm = "ai-augmented"
)

// loadArms builds the clinics to simulate, from --scenario when set and from
// the clinic flags otherwise, one arm per entry of rooms. The returned label
// names the source.
func loadArms(cmd *cobra.Command, rooms ...int) ([]armConfig, string, error) {
	if !trace.IsValidTraceLevel(traceLevel) {
		return nil, "", fmt.Errorf("unknown trace level %q; valid: none, transitions", traceLevel)
	}
	if scenarioPath != "" {
		arms, err := armsFromScenario(scenarioPath, cmd)
		return arms, scenarioPath, err
	}
	arms := armsFromFlags(cmd, rooms)
	for _, a := range arms {
		if err := validateFlagConfig(a.Config); err != nil {
			return nil, "", fmt.Errorf("arm %s: %w", a.ID, err)
		}
	}
	return arms, "flags", nil
}

func armsFromScenario(path string, cmd *cobra.Command) ([]armConfig, error) {
	s, err := scenario.LoadScenario(path)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	arms := make([]armConfig, 0, len(s.Arms))
	for i := range s.Arms {
		cfg := s.ToSimConfig(&s.Arms[i])
		// Explicit CLI seed and trace flags win over the file.
		if cmd.Flags().Changed("seed") {
			cfg.Seed = seed
		}
		applyTraceFlags(cmd, &cfg)
		arms = append(arms, armConfig{ID: s.Arms[i].ID, Config: cfg})
	}
	return arms, nil
}

func armsFromFlags(cmd *cobra.Command, rooms []int) []armConfig {
	if len(rooms) == 1 {
		return []armConfig{{ID: flagSingleArm, Config: flagConfig(cmd, rooms[0])}}
	}
	ids := []string{flagBaselineArm, flagCandidateArm}
	arms := make([]armConfig, 0, len(rooms))
	for i, n := range rooms {
		id := fmt.Sprintf("arm-%d", i+1)
		if i < len(ids) {
			id = ids[i]
		}
		arms = append(arms, armConfig{ID: id, Config: flagConfig(cmd, n)})
	}
	return arms
}

// flagConfig builds a clinic from the clinic flags.
func flagConfig(cmd *cobra.Command, rooms int) sim.SimConfig {
	cfg := sim.DefaultSimConfig(rooms)
	cfg.Seed = seed
	cfg.Timing = sim.NewTimingConfig(sim.DefaultTickDurationMs, minutesPerTick, sessionMinutes,
		waitingTicks, treatmentTicks, retryTicks)
	cfg.Spawn = sim.NewSpawnConfig(spawnEveryTicks, sim.DefaultCategories())
	cfg.Care.EscalationProbability = escalationProb
	cfg.Movement.Speed = walkingSpeed
	applyTraceFlags(cmd, &cfg)
	return cfg
}

// validateFlagConfig applies the bounds the scenario schema enforces on files.
func validateFlagConfig(cfg sim.SimConfig) error {
	if cfg.Topology.NurseRooms < 0 {
		return fmt.Errorf("nurse rooms must be non-negative, got %d", cfg.Topology.NurseRooms)
	}
	t := cfg.Timing
	if err := validateFinitePositive("--minutes-per-tick", t.MinutesPerTick); err != nil {
		return err
	}
	if t.SessionMinutes < 0 || math.IsNaN(t.SessionMinutes) {
		return fmt.Errorf("--session-minutes must be non-negative, got %f", t.SessionMinutes)
	}
	if t.WaitingTicks < 0 {
		return fmt.Errorf("--waiting-ticks must be non-negative, got %d", t.WaitingTicks)
	}
	if t.TreatmentTicks < 0 {
		return fmt.Errorf("--treatment-ticks must be non-negative, got %d", t.TreatmentTicks)
	}
	if t.RetryTicks < 1 {
		return fmt.Errorf("--retry-ticks must be at least 1, got %d", t.RetryTicks)
	}
	if cfg.Spawn.EveryTicks < 0 {
		return fmt.Errorf("--spawn-every must be non-negative, got %d", cfg.Spawn.EveryTicks)
	}
	if p := cfg.Care.EscalationProbability; p < 0 || p > 1 || math.IsNaN(p) {
		return fmt.Errorf("--escalation must be in [0, 1], got %f", p)
	}
	return validateFinitePositive("--speed", cfg.Movement.Speed)
}

func validateFinitePositive(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, val)
	}
	if val <= 0 {
		return fmt.Errorf("%s must be positive, got %f", name, val)
	}
	return nil
}

func applyTraceFlags(cmd *cobra.Command, cfg *sim.SimConfig) {
	if cmd.Flags().Changed("trace-level") {
		cfg.TraceLevel = traceLevel
	}
	if traceOut != "" {
		cfg.TraceLevel = string(trace.TraceLevelTransitions)
	}
}

// selectArm returns the arm named id, or the first arm when id is empty.
func selectArm(arms []armConfig, id string) (armConfig, error) {
	if len(arms) == 0 {
		return armConfig{}, fmt.Errorf("no clinic arms configured")
	}
	if id == "" {
		return arms[0], nil
	}
	for _, a := range arms {
		if a.ID == id {
			return a, nil
		}
	}
	return armConfig{}, fmt.Errorf("arm %q not found", id)
}

// writeTrace exports tr to <prefix>-<arm>.jsonl.zst and returns the path.
func writeTrace(prefix, arm string, tr *trace.SimulationTrace) (string, error) {
	path := fmt.Sprintf("%s-%s.jsonl.zst", prefix, arm)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating trace file: %w", err)
	}
	if err := trace.WriteJSONLZstd(f, tr); err != nil {
		f.Close()
		return "", fmt.Errorf("writing trace %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing trace %s: %w", path, err)
	}
	return path, nil
}
