// Package scenario loads clinic scenario files: shared timing, arrival and
// movement parameters plus one or two clinic arms to simulate.
package scenario

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/safal938/iso-clinic-v2-sub000/sim"
	"github.com/safal938/iso-clinic-v2-sub000/sim/trace"
)

// Scenario is the top-level scenario configuration.
// Loaded from YAML via LoadScenario(path). Nil pointer fields mean "not set"
// and keep the simulator defaults.
type Scenario struct {
	Version    string         `yaml:"version"`
	Seed       *int64         `yaml:"seed"`
	TraceLevel string         `yaml:"trace_level"`
	Timing     TimingSpec     `yaml:"timing"`
	Spawn      SpawnSpec      `yaml:"spawn"`
	Movement   MovementSpec   `yaml:"movement"`
	Monitoring MonitoringSpec `yaml:"monitoring"`
	Arms       []ArmSpec      `yaml:"arms"`
}

// TimingSpec overrides clock and timer parameters.
type TimingSpec struct {
	TickDurationMs *float64 `yaml:"tick_duration_ms"`
	MinutesPerTick *float64 `yaml:"minutes_per_tick"`
	SessionMinutes *float64 `yaml:"session_minutes"` // 0 = uncapped
	WaitingTicks   *int64   `yaml:"waiting_ticks"`
	TreatmentTicks *int64   `yaml:"treatment_ticks"`
	RetryTicks     *int64   `yaml:"retry_ticks"`
}

// SpawnSpec overrides arrival generation.
type SpawnSpec struct {
	EveryTicks *int64         `yaml:"every_ticks"` // 0 disables scheduled spawning
	Categories []CategorySpec `yaml:"categories,omitempty"`
}

// CategorySpec is one weighted origin category.
type CategorySpec struct {
	Category string  `yaml:"category"`
	Weight   float64 `yaml:"weight"`
}

// MovementSpec overrides walking parameters.
type MovementSpec struct {
	Speed      *float64 `yaml:"speed"`
	RoomJitter *float64 `yaml:"room_jitter"`
}

// MonitoringSpec overrides the monitoring grid.
type MonitoringSpec struct {
	Columns *int     `yaml:"columns"`
	Pitch   *float64 `yaml:"pitch"`
}

// ArmSpec describes one clinic configuration.
type ArmSpec struct {
	ID                    string    `yaml:"id"`
	NurseRooms            int       `yaml:"nurse_rooms"`
	NurseRoomIDs          []string  `yaml:"nurse_room_ids,omitempty"`
	NorthRoom             string    `yaml:"north_room,omitempty"`
	EscalationProbability *float64  `yaml:"escalation_probability"`
	Cost                  *CostSpec `yaml:"cost"`
}

// CostSpec overrides the staffing cost model of an arm.
type CostSpec struct {
	NursePerHour        *float64 `yaml:"nurse_per_hour"`
	HepatologistPerHour *float64 `yaml:"hepatologist_per_hour"`
	FixedPerHour        *float64 `yaml:"fixed_per_hour"`
}

// LoadScenario reads, schema-checks and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML from memory. The document is checked
// against the embedded JSON schema first, then decoded strictly.
func ParseScenario(data []byte) (*Scenario, error) {
	if err := checkSchema(data); err != nil {
		return nil, err
	}
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if s.Version == "" {
		s.Version = "1"
	}
	return &s, nil
}

// Validate checks values the schema cannot express: finiteness, unique arm
// IDs and room names that exist.
func (s *Scenario) Validate() error {
	if !trace.IsValidTraceLevel(s.TraceLevel) {
		return fmt.Errorf("unknown trace_level %q; valid: none, transitions", s.TraceLevel)
	}
	if len(s.Arms) == 0 {
		return fmt.Errorf("at least one arm required")
	}
	for name, v := range map[string]*float64{
		"timing.tick_duration_ms": s.Timing.TickDurationMs,
		"timing.minutes_per_tick": s.Timing.MinutesPerTick,
		"movement.speed":          s.Movement.Speed,
		"monitoring.pitch":        s.Monitoring.Pitch,
	} {
		if v != nil {
			if err := validateFinitePositive(name, *v); err != nil {
				return err
			}
		}
	}
	for i, c := range s.Spawn.Categories {
		if c.Weight < 0 || math.IsNaN(c.Weight) || math.IsInf(c.Weight, 0) {
			return fmt.Errorf("spawn.categories[%d]: weight must be a finite non-negative number, got %f", i, c.Weight)
		}
	}
	seen := make(map[string]bool, len(s.Arms))
	for i := range s.Arms {
		if err := validateArm(&s.Arms[i], i); err != nil {
			return err
		}
		if seen[s.Arms[i].ID] {
			return fmt.Errorf("arm[%d]: duplicate id %q", i, s.Arms[i].ID)
		}
		seen[s.Arms[i].ID] = true
	}
	return nil
}

// reservedRoomIDs are the IDs of the clinic's fixed resources.
var reservedRoomIDs = map[string]bool{
	string(sim.WaitingID):      true,
	string(sim.HepatologistID): true,
	string(sim.MonitoringID):   true,
}

func validateArm(a *ArmSpec, idx int) error {
	prefix := fmt.Sprintf("arm[%d]", idx)
	if a.ID == "" {
		return fmt.Errorf("%s: id must be non-empty", prefix)
	}
	if a.NurseRooms < 0 {
		return fmt.Errorf("%s: nurse_rooms must be non-negative, got %d", prefix, a.NurseRooms)
	}
	if len(a.NurseRoomIDs) > 0 && len(a.NurseRoomIDs) != a.NurseRooms {
		return fmt.Errorf("%s: %d nurse_room_ids given for %d nurse_rooms", prefix, len(a.NurseRoomIDs), a.NurseRooms)
	}
	seen := make(map[string]bool, len(a.NurseRoomIDs))
	for _, id := range a.NurseRoomIDs {
		if reservedRoomIDs[id] {
			return fmt.Errorf("%s: nurse room id %q is reserved", prefix, id)
		}
		if seen[id] {
			return fmt.Errorf("%s: duplicate nurse room id %q", prefix, id)
		}
		seen[id] = true
	}
	if a.NorthRoom != "" {
		if !hasRoom(a, a.NorthRoom) {
			return fmt.Errorf("%s: north_room %q is not one of the arm's nurse rooms", prefix, a.NorthRoom)
		}
	}
	if p := a.EscalationProbability; p != nil && (*p < 0 || *p > 1 || math.IsNaN(*p)) {
		return fmt.Errorf("%s: escalation_probability must be in [0, 1], got %f", prefix, *p)
	}
	return nil
}

func hasRoom(a *ArmSpec, id string) bool {
	if len(a.NurseRoomIDs) > 0 {
		for _, r := range a.NurseRoomIDs {
			if r == id {
				return true
			}
		}
		return false
	}
	for i := 0; i < a.NurseRooms; i++ {
		if string(sim.NurseRoomID(i)) == id {
			return true
		}
	}
	return false
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

// Arm returns the arm with the given ID, or nil.
func (s *Scenario) Arm(id string) *ArmSpec {
	for i := range s.Arms {
		if s.Arms[i].ID == id {
			return &s.Arms[i]
		}
	}
	return nil
}

// ToSimConfig builds the simulator configuration of one arm, starting from
// sim.DefaultSimConfig and applying every field set in the scenario.
func (s *Scenario) ToSimConfig(arm *ArmSpec) sim.SimConfig {
	cfg := sim.DefaultSimConfig(arm.NurseRooms)
	if s.Seed != nil {
		cfg.Seed = *s.Seed
	}
	if s.TraceLevel != "" {
		cfg.TraceLevel = s.TraceLevel
	}

	if len(arm.NurseRoomIDs) > 0 {
		ids := make([]sim.ResourceID, len(arm.NurseRoomIDs))
		for i, id := range arm.NurseRoomIDs {
			ids[i] = sim.ResourceID(id)
		}
		cfg.Topology.NurseRoomIDs = ids
	}
	cfg.Topology.NorthRoom = sim.ResourceID(arm.NorthRoom)

	t := s.Timing
	setFloat(&cfg.Timing.TickDurationMs, t.TickDurationMs)
	setFloat(&cfg.Timing.MinutesPerTick, t.MinutesPerTick)
	setFloat(&cfg.Timing.SessionMinutes, t.SessionMinutes)
	setInt64(&cfg.Timing.WaitingTicks, t.WaitingTicks)
	setInt64(&cfg.Timing.TreatmentTicks, t.TreatmentTicks)
	setInt64(&cfg.Timing.RetryTicks, t.RetryTicks)

	setInt64(&cfg.Spawn.EveryTicks, s.Spawn.EveryTicks)
	if len(s.Spawn.Categories) > 0 {
		cats := make([]sim.CategoryWeight, len(s.Spawn.Categories))
		for i, c := range s.Spawn.Categories {
			cats[i] = sim.CategoryWeight{Category: c.Category, Weight: c.Weight}
		}
		cfg.Spawn.Categories = cats
	}

	setFloat(&cfg.Movement.Speed, s.Movement.Speed)
	setFloat(&cfg.Movement.RoomJitter, s.Movement.RoomJitter)
	if s.Monitoring.Columns != nil {
		cfg.Monitoring.Columns = *s.Monitoring.Columns
	}
	setFloat(&cfg.Monitoring.Pitch, s.Monitoring.Pitch)

	setFloat(&cfg.Care.EscalationProbability, arm.EscalationProbability)
	if arm.Cost != nil {
		setFloat(&cfg.Cost.NursePerHour, arm.Cost.NursePerHour)
		setFloat(&cfg.Cost.HepatologistPerHour, arm.Cost.HepatologistPerHour)
		setFloat(&cfg.Cost.FixedPerHour, arm.Cost.FixedPerHour)
	}
	return cfg
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setInt64(dst *int64, v *int64) {
	if v != nil {
		*dst = *v
	}
}
