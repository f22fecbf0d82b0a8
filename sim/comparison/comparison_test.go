package comparison

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safal938/iso-clinic-v2-sub000/sim"
	"github.com/safal938/iso-clinic-v2-sub000/sim/internal/testutil"
	"github.com/safal938/iso-clinic-v2-sub000/sim/trace"
)

// newArmConfig returns a two-hour clinic with one simulated minute per tick,
// a patient every five ticks and instant walking.
func newArmConfig(nurseRooms int) sim.SimConfig {
	cfg := sim.DefaultSimConfig(nurseRooms)
	cfg.Timing = sim.NewTimingConfig(10, 1, 120, 1, 1, 30)
	cfg.Spawn = sim.NewSpawnConfig(5, sim.DefaultCategories())
	cfg.Care.EscalationProbability = 0
	cfg.Movement.Speed = 1e6
	return cfg
}

func TestNewComparativeRun_RejectsDuplicateIDs(t *testing.T) {
	_, err := NewComparativeRun(ArmStandard, newArmConfig(1), ArmStandard, newArmConfig(2))
	assert.Error(t, err)

	_, err = NewComparativeRun("", newArmConfig(1), ArmAugmented, newArmConfig(2))
	assert.Error(t, err)
}

func TestComparativeRun_IdenticalArms_LiftIsOne(t *testing.T) {
	r, err := NewComparativeRun(ArmStandard, newArmConfig(2), ArmAugmented, newArmConfig(2))
	require.NoError(t, err)

	r.RunSession(10_000)
	require.True(t, r.Done())

	c := r.Compare()
	require.Greater(t, c.Baseline.MonitoringArrivals, int64(0))
	assert.True(t, c.LiftDefined)
	assert.InDelta(t, 1.0, c.ProductivityLift, 1e-12)
	assert.Equal(t, int64(0), c.ArrivalsDelta)
	assert.Equal(t, c.Baseline.MonitoringArrivals, c.Candidate.MonitoringArrivals)
	assert.Equal(t, int64(120), c.Ticks)
	assert.InDelta(t, 120.0, c.Minutes, 1e-9)
}

func TestComparativeRun_LockstepAdvance(t *testing.T) {
	r, err := NewComparativeRun(ArmStandard, newArmConfig(1), ArmAugmented, newArmConfig(3))
	require.NoError(t, err)

	// 10ms per tick: 250ms is 25 ticks for both arms, with 5ms carried.
	r.Advance(255)
	assert.Equal(t, int64(25), r.Baseline.Ticks())
	assert.Equal(t, int64(25), r.Candidate.Ticks())

	r.Advance(5)
	assert.Equal(t, int64(26), r.Baseline.Ticks())
	assert.Equal(t, int64(26), r.Candidate.Ticks())
}

func TestComparativeRun_ArmsShareNoState(t *testing.T) {
	r, err := NewComparativeRun(ArmStandard, newArmConfig(1), ArmAugmented, newArmConfig(1))
	require.NoError(t, err)

	r.Candidate.Simulator().InjectPatient("walk_in")
	r.Candidate.Simulator().RunTicks(3)

	assert.Equal(t, int64(0), r.Baseline.Stats().Spawned)
	assert.Equal(t, int64(0), r.Baseline.Ticks())
	assert.Equal(t, int64(1), r.Candidate.Stats().Spawned)
}

func TestComparativeRun_Reset(t *testing.T) {
	r, err := NewComparativeRun(ArmStandard, newArmConfig(1), ArmAugmented, newArmConfig(2))
	require.NoError(t, err)

	r.RunSession(10_000)
	first := r.Compare()
	r.Reset()

	for _, a := range r.Arms() {
		assert.Equal(t, int64(0), a.Ticks())
		assert.Empty(t, a.Simulator().Agents)
	}

	r.RunSession(10_000)
	second := r.Compare()
	assert.Equal(t, first, second, "a reset run must replay identically")
}

func TestComparativeRun_Snapshot(t *testing.T) {
	r, err := NewComparativeRun(ArmStandard, newArmConfig(1), ArmAugmented, newArmConfig(2))
	require.NoError(t, err)

	r.Advance(100)
	snap := r.Snapshot()

	require.Len(t, snap.Arms, 2)
	assert.Equal(t, int64(10), snap.Arms[ArmStandard].Tick)
	assert.Equal(t, int64(10), snap.Arms[ArmAugmented].Tick)
	assert.Same(t, r.Candidate, r.Arm(ArmAugmented))
	assert.Nil(t, r.Arm("missing"))
}

func TestArmMetrics_StaffingCost(t *testing.T) {
	cfg := newArmConfig(2)
	cfg.Cost = sim.CostConfig{NursePerHour: 45, HepatologistPerHour: 160, FixedPerHour: 0}
	arm := NewArmSimulator(ArmStandard, cfg)
	arm.Simulator().RunSession(10_000)

	m := NewArmMetrics(arm)
	// Two simulated hours of two nurses plus one hepatologist.
	testutil.AssertFloat64Equal(t, "staffing_cost", 500.0, m.StaffingCost, 1e-9)
	require.Greater(t, m.MonitoringArrivals, int64(0))
	assert.InDelta(t, m.StaffingCost/float64(m.MonitoringArrivals), m.CostPerTreated, 1e-9)
	assert.Equal(t, int(m.MonitoringArrivals), m.MinutesToMonitoring.Count)
	assert.Greater(t, m.MinutesToMonitoring.Min, 0.0)
}

func TestNewComparison_UndefinedLift(t *testing.T) {
	base := ArmMetrics{Arm: ArmStandard, MonitoringArrivals: 0, StaffingCost: 100}
	cand := ArmMetrics{Arm: ArmAugmented, MonitoringArrivals: 4, StaffingCost: 130}

	c := NewComparison(base, cand, 60, 60)
	assert.False(t, c.LiftDefined)
	assert.Equal(t, 0.0, c.ProductivityLift)
	assert.Equal(t, int64(4), c.ArrivalsDelta)
	assert.InDelta(t, 30.0, c.CostDelta, 1e-9)

	var buf bytes.Buffer
	c.Print(&buf)
	assert.Contains(t, buf.String(), "undefined")
}

func TestNewComparison_Lift(t *testing.T) {
	base := ArmMetrics{Arm: ArmStandard, MonitoringArrivals: 8}
	cand := ArmMetrics{Arm: ArmAugmented, MonitoringArrivals: 12}

	c := NewComparison(base, cand, 0, 0)
	assert.True(t, c.LiftDefined)
	testutil.AssertFloat64Equal(t, "productivity_lift", 1.5, c.ProductivityLift, 1e-12)

	var buf bytes.Buffer
	c.Print(&buf)
	assert.Contains(t, buf.String(), "1.50x")
}

func TestEvaluate_CollectsTraces(t *testing.T) {
	base := newArmConfig(1)
	cand := newArmConfig(2)
	cand.TraceLevel = string(trace.TraceLevelTransitions)

	r, err := NewComparativeRun(ArmStandard, base, ArmAugmented, cand)
	require.NoError(t, err)

	res := Evaluate(r, 10_000)
	assert.NotContains(t, res.Traces, ArmStandard)
	require.Contains(t, res.Traces, ArmAugmented)
	assert.Equal(t, string(ArmAugmented), res.Traces[ArmAugmented].Config.Label)
	assert.Greater(t, res.Summaries[ArmAugmented].TotalTransitions, 0)
	assert.Equal(t, r.Compare(), res.Comparison)
}
