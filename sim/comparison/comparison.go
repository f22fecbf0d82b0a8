package comparison

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/safal938/iso-clinic-v2-sub000/sim"
)

// ComparativeRun advances a baseline and a candidate clinic in lockstep.
// The arms share no mutable state; lockstep only keeps their elapsed time equal.
type ComparativeRun struct {
	Baseline  *ArmSimulator
	Candidate *ArmSimulator
}

// NewComparativeRun builds both arms. Arm IDs must differ.
func NewComparativeRun(baselineID ArmID, baseline sim.SimConfig, candidateID ArmID, candidate sim.SimConfig) (*ComparativeRun, error) {
	if baselineID == "" || candidateID == "" {
		return nil, fmt.Errorf("arm IDs must be non-empty")
	}
	if baselineID == candidateID {
		return nil, fmt.Errorf("arm IDs must differ, both are %q", baselineID)
	}
	return &ComparativeRun{
		Baseline:  NewArmSimulator(baselineID, baseline),
		Candidate: NewArmSimulator(candidateID, candidate),
	}, nil
}

// Arms returns baseline then candidate.
func (r *ComparativeRun) Arms() []*ArmSimulator {
	return []*ArmSimulator{r.Baseline, r.Candidate}
}

// Arm returns the arm with the given ID, or nil.
func (r *ComparativeRun) Arm(id ArmID) *ArmSimulator {
	for _, a := range r.Arms() {
		if a.ID() == id {
			return a
		}
	}
	return nil
}

// Advance feeds the same real elapsed time to both arms.
func (r *ComparativeRun) Advance(elapsedRealMs float64) {
	for _, a := range r.Arms() {
		a.Simulator().Advance(elapsedRealMs)
	}
}

// Done reports whether both arms have closed their session.
func (r *ComparativeRun) Done() bool {
	return r.Baseline.Simulator().IsSessionOver() && r.Candidate.Simulator().IsSessionOver()
}

// RunSession runs each arm until its session closes, or for maxTicks when the
// arm is uncapped. The arms share nothing, so they run one after the other.
func (r *ComparativeRun) RunSession(maxTicks int64) {
	for _, a := range r.Arms() {
		a.Simulator().RunSession(maxTicks)
		logrus.Infof("arm %s finished at tick %d: %d monitoring arrivals",
			a.ID(), a.Ticks(), a.Stats().MonitoringArrivals)
	}
}

// Reset reinitializes both arms.
func (r *ComparativeRun) Reset() {
	for _, a := range r.Arms() {
		a.Simulator().Reset()
	}
}

// Compare summarizes both arms and diffs them. Elapsed time is taken from the
// arm that has run the longest.
func (r *ComparativeRun) Compare() Comparison {
	ticks := max(r.Baseline.Ticks(), r.Candidate.Ticks())
	minutes := max(r.Baseline.Simulator().Clock().Minutes(), r.Candidate.Simulator().Clock().Minutes())
	return NewComparison(NewArmMetrics(r.Baseline), NewArmMetrics(r.Candidate), ticks, minutes)
}

// Snapshot is a consistent view of both arms between ticks.
type Snapshot struct {
	Arms map[ArmID]sim.Snapshot `json:"arms"`
}

// Snapshot copies both arms.
func (r *ComparativeRun) Snapshot() Snapshot {
	snap := Snapshot{Arms: make(map[ArmID]sim.Snapshot, 2)}
	for _, a := range r.Arms() {
		snap.Arms[a.ID()] = a.Simulator().Snapshot()
	}
	return snap
}
