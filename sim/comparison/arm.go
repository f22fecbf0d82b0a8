// Package comparison runs two independently configured clinics in lockstep
// and diffs their throughput and staffing cost.
package comparison

import (
	"github.com/safal938/iso-clinic-v2-sub000/sim"
)

// ArmID uniquely identifies a clinic configuration within a comparison.
// Uses distinct type (not alias) to prevent accidental string mixing.
type ArmID string

const (
	// ArmAugmented is the conventional ID of the AI-augmented clinic.
	ArmAugmented ArmID = "ai-augmented"
	// ArmStandard is the conventional ID of the standard clinic.
	ArmStandard ArmID = "standard"
)

// ArmSimulator wraps one Simulator for use in a comparison.
//
// Thread-safety: NOT thread-safe. All methods must be called from the same goroutine.
type ArmSimulator struct {
	id  ArmID
	sim *sim.Simulator
}

// NewArmSimulator creates an ArmSimulator wrapping a new Simulator built from cfg.
func NewArmSimulator(id ArmID, cfg sim.SimConfig) *ArmSimulator {
	return &ArmSimulator{id: id, sim: sim.NewSimulator(cfg)}
}

// ID returns the arm identifier.
func (a *ArmSimulator) ID() ArmID {
	return a.id
}

// Simulator returns the wrapped simulator.
func (a *ArmSimulator) Simulator() *sim.Simulator {
	return a.sim
}

// Stats returns the live statistics of the wrapped simulator (not a copy).
func (a *ArmSimulator) Stats() *sim.Statistics {
	return a.sim.Stats
}

// Ticks returns the current simulation clock (in ticks).
func (a *ArmSimulator) Ticks() int64 {
	return a.sim.Clock().Ticks()
}

// StaffingCost returns the staffing cost accrued over the simulated time so far.
func (a *ArmSimulator) StaffingCost() float64 {
	cfg := a.sim.Config()
	hours := a.sim.Clock().Minutes() / 60
	nurses := float64(len(a.sim.Topology().NurseRooms))
	perHour := nurses*cfg.Cost.NursePerHour + cfg.Cost.HepatologistPerHour + cfg.Cost.FixedPerHour
	return hours * perHour
}

// minutesToMonitoring returns the walk-in to monitoring-arrival time of every
// patient resting in monitoring.
func (a *ArmSimulator) minutesToMonitoring() []float64 {
	perTick := a.sim.Config().Timing.MinutesPerTick
	out := make([]float64, 0)
	for _, ag := range a.sim.Agents {
		if ag.State == sim.StateAtMonitoring {
			out = append(out, float64(ag.StateSince-ag.SpawnTick)*perTick)
		}
	}
	return out
}
