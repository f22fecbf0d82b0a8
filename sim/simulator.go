// sim/simulator.go
package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/safal938/iso-clinic-v2-sub000/sim/trace"
)

// Simulator is the core object that holds the virtual clock, the active
// patients and the clinic statistics. One Simulator models one clinic.
//
// Thread-safety: NOT thread-safe. Every tick is a complete synchronous pass
// and must be driven from a single goroutine; Snapshot copies are safe to share.
type Simulator struct {
	config   SimConfig
	topology *Topology
	clock    *VirtualClock
	rng      *PartitionedRNG

	// Agents is the active patient set in spawn order. Allocation decisions
	// scan it directly.
	Agents []*Agent
	Stats  *Statistics
	Trace  *trace.SimulationTrace // nil when tracing is disabled

	nextAgentID AgentID
	pruned      bool
}

// NewSimulator builds a simulator from cfg. Configuration is trusted: a clinic
// without nurse rooms simply accumulates waiting patients.
func NewSimulator(cfg SimConfig) *Simulator {
	tc := cfg.Topology
	s := &Simulator{
		config:   cfg,
		topology: NewClinicTopology(tc.NurseRooms, tc.NurseRoomIDs, tc.NorthRoom),
		clock:    NewVirtualClock(cfg.Timing),
		rng:      NewPartitionedRNG(cfg.Seed),
		Agents:   make([]*Agent, 0),
		Stats:    NewStatistics(),
	}
	if level := trace.TraceLevel(cfg.TraceLevel); level.Enabled() {
		s.Trace = trace.NewSimulationTrace(trace.TraceConfig{Level: level})
	}
	return s
}

// Config returns the configuration the simulator was built with.
func (sim *Simulator) Config() SimConfig {
	return sim.config
}

// Topology returns the clinic floor plan.
func (sim *Simulator) Topology() *Topology {
	return sim.topology
}

// Clock returns the virtual clock.
func (sim *Simulator) Clock() *VirtualClock {
	return sim.clock
}

// IsSessionOver reports whether the session window has closed.
func (sim *Simulator) IsSessionOver() bool {
	return sim.clock.IsSessionOver()
}

// Advance converts elapsedRealMs into ticks and runs them. It returns the
// number of ticks executed. Once the session has closed and been swept the
// clock stops and Advance is a no-op.
func (sim *Simulator) Advance(elapsedRealMs float64) int {
	due := sim.clock.Advance(elapsedRealMs)
	ran := 0
	for ; ran < due; ran++ {
		if sim.pruned {
			break
		}
		sim.Step()
	}
	return ran
}

// Step executes exactly one tick: spawn, movement, state transitions,
// statistics, and the one-time session-end sweep.
func (sim *Simulator) Step() {
	tick := sim.clock.Tick()

	if sim.shouldSpawn(tick) {
		sim.spawn(drawCategory(sim.rng.ForSubsystem(SubsystemSpawn), sim.config.Spawn.Categories))
	}

	for _, a := range sim.Agents {
		move(a, sim.config.Movement.Speed)
	}

	for _, a := range sim.Agents {
		sim.evaluate(a, tick)
	}

	if sim.clock.IsSessionOver() && !sim.pruned {
		sim.closeSession(tick)
	}

	sim.Stats.refresh(sim.Agents, sim.clock)
}

// RunTicks executes n ticks directly, bypassing real-time conversion.
func (sim *Simulator) RunTicks(n int64) {
	for i := int64(0); i < n; i++ {
		if sim.pruned {
			return
		}
		sim.Step()
	}
}

// RunSession steps until the session window closes. A simulator without a
// session length runs for maxTicks instead.
func (sim *Simulator) RunSession(maxTicks int64) {
	for !sim.pruned && sim.clock.Ticks() < maxTicks {
		sim.Step()
	}
}

// InjectPatient spawns a patient immediately, outside the spawn cadence.
func (sim *Simulator) InjectPatient(category string) *Agent {
	a := sim.spawn(category)
	sim.Stats.refresh(sim.Agents, sim.clock)
	return a
}

// closeSession removes every patient not resting in monitoring.
func (sim *Simulator) closeSession(tick int64) {
	kept := sim.Agents[:0]
	removed := 0
	for _, a := range sim.Agents {
		if a.State == StateAtMonitoring {
			kept = append(kept, a)
			continue
		}
		sim.transition(a, StateExiting, tick)
		removed++
	}
	for i := len(kept); i < len(sim.Agents); i++ {
		sim.Agents[i] = nil
	}
	sim.Agents = kept
	sim.Stats.Pruned += int64(removed)
	sim.pruned = true
	logrus.Infof("[tick %07d] session closed: %d patients pruned, %d in monitoring", tick, removed, len(kept))
}

// Reset reinitializes the clock, the patient set, the statistics and the RNG
// streams. The topology and configuration are kept.
func (sim *Simulator) Reset() {
	sim.clock.Reset()
	sim.rng.Reseed()
	sim.Agents = make([]*Agent, 0)
	sim.Stats = NewStatistics()
	sim.nextAgentID = 0
	sim.pruned = false
	if sim.Trace != nil {
		sim.Trace.Clear()
	}
}
