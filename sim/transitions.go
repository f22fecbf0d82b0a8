package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/safal938/iso-clinic-v2-sub000/sim/trace"
)

// evaluate applies at most one state transition to a. Movement for this tick
// has already run, so an empty path means the agent arrived this tick or earlier.
func (sim *Simulator) evaluate(a *Agent, tick int64) {
	timing := sim.config.Timing

	switch a.State {
	case StateEntering:
		if len(a.Path) == 0 {
			sim.transition(a, StateWaiting, tick)
			a.WaitTimer = timing.WaitingTicks
		}

	case StateWaiting:
		if !a.countdown() {
			return
		}
		room := sim.firstFreeNurseRoom(a)
		if room == nil {
			sim.contend(a, KindNurse, tick)
			return
		}
		a.AssignedResource = room.ID
		a.Path = sim.nurseRoute(room)
		sim.transition(a, StateToNurse, tick)

	case StateToNurse:
		if len(a.Path) == 0 {
			sim.transition(a, StateAtNurse, tick)
			a.WaitTimer = timing.TreatmentTicks
			sim.Stats.NurseVisits++
		}

	case StateAtNurse:
		if !a.countdown() {
			return
		}
		if !a.escalated {
			a.escalated = sim.rng.ForSubsystem(SubsystemCare).Float64() < sim.config.Care.EscalationProbability
		}
		if !a.escalated {
			a.Path = sim.monitoringRoute(a)
			a.AssignedResource = sim.topology.Monitoring.ID
			sim.transition(a, StateToMonitoring, tick)
			sim.Stats.Treated++
			return
		}
		hep := &sim.topology.Hepatologist
		if !sim.tryAcquire(hep, a) {
			sim.contend(a, KindHepatologist, tick)
			return
		}
		a.Path = sim.hepatologistRoute(a)
		a.AssignedResource = hep.ID
		sim.transition(a, StateToDoc, tick)
		sim.Stats.HepatologistCases++

	case StateToDoc:
		if len(a.Path) == 0 {
			sim.transition(a, StateAtDoc, tick)
			a.WaitTimer = timing.TreatmentTicks
		}

	case StateAtDoc:
		if !a.countdown() {
			return
		}
		a.Path = sim.monitoringRoute(a)
		a.AssignedResource = sim.topology.Monitoring.ID
		sim.transition(a, StateToMonitoring, tick)

	case StateToMonitoring:
		if len(a.Path) == 0 {
			sim.transition(a, StateAtMonitoring, tick)
			sim.Stats.recordMonitoringArrival(a, tick)
		}

	case StateAtMonitoring, StateExiting:
		// Resting until the session closes.
	}
}

// transition moves a into state `to` and records it.
func (sim *Simulator) transition(a *Agent, to AgentState, tick int64) {
	from := a.State
	a.State = to
	a.StateSince = tick
	a.WaitTimer = 0
	if to == StateExiting || to == StateWaiting {
		a.AssignedResource = ""
	}
	if to == StateToMonitoring || to == StateExiting {
		a.escalated = false
	}
	logrus.Debugf("[tick %07d] patient %d: %s -> %s %s", tick, a.ID, from, to, a.AssignedResource)
	if sim.Trace != nil {
		sim.Trace.RecordTransition(trace.TransitionRecord{
			AgentID:  int64(a.ID),
			Tick:     tick,
			From:     string(from),
			To:       string(to),
			Resource: string(a.AssignedResource),
		})
	}
}

// contend re-arms the retry timer after a failed acquisition. The agent keeps
// its state; this is the only form of waiting on a resource.
func (sim *Simulator) contend(a *Agent, kind ResourceKind, tick int64) {
	a.WaitTimer = sim.config.Timing.RetryTicks
	sim.Stats.ContentionRetries++
	logrus.Tracef("[tick %07d] patient %d: %s busy, retry in %d ticks", tick, a.ID, kind, a.WaitTimer)
	if sim.Trace != nil {
		sim.Trace.RecordContention(trace.ContentionRecord{
			AgentID:      int64(a.ID),
			Tick:         tick,
			ResourceKind: string(kind),
			State:        string(a.State),
		})
	}
}

// nurseRoute walks the room approach and ends on a jittered point inside the room.
func (sim *Simulator) nurseRoute(room *Resource) []Point {
	jitter := sim.config.Movement.RoomJitter
	rng := sim.rng.ForSubsystem(SubsystemPlacement)
	spot := Point{
		X: room.Anchor.X + (rng.Float64()*2-1)*jitter,
		Y: room.Anchor.Y + (rng.Float64()*2-1)*jitter,
	}
	path := make([]Point, 0, len(room.Approach)+1)
	path = append(path, room.Approach...)
	return append(path, spot)
}

// hepatologistRoute leaves the current nurse room and walks to the hepatologist anchor.
func (sim *Simulator) hepatologistRoute(a *Agent) []Point {
	hep := sim.topology.Hepatologist
	path := make([]Point, 0, len(hep.Approach)+2)
	if from := sim.topology.Resource(a.AssignedResource); from != nil {
		path = append(path, from.Door)
	}
	path = append(path, hep.Approach...)
	return append(path, hep.Anchor)
}
