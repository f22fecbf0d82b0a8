package sim

// AgentView is the read-only view of one patient exposed to renderers.
type AgentView struct {
	ID       AgentID    `json:"id"`
	Position Point      `json:"position"`
	State    AgentState `json:"state"`
	Facing   Facing     `json:"facing"`
	Category string     `json:"category"`
	Resource ResourceID `json:"resource,omitempty"`
}

// Snapshot is a consistent copy of the simulator between ticks.
type Snapshot struct {
	Tick        int64       `json:"tick"`
	Minutes     float64     `json:"minutes"`
	SessionOver bool        `json:"session_over"`
	Agents      []AgentView `json:"agents"`
	Stats       Statistics  `json:"stats"`
}

// Snapshot copies the current agents and statistics. The result shares no
// memory with the simulator.
func (sim *Simulator) Snapshot() Snapshot {
	views := make([]AgentView, len(sim.Agents))
	for i, a := range sim.Agents {
		views[i] = AgentView{
			ID:       a.ID,
			Position: a.Position,
			State:    a.State,
			Facing:   a.Facing,
			Category: a.Category,
			Resource: a.AssignedResource,
		}
	}
	return Snapshot{
		Tick:        sim.clock.Ticks(),
		Minutes:     sim.clock.Minutes(),
		SessionOver: sim.clock.IsSessionOver(),
		Agents:      views,
		Stats:       sim.Stats.Clone(),
	}
}

// CountInState returns how many agents in the snapshot are in state s.
func (snap Snapshot) CountInState(s AgentState) int {
	n := 0
	for _, a := range snap.Agents {
		if a.State == s {
			n++
		}
	}
	return n
}
