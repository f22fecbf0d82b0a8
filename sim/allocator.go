package sim

// isFree reports whether no agent other than candidate holds the resource.
// Occupancy is derived from agent state on every call; there is no counter
// that could drift from the agents themselves.
func isFree(agents []*Agent, res *Resource, candidate *Agent) bool {
	if res.Capacity == 0 {
		return true
	}
	held := 0
	for _, other := range agents {
		if other == candidate {
			continue
		}
		if other.AssignedResource == res.ID && other.State.occupies(res.Kind) {
			held++
			if held >= res.Capacity {
				return false
			}
		}
	}
	return true
}

// tryAcquire answers whether candidate may take res now. It never mutates
// agent state; the caller assigns the resource as part of its transition.
func (sim *Simulator) tryAcquire(res *Resource, candidate *Agent) bool {
	return isFree(sim.Agents, res, candidate)
}

// firstFreeNurseRoom returns the lowest-ID nurse room that candidate may take,
// or nil when every room is held.
func (sim *Simulator) firstFreeNurseRoom(candidate *Agent) *Resource {
	for i := range sim.topology.NurseRooms {
		room := &sim.topology.NurseRooms[i]
		if sim.tryAcquire(room, candidate) {
			return room
		}
	}
	return nil
}
