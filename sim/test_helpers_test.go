package sim

// newTestConfig returns a small, fast clinic: one simulated minute per tick,
// no session cap, short timers and no scheduled spawning.
func newTestConfig(nurseRooms int) SimConfig {
	cfg := DefaultSimConfig(nurseRooms)
	cfg.Timing = NewTimingConfig(10, 1, 0, 1, 1, 30)
	cfg.Spawn = NewSpawnConfig(0, DefaultCategories())
	cfg.Care.EscalationProbability = 0
	return cfg
}

// withInstantWalking makes every waypoint reachable in a single tick.
func withInstantWalking(cfg SimConfig) SimConfig {
	cfg.Movement.Speed = 1e6
	return cfg
}

// occupantsOf counts agents currently holding the resource.
func occupantsOf(agents []*Agent, res *Resource) int {
	n := 0
	for _, a := range agents {
		if a.AssignedResource == res.ID && a.State.occupies(res.Kind) {
			n++
		}
	}
	return n
}

// cumulative extracts the counters that must never decrease within a run.
func cumulative(st *Statistics) []int64 {
	return []int64{
		st.Spawned, st.NurseVisits, st.HepatologistCases, st.Treated,
		st.MonitoringArrivals, st.ContentionRetries, st.Pruned,
	}
}
