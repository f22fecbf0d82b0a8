package sim

// monitoringSlot returns the grid position for the count-th monitoring patient.
// The grid has no row limit.
func monitoringSlot(origin Point, count, columns int, pitch float64) Point {
	if columns <= 0 {
		columns = 1
	}
	row := count / columns
	col := count % columns
	return Point{
		X: origin.X + float64(col)*pitch,
		Y: origin.Y + float64(row)*pitch,
	}
}

// monitoringRoute builds the path from the agent's current room to its
// monitoring slot. Patients leaving the north room take the north corridor.
func (sim *Simulator) monitoringRoute(a *Agent) []Point {
	count := 0
	for _, other := range sim.Agents {
		if other.State == StateToMonitoring || other.State == StateAtMonitoring {
			count++
		}
	}
	t := sim.topology
	slot := monitoringSlot(t.Monitoring.Anchor, count, sim.config.Monitoring.Columns, sim.config.Monitoring.Pitch)

	corridor := t.SouthCorridor
	if a.AssignedResource != "" && a.AssignedResource == t.NorthRoom {
		corridor = t.NorthCorridor
	}

	path := make([]Point, 0, len(corridor)+2)
	if from := t.Resource(a.AssignedResource); from != nil {
		path = append(path, from.Door)
	}
	path = append(path, corridor...)
	return append(path, slot)
}
