package sim

import "math"

// move walks the agent toward the front of its path by at most speed units.
// When the remaining distance is within reach the agent lands exactly on the
// waypoint and pops it; the unused part of the step is discarded.
func move(a *Agent, speed float64) {
	if len(a.Path) == 0 {
		return
	}
	target := a.Path[0]
	dx := target.X - a.Position.X
	dy := target.Y - a.Position.Y
	dist := math.Hypot(dx, dy)

	if dx > 0 {
		a.Facing = FacingEast
	} else if dx < 0 {
		a.Facing = FacingWest
	}

	if dist <= speed {
		a.Position = target
		a.Path = a.Path[1:]
		if len(a.Path) == 0 {
			a.Path = nil
		}
		return
	}
	a.Position.X += dx / dist * speed
	a.Position.Y += dy / dist * speed
}
