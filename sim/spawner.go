package sim

import (
	"math/rand"

	"github.com/sirupsen/logrus"
)

// UnclassifiedCategory is assigned when no category weights are configured.
const UnclassifiedCategory = "unclassified"

// shouldSpawn reports whether the scheduler creates a patient on this tick.
func (sim *Simulator) shouldSpawn(tick int64) bool {
	every := sim.config.Spawn.EveryTicks
	return every > 0 && tick%every == 0 && !sim.clock.IsSessionOver()
}

// spawn creates a patient at the clinic entry heading for the waiting room.
func (sim *Simulator) spawn(category string) *Agent {
	sim.nextAgentID++
	a := &Agent{
		ID:         sim.nextAgentID,
		Position:   sim.topology.Entry,
		Path:       []Point{sim.topology.Waiting.Anchor},
		State:      StateEntering,
		Category:   category,
		Facing:     FacingEast,
		SpawnTick:  sim.clock.Ticks(),
		StateSince: sim.clock.Ticks(),
	}
	sim.Agents = append(sim.Agents, a)
	sim.Stats.recordSpawn(category)
	logrus.Debugf("[tick %07d] spawned patient %d (%s)", sim.clock.Ticks(), a.ID, category)
	return a
}

// drawCategory samples an origin category from the weighted distribution.
func drawCategory(rng *rand.Rand, categories []CategoryWeight) string {
	total := 0.0
	for _, c := range categories {
		if c.Weight > 0 {
			total += c.Weight
		}
	}
	if total <= 0 {
		return UnclassifiedCategory
	}
	r := rng.Float64() * total
	for _, c := range categories {
		if c.Weight <= 0 {
			continue
		}
		if r < c.Weight {
			return c.Category
		}
		r -= c.Weight
	}
	// Floating point remainder lands on the last positive-weight category.
	for i := len(categories) - 1; i >= 0; i-- {
		if categories[i].Weight > 0 {
			return categories[i].Category
		}
	}
	return UnclassifiedCategory
}
