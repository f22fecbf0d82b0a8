// Defines the Agent struct that models a patient walking through the clinic.

package sim

import "fmt"

// AgentState is the lifecycle state of a patient.
type AgentState string

const (
	StateEntering     AgentState = "entering"
	StateWaiting      AgentState = "waiting"
	StateToNurse      AgentState = "to_nurse"
	StateAtNurse      AgentState = "at_nurse"
	StateToDoc        AgentState = "to_doc"
	StateAtDoc        AgentState = "at_doc"
	StateToMonitoring AgentState = "to_monitoring"
	StateAtMonitoring AgentState = "at_monitoring"
	StateExiting      AgentState = "exiting"
)

// occupies reports whether an agent in this state holds a resource of the given kind.
func (s AgentState) occupies(kind ResourceKind) bool {
	switch kind {
	case KindNurse:
		return s == StateToNurse || s == StateAtNurse
	case KindHepatologist:
		return s == StateToDoc || s == StateAtDoc
	case KindMonitoring:
		return s == StateToMonitoring || s == StateAtMonitoring
	}
	return false
}

// walking reports whether the state is a transit state that ends on arrival.
func (s AgentState) walking() bool {
	switch s {
	case StateEntering, StateToNurse, StateToDoc, StateToMonitoring:
		return true
	}
	return false
}

// Facing is the cosmetic horizontal orientation of an agent.
type Facing string

const (
	FacingEast Facing = "east"
	FacingWest Facing = "west"
)

// AgentID uniquely identifies a spawned patient within one run.
type AgentID int64

// Agent is a simulated patient.
type Agent struct {
	ID       AgentID
	Position Point
	Path     []Point // waypoints, consumed front to back
	State    AgentState
	// WaitTimer counts ticks down in timer-bearing states. Never negative.
	WaitTimer int64
	// AssignedResource references, but does not own, the resource the agent
	// is walking to or occupying. Empty outside resource-bound states.
	AssignedResource ResourceID
	Category         string
	Facing           Facing

	SpawnTick  int64 // tick on which the agent entered
	StateSince int64 // tick of the last state change
	// escalated remembers a drawn hepatologist referral across contention retries.
	escalated bool
}

// String returns a human-readable representation of the agent.
func (a Agent) String() string {
	return fmt.Sprintf("Agent: (ID: %d, State: %s, Resource: %q, Timer: %d, Path: %d)",
		a.ID, a.State, a.AssignedResource, a.WaitTimer, len(a.Path))
}

// countdown decrements the wait timer and reports whether it has reached zero.
func (a *Agent) countdown() bool {
	if a.WaitTimer > 0 {
		a.WaitTimer--
	}
	return a.WaitTimer == 0
}
