// Package trace provides state-transition and contention recording for clinic runs.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// TransitionRecord captures one agent state change.
type TransitionRecord struct {
	AgentID  int64  `json:"agent_id"`
	Tick     int64  `json:"tick"`
	From     string `json:"from"`
	To       string `json:"to"`
	Resource string `json:"resource,omitempty"` // resource assigned after the transition
}

// ContentionRecord captures one failed resource acquisition that re-armed a retry timer.
type ContentionRecord struct {
	AgentID      int64  `json:"agent_id"`
	Tick         int64  `json:"tick"`
	ResourceKind string `json:"resource_kind"`
	State        string `json:"state"` // state the agent stayed in
}
