package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalTransitions   int
	TransitionCounts   map[string]int // "from->to" → count
	TotalContentions   int
	ContentionsByKind  map[string]int // resource kind → count
	UniqueAgents       int
	MaxRetriesPerAgent int
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		TransitionCounts:  make(map[string]int),
		ContentionsByKind: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	agents := make(map[int64]bool)
	summary.TotalTransitions = len(st.Transitions)
	for _, r := range st.Transitions {
		summary.TransitionCounts[r.From+"->"+r.To]++
		agents[r.AgentID] = true
	}

	retries := make(map[int64]int)
	summary.TotalContentions = len(st.Contentions)
	for _, c := range st.Contentions {
		summary.ContentionsByKind[c.ResourceKind]++
		retries[c.AgentID]++
		agents[c.AgentID] = true
	}
	for _, n := range retries {
		if n > summary.MaxRetriesPerAgent {
			summary.MaxRetriesPerAgent = n
		}
	}

	summary.UniqueAgents = len(agents)
	return summary
}
