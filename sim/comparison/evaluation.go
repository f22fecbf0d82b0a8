package comparison

import (
	"time"

	"github.com/safal938/iso-clinic-v2-sub000/sim/trace"
)

// EvaluationResult bundles all outputs from a comparative run for reporting
// and for the results ledger.
type EvaluationResult struct {
	Comparison Comparison
	Traces     map[ArmID]*trace.SimulationTrace // nil entries when tracing is off
	Summaries  map[ArmID]*trace.TraceSummary

	WallTime time.Duration // wall-clock duration of the run
}

// Evaluate runs both arms to the end of their sessions and collects results.
func Evaluate(r *ComparativeRun, maxTicks int64) *EvaluationResult {
	start := time.Now()
	r.RunSession(maxTicks)

	res := &EvaluationResult{
		Comparison: r.Compare(),
		Traces:     make(map[ArmID]*trace.SimulationTrace),
		Summaries:  make(map[ArmID]*trace.TraceSummary),
		WallTime:   time.Since(start),
	}
	for _, a := range r.Arms() {
		tr := a.Simulator().Trace
		if tr != nil {
			tr.Config.Label = string(a.ID())
			res.Traces[a.ID()] = tr
			res.Summaries[a.ID()] = trace.Summarize(tr)
		}
	}
	return res
}
