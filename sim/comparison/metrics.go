package comparison

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/dustin/go-humanize"
)

// Distribution captures statistical summary of a metric.
type Distribution struct {
	Mean  float64 `json:"mean"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// NewDistribution computes a Distribution from raw values.
// Returns zero-value Distribution for empty input.
func NewDistribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}

	return Distribution{
		Mean:  sum / float64(len(sorted)),
		P50:   percentile(sorted, 50),
		P95:   percentile(sorted, 95),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		Count: len(sorted),
	}
}

// percentile computes the p-th percentile using linear interpolation.
// Input must be sorted.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100.0 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// ArmMetrics is the end-of-run summary of one arm.
type ArmMetrics struct {
	Arm                 ArmID        `json:"arm"`
	NurseRooms          int          `json:"nurse_rooms"`
	Spawned             int64        `json:"spawned"`
	MonitoringArrivals  int64        `json:"monitoring_arrivals"`
	HepatologistCases   int64        `json:"hepatologist_cases"`
	ContentionRetries   int64        `json:"contention_retries"`
	Pruned              int64        `json:"pruned"`
	MonitoringPerHour   float64      `json:"monitoring_per_hour"`
	StaffingCost        float64      `json:"staffing_cost"`
	CostPerTreated      float64      `json:"cost_per_treated"` // 0 when nobody reached monitoring
	MinutesToMonitoring Distribution `json:"minutes_to_monitoring"`
}

// NewArmMetrics summarizes an arm's current state.
func NewArmMetrics(a *ArmSimulator) ArmMetrics {
	st := a.Stats()
	m := ArmMetrics{
		Arm:                 a.ID(),
		NurseRooms:          len(a.Simulator().Topology().NurseRooms),
		Spawned:             st.Spawned,
		MonitoringArrivals:  st.MonitoringArrivals,
		HepatologistCases:   st.HepatologistCases,
		ContentionRetries:   st.ContentionRetries,
		Pruned:              st.Pruned,
		MonitoringPerHour:   st.MonitoringPerHour,
		StaffingCost:        a.StaffingCost(),
		MinutesToMonitoring: NewDistribution(a.minutesToMonitoring()),
	}
	if m.MonitoringArrivals > 0 {
		m.CostPerTreated = m.StaffingCost / float64(m.MonitoringArrivals)
	}
	return m
}

// Comparison is the diff of a candidate arm against a baseline arm.
type Comparison struct {
	Baseline  ArmMetrics `json:"baseline"`
	Candidate ArmMetrics `json:"candidate"`
	Ticks     int64      `json:"ticks"`
	Minutes   float64    `json:"minutes"`

	// ProductivityLift is candidate over baseline monitoring arrivals.
	// Zero with LiftDefined false when the baseline treated nobody.
	ProductivityLift float64 `json:"productivity_lift"`
	LiftDefined      bool    `json:"lift_defined"`
	ArrivalsDelta    int64   `json:"arrivals_delta"`
	CostDelta        float64 `json:"cost_delta"`
}

// NewComparison diffs candidate against baseline.
func NewComparison(baseline, candidate ArmMetrics, ticks int64, minutes float64) Comparison {
	c := Comparison{
		Baseline:      baseline,
		Candidate:     candidate,
		Ticks:         ticks,
		Minutes:       minutes,
		ArrivalsDelta: candidate.MonitoringArrivals - baseline.MonitoringArrivals,
		CostDelta:     candidate.StaffingCost - baseline.StaffingCost,
	}
	if baseline.MonitoringArrivals > 0 {
		c.ProductivityLift = float64(candidate.MonitoringArrivals) / float64(baseline.MonitoringArrivals)
		c.LiftDefined = true
	}
	return c
}

// Print writes a side-by-side report of the comparison.
func (c Comparison) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Clinic Comparison ===")
	fmt.Fprintf(w, "Simulated Time       : %.1f min (%s ticks)\n", c.Minutes, humanize.Comma(c.Ticks))
	fmt.Fprintf(w, "%-22s %16s %16s\n", "", c.Baseline.Arm, c.Candidate.Arm)
	row := func(name string, b, k string) {
		fmt.Fprintf(w, "%-22s %16s %16s\n", name, b, k)
	}
	row("Nurse rooms", fmt.Sprint(c.Baseline.NurseRooms), fmt.Sprint(c.Candidate.NurseRooms))
	row("Patients spawned", humanize.Comma(c.Baseline.Spawned), humanize.Comma(c.Candidate.Spawned))
	row("Monitoring arrivals", humanize.Comma(c.Baseline.MonitoringArrivals), humanize.Comma(c.Candidate.MonitoringArrivals))
	row("Hepatologist cases", humanize.Comma(c.Baseline.HepatologistCases), humanize.Comma(c.Candidate.HepatologistCases))
	row("Contention retries", humanize.Comma(c.Baseline.ContentionRetries), humanize.Comma(c.Candidate.ContentionRetries))
	row("Pruned at close", humanize.Comma(c.Baseline.Pruned), humanize.Comma(c.Candidate.Pruned))
	row("Staffing cost", humanize.FormatFloat("#,###.##", c.Baseline.StaffingCost), humanize.FormatFloat("#,###.##", c.Candidate.StaffingCost))
	row("Cost per treated", humanize.FormatFloat("#,###.##", c.Baseline.CostPerTreated), humanize.FormatFloat("#,###.##", c.Candidate.CostPerTreated))
	row("Minutes to monitor p50", fmt.Sprintf("%.1f", c.Baseline.MinutesToMonitoring.P50), fmt.Sprintf("%.1f", c.Candidate.MinutesToMonitoring.P50))
	if c.LiftDefined {
		fmt.Fprintf(w, "Productivity lift    : %.2fx\n", c.ProductivityLift)
	} else {
		fmt.Fprintln(w, "Productivity lift    : undefined (baseline treated nobody)")
	}
}
