// Tracks clinic-wide throughput counters for live display and comparison.

package sim

import (
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"
)

// Statistics aggregates current occupancy and cumulative throughput.
// Cumulative counters only ever grow; they return to zero on Reset.
type Statistics struct {
	// Current counters, recomputed at the end of each tick.
	Active       int `json:"active"`
	Waiting      int `json:"waiting"`
	Walking      int `json:"walking"`
	AtNurse      int `json:"at_nurse"`
	AtDoc        int `json:"at_doc"`
	InMonitoring int `json:"in_monitoring"`

	// Cumulative counters.
	Spawned            int64            `json:"spawned"`
	ByCategory         map[string]int64 `json:"by_category"`
	NurseVisits        int64            `json:"nurse_visits"`
	HepatologistCases  int64            `json:"hepatologist_cases"`
	Treated            int64            `json:"treated"`
	MonitoringArrivals int64            `json:"monitoring_arrivals"`
	ContentionRetries  int64            `json:"contention_retries"`
	Pruned             int64            `json:"pruned"`

	// Derived metrics.
	Ticks                   int64   `json:"ticks"`
	SimulatedMinutes        float64 `json:"simulated_minutes"`
	ArrivalsPerHour         float64 `json:"arrivals_per_hour"`
	MonitoringPerHour       float64 `json:"monitoring_per_hour"`
	MeanMinutesToMonitoring float64 `json:"mean_minutes_to_monitoring"`

	ticksToMonitoring int64 // sum over monitoring arrivals of (arrival tick - spawn tick)
}

// NewStatistics returns zeroed statistics.
func NewStatistics() *Statistics {
	return &Statistics{ByCategory: make(map[string]int64)}
}

func (st *Statistics) recordSpawn(category string) {
	st.Spawned++
	st.ByCategory[category]++
}

func (st *Statistics) recordMonitoringArrival(a *Agent, tick int64) {
	st.MonitoringArrivals++
	st.ticksToMonitoring += tick - a.SpawnTick
}

// refresh recomputes current counters and derived metrics from the agent set.
func (st *Statistics) refresh(agents []*Agent, clock *VirtualClock) {
	st.Active = len(agents)
	st.Waiting, st.Walking, st.AtNurse, st.AtDoc, st.InMonitoring = 0, 0, 0, 0, 0
	for _, a := range agents {
		switch a.State {
		case StateWaiting:
			st.Waiting++
		case StateAtNurse:
			st.AtNurse++
		case StateAtDoc:
			st.AtDoc++
		case StateAtMonitoring:
			st.InMonitoring++
		}
		if a.State.walking() {
			st.Walking++
		}
	}

	st.Ticks = clock.Ticks()
	st.SimulatedMinutes = clock.Minutes()
	if hours := st.SimulatedMinutes / 60; hours > 0 {
		st.ArrivalsPerHour = float64(st.Spawned) / hours
		st.MonitoringPerHour = float64(st.MonitoringArrivals) / hours
	}
	if st.MonitoringArrivals > 0 {
		st.MeanMinutesToMonitoring = float64(st.ticksToMonitoring) / float64(st.MonitoringArrivals) * clock.MinutesPerTick
	}
}

// Clone returns a deep copy safe to hand to other goroutines.
func (st *Statistics) Clone() Statistics {
	c := *st
	c.ByCategory = make(map[string]int64, len(st.ByCategory))
	for k, v := range st.ByCategory {
		c.ByCategory[k] = v
	}
	return c
}

// Print writes a human-readable summary of the statistics.
func (st *Statistics) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Clinic Metrics ===")
	fmt.Fprintf(w, "Simulated Time       : %.1f min (%s ticks)\n", st.SimulatedMinutes, humanize.Comma(st.Ticks))
	fmt.Fprintf(w, "Patients Spawned     : %s\n", humanize.Comma(st.Spawned))
	categories := make([]string, 0, len(st.ByCategory))
	for c := range st.ByCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		fmt.Fprintf(w, "  %-18s : %s\n", c, humanize.Comma(st.ByCategory[c]))
	}
	fmt.Fprintf(w, "Nurse Visits         : %s\n", humanize.Comma(st.NurseVisits))
	fmt.Fprintf(w, "Hepatologist Cases   : %s\n", humanize.Comma(st.HepatologistCases))
	fmt.Fprintf(w, "Treated (nurse only) : %s\n", humanize.Comma(st.Treated))
	fmt.Fprintf(w, "Monitoring Arrivals  : %s\n", humanize.Comma(st.MonitoringArrivals))
	fmt.Fprintf(w, "Contention Retries   : %s\n", humanize.Comma(st.ContentionRetries))
	fmt.Fprintf(w, "Pruned at Close      : %s\n", humanize.Comma(st.Pruned))
	if st.SimulatedMinutes > 0 {
		fmt.Fprintf(w, "Arrivals / hour      : %s\n", humanize.FormatFloat("#,###.##", st.ArrivalsPerHour))
		fmt.Fprintf(w, "Monitoring / hour    : %s\n", humanize.FormatFloat("#,###.##", st.MonitoringPerHour))
	}
	if st.MonitoringArrivals > 0 {
		fmt.Fprintf(w, "Mean Time to Monitor : %.1f min\n", st.MeanMinutesToMonitoring)
	}
}
