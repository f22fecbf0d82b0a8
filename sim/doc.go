// Package sim provides the clinic patient-flow simulation engine.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - agent.go: patient lifecycle states (entering → waiting → nurse → optional
//     hepatologist → monitoring) and the wait timer
//   - transitions.go: the per-tick state machine
//   - simulator.go: the tick loop (spawn → move → transition → statistics) and
//     the session-end sweep
//
// # Architecture
//
// The engine is single-threaded and tick-stepped. Resource occupancy is never
// counted separately: allocator.go answers availability by scanning the live
// agent list, and a busy resource turns into a re-armed retry timer rather
// than a blocked goroutine.
//
// Sub-packages build on the engine:
//   - sim/comparison/: two configured clinics advanced in lockstep and diffed
//   - sim/scenario/: YAML scenario files describing comparison arms
//   - sim/trace/: state transition and contention records
//   - sim/results/: SQLite ledger of finished comparisons
package sim
