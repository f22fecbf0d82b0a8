package trace

// TraceLevel controls the verbosity of run tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelTransitions captures every state transition and contention retry.
	TraceLevelTransitions TraceLevel = "transitions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:        true,
	TraceLevelTransitions: true,
	"":                    true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// Enabled reports whether the level records anything.
func (l TraceLevel) Enabled() bool {
	return l == TraceLevelTransitions
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
	Label string // arm or instance label written into exports
}

// SimulationTrace collects records during a run.
type SimulationTrace struct {
	Config      TraceConfig
	Transitions []TransitionRecord
	Contentions []ContentionRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:      config,
		Transitions: make([]TransitionRecord, 0),
		Contentions: make([]ContentionRecord, 0),
	}
}

// RecordTransition appends a state transition record.
func (st *SimulationTrace) RecordTransition(record TransitionRecord) {
	st.Transitions = append(st.Transitions, record)
}

// RecordContention appends a contention record.
func (st *SimulationTrace) RecordContention(record ContentionRecord) {
	st.Contentions = append(st.Contentions, record)
}

// Clear drops all records, keeping the configuration.
func (st *SimulationTrace) Clear() {
	st.Transitions = st.Transitions[:0]
	st.Contentions = st.Contentions[:0]
}
