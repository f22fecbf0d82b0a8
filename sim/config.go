package sim

// TopologyConfig groups the clinic layout parameters.
type TopologyConfig struct {
	NurseRooms   int          // number of capacity-1 nurse stations
	NurseRoomIDs []ResourceID // explicit IDs (optional; generated when empty)
	NorthRoom    ResourceID   // nurse room routed via the north corridor ("" = first room)
}

// TimingConfig groups clock and timer parameters. Timer lengths are in ticks.
type TimingConfig struct {
	TickDurationMs float64 // real milliseconds per tick
	MinutesPerTick float64 // simulated minutes per tick
	SessionMinutes float64 // session window; 0 = uncapped
	WaitingTicks   int64   // time spent seated in the waiting room before the first nurse attempt
	TreatmentTicks int64   // nurse and hepatologist consultation length
	RetryTicks     int64   // re-armed timer after losing a resource to contention
}

// CategoryWeight is one entry of the origin category distribution.
type CategoryWeight struct {
	Category string
	Weight   float64
}

// SpawnConfig groups arrival generation parameters.
type SpawnConfig struct {
	EveryTicks int64            // spawn cadence; 0 disables scheduled spawning
	Categories []CategoryWeight // origin categories, statistics only
}

// CareConfig groups clinical pathway parameters.
type CareConfig struct {
	EscalationProbability float64 // chance a nurse consult escalates to the hepatologist
}

// MovementConfig groups walking parameters.
type MovementConfig struct {
	Speed      float64 // floor-plan units per tick
	RoomJitter float64 // max offset of the standing point from a nurse room anchor
}

// MonitoringConfig groups the monitoring grid parameters.
type MonitoringConfig struct {
	Columns int     // slots per grid row
	Pitch   float64 // distance between adjacent slots
}

// CostConfig groups staffing costs per simulated hour, used by comparisons.
type CostConfig struct {
	NursePerHour        float64
	HepatologistPerHour float64
	FixedPerHour        float64 // e.g. AI triage tooling
}

// SimConfig is the complete configuration of one simulator instance.
type SimConfig struct {
	Seed       int64
	Topology   TopologyConfig
	Timing     TimingConfig
	Spawn      SpawnConfig
	Care       CareConfig
	Movement   MovementConfig
	Monitoring MonitoringConfig
	Cost       CostConfig
	TraceLevel string // "none" or "transitions"
}

// Defaults for a 9-hour clinic session at 60 ticks per second of wall time.
const (
	DefaultTickDurationMs        = 1000.0 / 60.0
	DefaultMinutesPerTick        = 0.1
	DefaultSessionMinutes        = 9 * 60.0
	DefaultWaitingTicks          = 120
	DefaultTreatmentTicks        = 300
	DefaultRetryTicks            = 30
	DefaultSpawnEveryTicks       = 180
	DefaultEscalationProbability = 1.0 / 9.0
	DefaultSpeed                 = 2.0
	DefaultRoomJitter            = 12.0
	DefaultMonitoringColumns     = 4
	DefaultMonitoringPitch       = 30.0
)

// DefaultCategories is the origin category distribution used when none is configured.
func DefaultCategories() []CategoryWeight {
	return []CategoryWeight{
		{Category: "gp_referral", Weight: 0.5},
		{Category: "ai_flagged", Weight: 0.3},
		{Category: "self_referral", Weight: 0.2},
	}
}

// NewTopologyConfig creates a TopologyConfig with generated room IDs.
func NewTopologyConfig(nurseRooms int) TopologyConfig {
	return TopologyConfig{NurseRooms: nurseRooms}
}

// NewTimingConfig creates a TimingConfig.
func NewTimingConfig(tickDurationMs, minutesPerTick, sessionMinutes float64, waitingTicks, treatmentTicks, retryTicks int64) TimingConfig {
	return TimingConfig{
		TickDurationMs: tickDurationMs,
		MinutesPerTick: minutesPerTick,
		SessionMinutes: sessionMinutes,
		WaitingTicks:   waitingTicks,
		TreatmentTicks: treatmentTicks,
		RetryTicks:     retryTicks,
	}
}

// NewSpawnConfig creates a SpawnConfig.
func NewSpawnConfig(everyTicks int64, categories []CategoryWeight) SpawnConfig {
	return SpawnConfig{EveryTicks: everyTicks, Categories: categories}
}

// DefaultSimConfig returns the standard clinic configuration with the given nurse rooms.
func DefaultSimConfig(nurseRooms int) SimConfig {
	return SimConfig{
		Seed:     42,
		Topology: NewTopologyConfig(nurseRooms),
		Timing: NewTimingConfig(DefaultTickDurationMs, DefaultMinutesPerTick, DefaultSessionMinutes,
			DefaultWaitingTicks, DefaultTreatmentTicks, DefaultRetryTicks),
		Spawn:      NewSpawnConfig(DefaultSpawnEveryTicks, DefaultCategories()),
		Care:       CareConfig{EscalationProbability: DefaultEscalationProbability},
		Movement:   MovementConfig{Speed: DefaultSpeed, RoomJitter: DefaultRoomJitter},
		Monitoring: MonitoringConfig{Columns: DefaultMonitoringColumns, Pitch: DefaultMonitoringPitch},
		Cost:       CostConfig{NursePerHour: 45, HepatologistPerHour: 160},
		TraceLevel: "none",
	}
}
