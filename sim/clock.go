package sim

// VirtualClock converts real elapsed time into simulation ticks and simulated
// minutes. Pausing is modeled by not calling Advance.
type VirtualClock struct {
	TickDurationMs float64 // real milliseconds per tick
	MinutesPerTick float64 // simulated minutes added by each tick
	SessionMinutes float64 // session length; 0 = uncapped

	ticks     int64
	residueMs float64
}

// NewVirtualClock creates a clock at tick zero.
func NewVirtualClock(cfg TimingConfig) *VirtualClock {
	return &VirtualClock{
		TickDurationMs: cfg.TickDurationMs,
		MinutesPerTick: cfg.MinutesPerTick,
		SessionMinutes: cfg.SessionMinutes,
	}
}

// Advance accumulates deltaRealMs and returns how many whole ticks are now due.
// The sub-tick remainder carries into the next call. The caller applies the
// due ticks with Tick.
func (c *VirtualClock) Advance(deltaRealMs float64) int {
	if deltaRealMs <= 0 || c.TickDurationMs <= 0 {
		return 0
	}
	c.residueMs += deltaRealMs
	due := int(c.residueMs / c.TickDurationMs)
	c.residueMs -= float64(due) * c.TickDurationMs
	return due
}

// Tick moves the clock forward by one tick and returns the new tick number.
// Tick numbers start at 1.
func (c *VirtualClock) Tick() int64 {
	c.ticks++
	return c.ticks
}

// Ticks returns the number of ticks executed so far.
func (c *VirtualClock) Ticks() int64 {
	return c.ticks
}

// Minutes returns the simulated minutes elapsed.
func (c *VirtualClock) Minutes() float64 {
	return float64(c.ticks) * c.MinutesPerTick
}

// IsSessionOver reports whether the configured session length has been reached.
func (c *VirtualClock) IsSessionOver() bool {
	return c.SessionMinutes > 0 && c.Minutes() >= c.SessionMinutes
}

// Reset returns the clock to tick zero and drops any carried remainder.
func (c *VirtualClock) Reset() {
	c.ticks = 0
	c.residueMs = 0
}
