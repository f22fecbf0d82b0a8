package sim

// Controller gates a Simulator behind start, pause and reset controls.
// The external driver calls Frame once per wall-clock frame; ticks only
// run while the controller is started.
type Controller struct {
	sim     *Simulator
	running bool
}

// NewController wraps sim in a paused controller.
func NewController(sim *Simulator) *Controller {
	return &Controller{sim: sim}
}

// Simulator returns the controlled simulator.
func (c *Controller) Simulator() *Simulator {
	return c.sim
}

// Start resumes ticking on the next Frame.
func (c *Controller) Start() {
	c.running = true
}

// Pause stops ticking; elapsed time while paused is discarded.
func (c *Controller) Pause() {
	c.running = false
}

// Running reports whether frames advance the simulator.
func (c *Controller) Running() bool {
	return c.running
}

// Reset pauses the controller and reinitializes the simulator.
func (c *Controller) Reset() {
	c.running = false
	c.sim.Reset()
}

// Frame advances the simulator by elapsedRealMs when running and returns the
// number of ticks executed.
func (c *Controller) Frame(elapsedRealMs float64) int {
	if !c.running {
		return 0
	}
	return c.sim.Advance(elapsedRealMs)
}
