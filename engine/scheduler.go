package engine

import "time"

// Scheduler paces a host loop's calls into the Engine: given a step rate
// and the current time, Tick reports how many step_* calls a frame
// boundary owes, carrying fractional steps forward so a slow rate still
// advances correctly over many frames. Adapted from the reference
// terminal driver's pausable clock, reduced to just the pacing concern the
// Engine needs.
type Scheduler struct {
	stepsPerSecond float64
	paused         bool
	lastTick       time.Time
	carry          float64
}

// NewScheduler returns a Scheduler set to the given steps-per-second rate.
func NewScheduler(stepsPerSecond float64) *Scheduler {
	return &Scheduler{
		stepsPerSecond: stepsPerSecond,
		lastTick:       time.Now(),
	}
}

// SetRate changes the steps-per-second rate.
func (s *Scheduler) SetRate(stepsPerSecond float64) {
	s.stepsPerSecond = stepsPerSecond
}

// Pause stops Tick from accumulating steps until Resume.
func (s *Scheduler) Pause() {
	s.paused = true
}

// Resume restarts step accumulation from now, discarding any elapsed
// paused time.
func (s *Scheduler) Resume() {
	s.paused = false
	s.lastTick = time.Now()
}

// IsPaused reports the current pause state.
func (s *Scheduler) IsPaused() bool {
	return s.paused
}

// Tick reports how many whole step_* calls are owed since the last Tick,
// given the current time. Fractional steps carry forward so a rate below
// one step per frame still converges to the right long-run throughput.
func (s *Scheduler) Tick(now time.Time) int {
	if s.paused {
		s.lastTick = now
		return 0
	}
	elapsed := now.Sub(s.lastTick).Seconds()
	s.lastTick = now
	s.carry += elapsed * s.stepsPerSecond

	steps := int(s.carry)
	s.carry -= float64(steps)
	return steps
}
