// Package watchdog detects catastrophic UI failure and latches a global
// panic-stop that suppresses every notification side effect until an
// explicit reset.
package watchdog

import (
	"log"
	"sync/atomic"
)

// strikeLimit is how many consecutive bad health observations trip the stop.
const strikeLimit = 3

// State is the persisted panic-stop latch. It survives restarts so a crash
// loop cannot keep re-arming notifications.
type State struct {
	tripped atomic.Bool
	persist func(bool) // nil means memory-only
}

// NewState restores the latch from its persisted value. persist is invoked
// on every change; persistence failures are the persister's problem.
func NewState(persisted bool, persist func(bool)) *State {
	s := &State{persist: persist}
	s.tripped.Store(persisted)
	return s
}

// Tripped reports whether panic-stop is active.
func (s *State) Tripped() bool {
	return s.tripped.Load()
}

// Trip latches panic-stop. Idempotent.
func (s *State) Trip(reason string) {
	if s.tripped.Swap(true) {
		return
	}
	log.Printf("watchdog: PANIC-STOP: %s", reason)
	if s.persist != nil {
		s.persist(true)
	}
}

// Reset clears the latch. This is the only way out of panic-stop and is only
// ever called from an explicit user action.
func (s *State) Reset() {
	if !s.tripped.Swap(false) {
		return
	}
	log.Println("watchdog: panic-stop reset by user")
	if s.persist != nil {
		s.persist(false)
	}
}

// Probe inspects the root presentation surface and reports whether it looks
// healthy (rendered with plausible dimensions).
type Probe func() (healthy bool, detail string)

// Watchdog counts consecutive failed probes and trips the state at the
// limit. Observe is expected to be driven periodically after a startup grace
// period; the caller owns the schedule.
type Watchdog struct {
	probe   Probe
	state   *State
	strikes int
}

func New(probe Probe, state *State) *Watchdog {
	return &Watchdog{probe: probe, state: state}
}

// Observe runs one health check. A healthy observation clears the strike
// count; strikes only accumulate consecutively.
func (w *Watchdog) Observe() {
	if w.state.Tripped() {
		return
	}
	healthy, detail := w.probe()
	if healthy {
		w.strikes = 0
		return
	}
	w.strikes++
	log.Printf("watchdog: unhealthy UI observation %d/%d: %s", w.strikes, strikeLimit, detail)
	if w.strikes >= strikeLimit {
		w.state.Trip("UI failed " + detail)
	}
}

// Strikes returns the current consecutive failure count.
func (w *Watchdog) Strikes() int { return w.strikes }

// Guard runs fn and converts a panic into a panic-stop trip instead of
// crashing the process. Use at goroutine roots.
func Guard(state *State, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			state.Trip("panic in " + name)
		}
	}()
	fn()
}
