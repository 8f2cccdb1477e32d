package pedal

import "time"

const DEFAULT_DEBOUNCE = 500 * time.Millisecond

// PressTimer collapses the bounces of a single press into one: after an
// accepted press, further presses are refused until MinInterval has elapsed.
type PressTimer struct {
	MinInterval time.Duration
	started     time.Time
	running     bool
}

func (p *PressTimer) Guard(now time.Time) bool {
	if p.running && now.Sub(p.started) < p.MinInterval {
		return false
	}
	p.started = now
	p.running = true
	return true
}

func (p *PressTimer) Reset() {
	p.running = false
	p.started = time.Time{}
}

func (p *PressTimer) Running() bool {
	return p.running
}
