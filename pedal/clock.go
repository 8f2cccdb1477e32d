package pedal

import "time"

const TICKS_PER_LOOP = 60

type LoopTiming struct {
	Length   time.Duration
	Progress time.Duration
	Running  bool
}

/*
LoopClock measures the first recorded pass and then cycles a progress value
over that length, TICKS_PER_LOOP ticks per loop.

Progress is derived from a step counter rather than accumulated, so the last
tick of a loop lands exactly on Length and wraps to 0.
*/
type LoopClock struct {
	length    time.Duration
	step      int
	running   bool
	measuring bool
	startedAt time.Time
}

func (c *LoopClock) StartMeasure(now time.Time) {
	c.Reset()
	c.measuring = true
	c.startedAt = now
}

// EndMeasure fixes the loop length. A zero length never starts ticking.
func (c *LoopClock) EndMeasure(now time.Time) {
	if c.measuring {
		c.length = now.Sub(c.startedAt)
		if c.length < 0 {
			c.length = 0
		}
	}
	c.measuring = false
	c.step = 0
	c.running = c.length > 0
}

func (c *LoopClock) Measuring() bool {
	return c.measuring
}

func (c *LoopClock) Period() time.Duration {
	if !c.running {
		return 0
	}
	return c.length / TICKS_PER_LOOP
}

func (c *LoopClock) Tick() bool {
	if !c.running {
		return false
	}
	c.step++
	if c.progress() >= c.length {
		c.step = 0
	}
	return true
}

func (c *LoopClock) Suspend() {
	c.running = false
}

func (c *LoopClock) Restart() {
	c.step = 0
	c.running = c.length > 0
}

func (c *LoopClock) Reset() {
	*c = LoopClock{}
}

func (c *LoopClock) progress() time.Duration {
	return c.length * time.Duration(c.step) / TICKS_PER_LOOP
}

func (c *LoopClock) Timing() LoopTiming {
	return LoopTiming{
		Length:   c.length,
		Progress: c.progress(),
		Running:  c.running,
	}
}
