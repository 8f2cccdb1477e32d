package pedal

import (
	"testing"
	"time"
)

func TestLoopClockMeasure(t *testing.T) {
	start := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	var c LoopClock
	c.StartMeasure(start)
	if c.Period() != 0 {
		t.Fatalf("ticking while measuring: period %v", c.Period())
	}
	c.EndMeasure(start.Add(3 * time.Second))
	timing := c.Timing()
	if timing.Length != 3*time.Second || timing.Progress != 0 || !timing.Running {
		t.Fatalf("after measure: %+v", timing)
	}
	if c.Period() != 50*time.Millisecond {
		t.Errorf("period = %v, want 50ms", c.Period())
	}
}

func TestLoopClockWraps(t *testing.T) {
	start := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	length := 2 * time.Second
	var c LoopClock
	c.StartMeasure(start)
	c.EndMeasure(start.Add(length))

	step := length / TICKS_PER_LOOP
	for i := 1; i < TICKS_PER_LOOP; i++ {
		c.Tick()
		p := c.Timing().Progress
		if p >= length || p < 0 {
			t.Fatalf("tick %d: progress %v out of [0, %v)", i, p, length)
		}
		if diff := p - time.Duration(i)*step; diff < -time.Microsecond || diff > time.Microsecond {
			t.Fatalf("tick %d: progress %v, want about %v", i, p, time.Duration(i)*step)
		}
	}
	c.Tick()
	if p := c.Timing().Progress; p != 0 {
		t.Errorf("after %d ticks progress = %v, want 0", TICKS_PER_LOOP, p)
	}
	c.Tick()
	if p := c.Timing().Progress; p != length/TICKS_PER_LOOP {
		t.Errorf("second loop first tick = %v", p)
	}
}

func TestLoopClockSuspendRestart(t *testing.T) {
	start := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	var c LoopClock
	c.StartMeasure(start)
	c.EndMeasure(start.Add(time.Second))
	for i := 0; i < 10; i++ {
		c.Tick()
	}
	frozen := c.Timing().Progress
	c.Suspend()
	c.Suspend()
	if c.Tick() {
		t.Error("ticked while suspended")
	}
	if c.Timing().Progress != frozen {
		t.Errorf("progress moved while suspended: %v -> %v", frozen, c.Timing().Progress)
	}
	c.Restart()
	if c.Timing().Progress != 0 || !c.Timing().Running {
		t.Errorf("after Restart: %+v", c.Timing())
	}
}

func TestLoopClockZeroLength(t *testing.T) {
	now := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	var c LoopClock
	c.StartMeasure(now)
	c.EndMeasure(now)
	if c.Timing().Running || c.Period() != 0 {
		t.Fatalf("zero loop is ticking: %+v", c.Timing())
	}
	if c.Tick() {
		t.Error("zero loop ticked")
	}
	c.Restart()
	if c.Timing().Running {
		t.Error("zero loop restarted")
	}
}

func TestLoopClockReset(t *testing.T) {
	now := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	var c LoopClock
	c.StartMeasure(now)
	c.EndMeasure(now.Add(time.Second))
	c.Tick()
	c.Reset()
	if c.Timing() != (LoopTiming{}) || c.Measuring() {
		t.Errorf("after Reset: %+v", c.Timing())
	}
}
