package pedal

import (
	"time"

	"gitlab.com/gomidi/midi/v2"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time {
	return f.t
}

func (f *fakeClock) advance(d time.Duration) {
	f.t = f.t.Add(d)
}

func newTestController() (*Controller, *fakeClock) {
	clk := &fakeClock{t: time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)}
	c := NewController(DEFAULT_DEBOUNCE)
	c.now = clk.now
	return c, clk
}

// advance presses record/play far enough from the previous press to pass
// the debounce.
func advance(c *Controller, clk *fakeClock) bool {
	clk.advance(DEFAULT_DEBOUNCE)
	return c.Advance()
}

type recordingSink struct {
	sent []midi.Message
	err  error
}

func (r *recordingSink) send(msg midi.Message) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}
