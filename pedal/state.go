package pedal

import (
	"fmt"
	"time"

	. "github.com/JeanRibes/midi-pedal/shared"
)

type TransportState int

const (
	Idle TransportState = iota
	Recording
	Overdubbing
	Playing
	Stopped
	Clearing
)

func (s TransportState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Overdubbing:
		return "overdubbing"
	case Playing:
		return "playing"
	case Stopped:
		return "stopped"
	case Clearing:
		return "clearing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Mode int

const (
	RecordSelect Mode = iota
	PlayMute
	// Auto is only a request for ToggleMode: it flips the current mode.
	Auto
)

func (m Mode) String() string {
	switch m {
	case RecordSelect:
		return "record"
	case PlayMute:
		return "play"
	case Auto:
		return "auto"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

type Track struct {
	Muted bool
}

type Snapshot struct {
	State    TransportState
	Mode     Mode
	Selected int
	Tracks   [NUM_TRACKS]Track
	Loop     LoopTiming
}

/*
Controller is the single source of truth of the pedal. It is not safe for
concurrent use: Run owns it and every input reaches it through one channel.

Every command returns whether it changed anything. Commands that make no
sense in the current state are ignored, never errors.
*/
type Controller struct {
	state    TransportState
	mode     Mode
	selected int
	tracks   [NUM_TRACKS]Track

	clock LoopClock
	press PressTimer
	holds [NUM_TRACKS]time.Time

	now func() time.Time
}

func NewController(debounce time.Duration) *Controller {
	c := &Controller{now: time.Now}
	c.press.MinInterval = debounce
	return c
}

func (c *Controller) State() TransportState {
	return c.state
}

func (c *Controller) Mode() Mode {
	return c.mode
}

func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		State:    c.state,
		Mode:     c.mode,
		Selected: c.selected,
		Tracks:   c.tracks,
		Loop:     c.clock.Timing(),
	}
}

// Advance is the record/play press, gated by the press timer.
func (c *Controller) Advance() bool {
	return c.AdvanceAt(c.now())
}

// AdvanceAt is Advance for a press that arrived at at, which may be earlier
// than now when presses queued up. A zero at means now.
func (c *Controller) AdvanceAt(at time.Time) bool {
	if at.IsZero() {
		at = c.now()
	}
	if !c.press.Guard(at) {
		return false
	}
	return c.advance(at)
}

func (c *Controller) advance(at time.Time) bool {
	switch c.state {
	case Idle:
		c.state = Recording
		c.clock.StartMeasure(at)
	case Recording:
		c.state = Overdubbing
		c.clock.EndMeasure(at)
	case Overdubbing:
		c.state = Playing
	case Playing:
		c.state = Overdubbing
	case Stopped:
		c.state = Playing
		c.clock.Restart()
	default:
		return false
	}
	return true
}

func (c *Controller) Stop() bool {
	if c.state == Idle {
		return false
	}
	if c.state == Recording {
		// leaving Recording fixes the loop length, whichever way it is left
		c.clock.EndMeasure(c.now())
	}
	c.state = Stopped
	c.clock.Suspend()
	return true
}

func (c *Controller) ToggleMode(request Mode) bool {
	previous := c.mode
	switch request {
	case Auto:
		if c.mode == RecordSelect {
			c.mode = PlayMute
		} else {
			c.mode = RecordSelect
		}
	case RecordSelect, PlayMute:
		c.mode = request
	default:
		return false
	}
	return c.mode != previous
}

func (c *Controller) SelectTrack(track int) bool {
	if c.mode != RecordSelect || !validTrack(track) {
		return false
	}
	c.selected = track
	return true
}

func (c *Controller) ToggleMute(track int) bool {
	if c.mode != PlayMute || !validTrack(track) {
		return false
	}
	c.tracks[track].Muted = !c.tracks[track].Muted
	return true
}

// Clear resets everything but the debounce state. Clearing is only ever set
// inside this call.
func (c *Controller) Clear() bool {
	c.state = Clearing
	c.Stop()
	c.clock.Reset()
	c.selected = 0
	c.mode = RecordSelect
	for i := range c.tracks {
		c.tracks[i].Muted = false
	}
	c.holds = [NUM_TRACKS]time.Time{}
	c.state = Idle
	return true
}

func (c *Controller) Tick() bool {
	return c.clock.Tick()
}

// TickPeriod is the interval at which Tick must be called, 0 when the loop
// clock is not running.
func (c *Controller) TickPeriod() time.Duration {
	return c.clock.Period()
}

// PressTrack is a UI track button: select in record mode, mute in play mode.
// It returns the action that was applied.
func (c *Controller) PressTrack(track int) (Action, bool) {
	if !validTrack(track) {
		return Action{}, false
	}
	c.holds[track] = c.now()
	if c.mode == RecordSelect {
		return Action{Command: SelectCmd, Track: track}, c.SelectTrack(track)
	}
	return Action{Command: MuteCmd, Track: track}, c.ToggleMute(track)
}

// ReleaseTrack returns how long the track button was held, 0 if it was not
// pressed.
func (c *Controller) ReleaseTrack(track int) time.Duration {
	if !validTrack(track) || c.holds[track].IsZero() {
		return 0
	}
	held := c.now().Sub(c.holds[track])
	c.holds[track] = time.Time{}
	return held
}

func (c *Controller) Apply(a Action) bool {
	switch a.Command {
	case ClearCmd:
		return c.Clear()
	case ModeCmd:
		return c.ToggleMode(Auto)
	case AdvanceCmd:
		return c.Advance()
	case StopCmd:
		return c.Stop()
	case SelectCmd:
		return c.SelectTrack(a.Track)
	case MuteCmd:
		return c.ToggleMute(a.Track)
	}
	return false
}

func validTrack(track int) bool {
	return track >= 0 && track < NUM_TRACKS
}
