package shared

import (
	"fmt"
	"time"
)

type Event int

const (
	Quit Event = iota
	Advance
	Stop
	ToggleMode
	Clear
	TrackPress
	TrackRelease
	SelectTrack
	ToggleMute
	RestartMIDI
	ExportSession
)

func (e Event) String() string {
	switch e {
	case Quit:
		return "quit"
	case Advance:
		return "advance"
	case Stop:
		return "stop"
	case ToggleMode:
		return "mode"
	case Clear:
		return "clear"
	case TrackPress:
		return "track-press"
	case TrackRelease:
		return "track-release"
	case SelectTrack:
		return "select"
	case ToggleMute:
		return "mute"
	case RestartMIDI:
		return "restart-midi"
	case ExportSession:
		return "export"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// Source tells where a Message came from. Feedback is not echoed back to the
// pedal for commands the pedal sent itself.
type Source int

const (
	FromUI Source = iota
	FromMIDI
)

type Message struct {
	Type    Event
	Source  Source
	Number  int
	Boolean bool
	String  string
	Number2 int
	At      time.Time
}

const NUM_TRACKS = 4

func TrackName(track int) string {
	return fmt.Sprintf("piste %d", track+1)
}
