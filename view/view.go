// Package view maps a pedal snapshot to what the LEDs, the progress bar and
// the status line show. Nothing here knows about GTK or terminals.
package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/JeanRibes/midi-pedal/pedal"
	. "github.com/JeanRibes/midi-pedal/shared"
)

type Color string

const (
	Off    Color = ""
	Red    Color = "red"
	Orange Color = "orange"
	Green  Color = "green"
	Blue   Color = "blue"
)

// Hex is the colour used by the front-ends, Off is a dark grey.
func (c Color) Hex() string {
	switch c {
	case Red:
		return "#ff0000"
	case Orange:
		return "#ffa500"
	case Green:
		return "#00ff00"
	case Blue:
		return "#0000ff"
	default:
		return "#303030"
	}
}

var transportColors = map[pedal.TransportState]Color{
	pedal.Recording:   Red,
	pedal.Overdubbing: Orange,
	pedal.Playing:     Green,
}

var progressColors = map[pedal.TransportState]Color{
	pedal.Recording:   Red,
	pedal.Overdubbing: Orange,
	pedal.Playing:     Green,
	pedal.Stopped:     Green,
}

func TrackLEDs(s pedal.Snapshot) (leds [NUM_TRACKS]Color) {
	for i := range leds {
		switch s.Mode {
		case pedal.RecordSelect:
			if s.Selected == i {
				leds[i] = Red
			}
		case pedal.PlayMute:
			if !s.Tracks[i].Muted {
				leds[i] = Green
			}
		}
	}
	return
}

func TransportLED(s pedal.Snapshot) Color {
	return transportColors[s.State]
}

func StopLED(s pedal.Snapshot) Color {
	if s.State == pedal.Stopped {
		return Blue
	}
	return Off
}

func ProgressColor(s pedal.Snapshot) Color {
	if c, ok := progressColors[s.State]; ok {
		return c
	}
	return Red
}

// Fraction is the loop progress in [0, 1].
func Fraction(l pedal.LoopTiming) float64 {
	if l.Length <= 0 {
		return 0
	}
	f := float64(l.Progress) / float64(l.Length)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

var stateNames = map[pedal.TransportState]string{
	pedal.Idle:        "vide",
	pedal.Recording:   "enregistrement",
	pedal.Overdubbing: "overdub",
	pedal.Playing:     "lecture",
	pedal.Stopped:     "stop",
	pedal.Clearing:    "effacement",
}

var modeNames = map[pedal.Mode]string{
	pedal.RecordSelect: "enregistrement",
	pedal.PlayMute:     "lecture",
}

func Status(s pedal.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s | mode %s", stateNames[s.State], modeNames[s.Mode])
	if s.Mode == pedal.RecordSelect {
		fmt.Fprintf(&b, " | %s", TrackName(s.Selected))
	} else {
		muted := []string{}
		for i, tr := range s.Tracks {
			if tr.Muted {
				muted = append(muted, fmt.Sprint(i+1))
			}
		}
		if len(muted) > 0 {
			fmt.Fprintf(&b, " | muettes %s", strings.Join(muted, ","))
		}
	}
	if s.Loop.Length > 0 {
		fmt.Fprintf(&b, " | boucle %s", s.Loop.Length.Round(10*time.Millisecond))
	}
	return b.String()
}
