package pedal

import (
	. "github.com/JeanRibes/midi-pedal/shared"

	charmlog "github.com/charmbracelet/log"
	"gitlab.com/gomidi/midi/v2"
)

const (
	FEEDBACK_CHANNEL  = 0 // MIDI channel 1
	FEEDBACK_VELOCITY = 127
)

// Sink is an opened MIDI output receiving LED feedback. Echo controls whether
// it also gets feedback for commands that came from MIDI input, clear aside.
type Sink struct {
	Name string
	Send func(midi.Message) error
	Echo bool
}

type Feedback struct {
	Notes    NoteMap
	Channel  uint8
	Velocity uint8
	Sinks    []Sink
	logger   *charmlog.Logger
}

func NewFeedback(notes NoteMap, logger *charmlog.Logger, sinks ...Sink) *Feedback {
	return &Feedback{
		Notes:    notes,
		Channel:  FEEDBACK_CHANNEL,
		Velocity: FEEDBACK_VELOCITY,
		Sinks:    sinks,
		logger:   logger,
	}
}

// Emit sends the note of an accepted action to every sink. Failing sinks are
// logged and skipped. A clear is always sent back, the pedal resets its LEDs
// on it.
func (f *Feedback) Emit(a Action, source Source) int {
	if f == nil {
		return 0
	}
	note, ok := f.Notes.Note(a)
	if !ok {
		return 0
	}
	msg := midi.NoteOn(f.Channel, note, f.Velocity)
	sent := 0
	for _, sink := range f.Sinks {
		if sink.Send == nil || (source == FromMIDI && !sink.Echo && a.Command != ClearCmd) {
			continue
		}
		if err := sink.Send(msg); err != nil {
			if f.logger != nil {
				f.logger.Warn("feedback not sent", "sink", sink.Name, "note", note, "err", err)
			}
			continue
		}
		sent++
	}
	return sent
}
