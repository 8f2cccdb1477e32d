package pedal

import (
	"errors"
	"testing"

	. "github.com/JeanRibes/midi-pedal/shared"

	"gitlab.com/gomidi/midi/v2"
)

func TestEmit(t *testing.T) {
	pedalOut := &recordingSink{}
	synthOut := &recordingSink{}
	fb := NewFeedback(DefaultNotes, nil,
		Sink{Name: "pedal", Send: pedalOut.send},
		Sink{Name: "synth", Send: synthOut.send, Echo: true},
	)

	if n := fb.Emit(Action{Command: StopCmd}, FromUI); n != 2 {
		t.Fatalf("stop from UI reached %d sinks, want 2", n)
	}
	if n := fb.Emit(Action{Command: MuteCmd, Track: 1}, FromMIDI); n != 1 {
		t.Fatalf("mute from MIDI reached %d sinks, want 1", n)
	}
	if n := fb.Emit(Action{Command: ModeCmd}, FromUI); n != 0 {
		t.Fatalf("mode toggle reached %d sinks, want none", n)
	}

	if len(pedalOut.sent) != 1 || len(synthOut.sent) != 2 {
		t.Fatalf("pedal got %d, synth got %d", len(pedalOut.sent), len(synthOut.sent))
	}
	var ch, key, vel uint8
	if !pedalOut.sent[0].GetNoteOn(&ch, &key, &vel) || ch != 0 || key != 43 || vel != 127 {
		t.Errorf("pedal got %v", pedalOut.sent[0])
	}
	if !synthOut.sent[1].GetNoteOn(&ch, &key, &vel) || key != 67 {
		t.Errorf("synth got %v, want mute of track 2", synthOut.sent[1])
	}
}

func TestEmitSkipsBrokenSinks(t *testing.T) {
	broken := &recordingSink{err: errors.New("port closed")}
	ok := &recordingSink{}
	fb := NewFeedback(DefaultNotes, NewLogger("test", 0),
		Sink{Name: "broken", Send: broken.send},
		Sink{Name: "absent"},
		Sink{Name: "ok", Send: ok.send},
	)
	if n := fb.Emit(Action{Command: ClearCmd}, FromUI); n != 1 {
		t.Errorf("reached %d sinks, want 1", n)
	}
	if len(ok.sent) != 1 || !ok.sent[0].Is(midi.NoteOnMsg) {
		t.Errorf("ok sink got %v", ok.sent)
	}
}

func TestEmitNilFeedback(t *testing.T) {
	var fb *Feedback
	if n := fb.Emit(Action{Command: ClearCmd}, FromUI); n != 0 {
		t.Errorf("nil feedback sent %d", n)
	}
}

func TestEmitClearFromPedal(t *testing.T) {
	pedalOut := &recordingSink{}
	fb := NewFeedback(DefaultNotes, nil, Sink{Name: "pedal", Send: pedalOut.send})
	if n := fb.Emit(Action{Command: ClearCmd}, FromMIDI); n != 1 {
		t.Errorf("clear from MIDI reached %d sinks, want 1", n)
	}
	if n := fb.Emit(Action{Command: AdvanceCmd}, FromMIDI); n != 0 {
		t.Errorf("advance from MIDI reached %d sinks, want 0", n)
	}
}
