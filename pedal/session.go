package pedal

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
	"gitlab.com/gomidi/quantizer"
)

const TICKS = smf.MetricTicks(960)

const DEFAULT_BPM = float64(120)

// gate is how long each journaled note is held in the exported file
const gate = 60 * time.Millisecond

type journalEntry struct {
	at   time.Duration
	note uint8
}

/*
Session journals the notes of accepted commands so a performance can be
exported as a MIDI file. It is an event log: nothing is ever loaded back into
the controller.
*/
type Session struct {
	entries []journalEntry
	start   time.Time
}

const SESSION_PREALLOCATION = 128

func NewSession() *Session {
	return &Session{entries: make([]journalEntry, 0, SESSION_PREALLOCATION)}
}

func (s *Session) Record(note uint8, at time.Time) {
	if len(s.entries) == 0 {
		s.start = at
	}
	s.entries = append(s.entries, journalEntry{at: at.Sub(s.start), note: note})
}

func (s *Session) Len() int {
	return len(s.entries)
}

func (s *Session) Reset() {
	s.entries = s.entries[0:0]
}

// LoopBPM reads a loop as one 4/4 bar, folded into 60..240 BPM.
func LoopBPM(length time.Duration) float64 {
	if length <= 0 {
		return DEFAULT_BPM
	}
	bpm := 240 / length.Seconds()
	for bpm < 60 {
		bpm *= 2
	}
	for bpm >= 240 {
		bpm /= 2
	}
	return bpm
}

func (s *Session) Track(bpm float64, channel uint8) smf.Track {
	tr := smf.Track{}
	tr.Add(0, smf.MetaTrackSequenceName("pedal"))
	tr.Add(0, smf.MetaTempo(bpm))
	abs := uint32(0)
	for _, ev := range s.entries {
		on := TICKS.Ticks(bpm, ev.at)
		delta := uint32(0)
		if on > abs {
			delta = on - abs
		}
		tr.Add(delta, midi.NoteOn(channel, ev.note, FEEDBACK_VELOCITY))
		off := TICKS.Ticks(bpm, gate)
		tr.Add(off, midi.NoteOff(channel, ev.note))
		abs += delta + off
	}
	tr.Close(0)
	return tr
}

func (s *Session) Export(filepath string, bpm float64, quantize bool) (errs error) {
	if len(s.entries) == 0 {
		return errors.New("nothing to export")
	}
	f := smf.New()
	f.TimeFormat = TICKS
	if err := f.Add(s.Track(bpm, FEEDBACK_CHANNEL)); err != nil {
		errs = errors.Join(errs, err)
	}
	if !quantize {
		if err := f.WriteFile(filepath); err != nil {
			errs = errors.Join(errs, err)
		}
		return errs
	}
	var in, out bytes.Buffer
	if _, err := f.WriteTo(&in); err != nil {
		return errors.Join(errs, err)
	}
	if err := quantizer.Quantize(&in, &out); err != nil {
		return errors.Join(errs, fmt.Errorf("quantize: %w", err))
	}
	if err := os.WriteFile(filepath, out.Bytes(), 0644); err != nil {
		errs = errors.Join(errs, err)
	}
	return errs
}
