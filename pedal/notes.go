package pedal

import (
	"errors"
	"fmt"
)

type Command int

const (
	NoCommand Command = iota
	ClearCmd
	ModeCmd
	AdvanceCmd
	StopCmd
	SelectCmd
	MuteCmd
)

func (c Command) String() string {
	switch c {
	case ClearCmd:
		return "clear"
	case ModeCmd:
		return "mode"
	case AdvanceCmd:
		return "advance"
	case StopCmd:
		return "stop"
	case SelectCmd:
		return "select"
	case MuteCmd:
		return "mute"
	default:
		return "none"
	}
}

// Action is a resolved pedal command. Track is only meaningful for
// SelectCmd and MuteCmd.
type Action struct {
	Command Command
	Track   int
}

/*
NoteMap holds the 7 base notes of the pedal:

	[0] clear          ([0]-2 toggles the mode)
	[1] record/overdub/play
	[2] stop
	[3..6] track 1..4: base note selects, +12 toggles mute

+24 (play) and +25 (overdub) are sent by some pedals but are not handled.
*/
type NoteMap [7]uint8

var DefaultNotes = NoteMap{40, 41, 43, 53, 55, 57, 59}

const (
	muteOffset = 12
	modeOffset = 2
)

func (m NoteMap) Resolve(note uint8) (Action, bool) {
	switch {
	case note == m[0]:
		return Action{Command: ClearCmd}, true
	case m[0] >= modeOffset && note == m[0]-modeOffset:
		return Action{Command: ModeCmd}, true
	case note == m[1]:
		return Action{Command: AdvanceCmd}, true
	case note == m[2]:
		return Action{Command: StopCmd}, true
	}
	for i, base := range m[3:] {
		if note == base {
			return Action{Command: SelectCmd, Track: i}, true
		}
		if int(note) == int(base)+muteOffset {
			return Action{Command: MuteCmd, Track: i}, true
		}
	}
	return Action{}, false
}

// Note is the outbound note echoed for an action. The mode toggle has none.
func (m NoteMap) Note(a Action) (uint8, bool) {
	switch a.Command {
	case ClearCmd:
		return m[0], true
	case AdvanceCmd:
		return m[1], true
	case StopCmd:
		return m[2], true
	case SelectCmd:
		if a.Track < 0 || a.Track >= len(m)-3 {
			return 0, false
		}
		return m[3+a.Track], true
	case MuteCmd:
		if a.Track < 0 || a.Track >= len(m)-3 {
			return 0, false
		}
		return m[3+a.Track] + muteOffset, true
	}
	return 0, false
}

func (m NoteMap) Validate() error {
	if m[0] < modeOffset {
		return fmt.Errorf("clear note %d leaves no room for the mode note", m[0])
	}
	seen := map[int]string{
		int(m[0]) - modeOffset: "mode",
	}
	claim := func(note int, name string) error {
		if note > 127 {
			return fmt.Errorf("%s note %d is out of range", name, note)
		}
		if other, ok := seen[note]; ok {
			return fmt.Errorf("%s and %s both use note %d", other, name, note)
		}
		seen[note] = name
		return nil
	}
	var errs error
	errs = errors.Join(errs, claim(int(m[0]), "clear"))
	errs = errors.Join(errs, claim(int(m[1]), "advance"))
	errs = errors.Join(errs, claim(int(m[2]), "stop"))
	for i, base := range m[3:] {
		errs = errors.Join(errs, claim(int(base), fmt.Sprintf("track %d", i+1)))
		errs = errors.Join(errs, claim(int(base)+muteOffset, fmt.Sprintf("track %d mute", i+1)))
	}
	return errs
}
