/*
Package bridge turns a serial foot-switch into a MIDI pedal.

The switch board sends 2-byte frames: a status byte whose high bit is set on
release, and a key code. Key codes are mapped to notes by a keymap; the
board repeats frames while a switch is held, only the first one counts.
*/
package bridge

import (
	"context"
	"errors"
	"io"

	charmlog "github.com/charmbracelet/log"
	"gitlab.com/gomidi/midi/v2"
)

type Decoder struct {
	Keymap   map[int]int
	Channel  uint8
	Velocity uint8
	down     [256]bool
}

func NewDecoder(keymap map[int]int, channel uint8) *Decoder {
	return &Decoder{Keymap: keymap, Channel: channel, Velocity: 127}
}

func (d *Decoder) Decode(frame [2]byte) (midi.Message, bool) {
	status := frame[0]
	code := frame[1]

	pressed := (status >> 7) == 0
	if d.down[code] == pressed {
		return nil, false
	}
	d.down[code] = pressed

	note, ok := d.Keymap[int(code)]
	if !ok || note < 0 || note > 127 {
		return nil, false
	}
	if pressed {
		return midi.NoteOn(d.Channel, uint8(note), d.Velocity), true
	}
	return midi.NoteOff(d.Channel, uint8(note)), true
}

// Run forwards the frames of port until it is closed or ctx is done.
func Run(ctx context.Context, port io.Reader, d *Decoder, send func(midi.Message) error) error {
	logger := charmlog.FromContext(ctx)
	var frame [2]byte
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if _, err := io.ReadFull(port, frame[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		msg, ok := d.Decode(frame)
		if !ok {
			logger.Debug("unassigned", "status", frame[0], "code", frame[1])
			continue
		}
		logger.Debug("send", "msg", msg.String())
		if err := send(msg); err != nil {
			logger.Error("send failed", "err", err)
		}
	}
}
