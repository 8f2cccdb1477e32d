package bridge

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"gitlab.com/gomidi/midi/v2"
)

func TestDecode(t *testing.T) {
	d := NewDecoder(map[int]int{30: 41, 31: 43}, 0)
	tests := []struct {
		frame [2]byte
		want  midi.Message
	}{
		{[2]byte{0x00, 30}, midi.NoteOn(0, 41, 127)},
		{[2]byte{0x00, 30}, nil}, // held
		{[2]byte{0x80, 30}, midi.NoteOff(0, 41)},
		{[2]byte{0x80, 30}, nil},
		{[2]byte{0x00, 31}, midi.NoteOn(0, 43, 127)},
		{[2]byte{0x00, 99}, nil}, // unassigned
	}
	for i, tt := range tests {
		got, ok := d.Decode(tt.frame)
		if ok != (tt.want != nil) {
			t.Errorf("frame %d: ok=%v", i, ok)
			continue
		}
		if ok && !bytes.Equal(got, tt.want) {
			t.Errorf("frame %d: got %v, want %v", i, got, tt.want)
		}
	}
}

func TestRun(t *testing.T) {
	d := NewDecoder(map[int]int{30: 40}, 2)
	port := bytes.NewReader([]byte{0x00, 30, 0x00, 30, 0x80, 30, 0x00, 30})
	var sent []midi.Message
	err := Run(context.Background(), port, d, func(msg midi.Message) error {
		sent = append(sent, msg)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(sent) != 3 {
		t.Fatalf("sent %v", sent)
	}
	var ch, key, vel uint8
	if !sent[2].GetNoteOn(&ch, &key, &vel) || ch != 2 || key != 40 {
		t.Errorf("last message %v", sent[2])
	}
}

func TestRunKeepsGoingOnSendErrors(t *testing.T) {
	d := NewDecoder(map[int]int{1: 40, 2: 41}, 0)
	port := bytes.NewReader([]byte{0x00, 1, 0x00, 2})
	calls := 0
	err := Run(context.Background(), port, d, func(msg midi.Message) error {
		calls++
		return errors.New("port gone")
	})
	if err != nil || calls != 2 {
		t.Errorf("err=%v calls=%d", err, calls)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	port := bytes.NewReader([]byte{0x00, 1})
	err := Run(ctx, port, NewDecoder(map[int]int{1: 40}, 0), func(midi.Message) error {
		t.Error("sent after cancel")
		return nil
	})
	if err != nil {
		t.Error(err)
	}
}
