package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JeanRibes/midi-pedal/pedal"

	charmlog "github.com/charmbracelet/log"
)

func TestDefault(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	m, err := c.NoteMap()
	if err != nil || m != pedal.DefaultNotes {
		t.Errorf("NoteMap() = %v, %v", m, err)
	}
	if c.Channel() != 0 {
		t.Errorf("channel %d, want 0", c.Channel())
	}
}

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Debounce != pedal.DEFAULT_DEBOUNCE {
		t.Errorf("debounce %v", c.Debounce)
	}
}

func write(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DEFAULT_FILE)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := write(t, `
notes: [50, 51, 52, 60, 62, 64, 66]
debounce: 750ms
log_level: debug
feedback:
  channel: 10
ports:
  input: "Behringer FCB"
  echo_pedal: true
serial:
  keymap:
    30: 50
    31: 51
`)
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	m, _ := c.NoteMap()
	if m != (pedal.NoteMap{50, 51, 52, 60, 62, 64, 66}) {
		t.Errorf("notes %v", m)
	}
	if c.Debounce != 750*time.Millisecond {
		t.Errorf("debounce %v", c.Debounce)
	}
	if c.Level() != charmlog.DebugLevel {
		t.Errorf("level %v", c.Level())
	}
	if c.Channel() != 9 || c.Feedback.Velocity != 127 {
		t.Errorf("feedback %+v", c.Feedback)
	}
	if c.Ports.Input != "Behringer FCB" || !c.Ports.EchoPedal || c.Ports.PedalOutput != "FCB1010" {
		t.Errorf("ports %+v", c.Ports)
	}
	if c.Serial.Keymap[31] != 51 || c.Serial.Baud != 115200 {
		t.Errorf("serial %+v", c.Serial)
	}
}

func TestLoadInvalid(t *testing.T) {
	bad := map[string]string{
		"short note list":     "notes: [40, 41]",
		"colliding notes":     "notes: [40, 40, 43, 53, 55, 57, 59]",
		"not a note":          "notes: [40, 41, 43, 53, 55, 57, 200]",
		"short debounce":      "debounce: 100ms",
		"channel zero":        "feedback:\n  channel: 0",
		"unknown level":       "log_level: chatty",
		"keymap out of range": "serial:\n  keymap:\n    1: 300",
		"not yaml":            "notes: [",
	}
	for name, content := range bad {
		if _, err := Load(write(t, content)); err == nil {
			t.Errorf("%s: no error", name)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), DEFAULT_FILE)
	c := Default()
	c.Debounce = time.Second
	c.Ports.SynthOutput = "FluidSynth"
	if err := c.Save(path); err != nil {
		t.Fatal(err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.Debounce != time.Second || back.Ports.SynthOutput != "FluidSynth" {
		t.Errorf("loaded %+v", back)
	}
}
