package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/JeanRibes/midi-pedal/pedal"

	charmlog "github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

const DEFAULT_FILE = "config.yaml"

type Config struct {
	Notes    []int         `yaml:"notes"`
	Debounce time.Duration `yaml:"debounce"`
	UndoHold time.Duration `yaml:"undo_hold"`
	LogLevel string        `yaml:"log_level"`
	Feedback struct {
		Channel  uint8 `yaml:"channel"` // 1-16
		Velocity uint8 `yaml:"velocity"`
	} `yaml:"feedback"`
	Ports struct {
		Input       string `yaml:"input"`
		PedalOutput string `yaml:"pedal_output"`
		SynthOutput string `yaml:"synth_output"`
		EchoPedal   bool   `yaml:"echo_pedal"`
	} `yaml:"ports"`
	Export struct {
		Dir      string `yaml:"dir"`
		Quantize bool   `yaml:"quantize"`
	} `yaml:"export"`
	Serial struct {
		Port   string      `yaml:"port"`
		Baud   int         `yaml:"baud"`
		Output string      `yaml:"output"`
		Keymap map[int]int `yaml:"keymap"`
	} `yaml:"serial"`
}

func Default() *Config {
	c := &Config{
		Notes:    make([]int, len(pedal.DefaultNotes)),
		Debounce: pedal.DEFAULT_DEBOUNCE,
		UndoHold: time.Second,
		LogLevel: "info",
	}
	for i, n := range pedal.DefaultNotes {
		c.Notes[i] = int(n)
	}
	c.Feedback.Channel = 1
	c.Feedback.Velocity = pedal.FEEDBACK_VELOCITY
	c.Ports.Input = "FCB1010"
	c.Ports.PedalOutput = "FCB1010"
	c.Export.Dir = "."
	c.Serial.Port = "/dev/ttyACM0"
	c.Serial.Baud = 115200
	c.Serial.Output = "serial-pedal"
	c.Serial.Keymap = map[int]int{}
	return c
}

// Load reads filename over the defaults. A missing file is not an error.
func Load(filename string) (*Config, error) {
	c := Default()
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return c, nil
}

func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

func (c *Config) Validate() (errs error) {
	if _, err := c.NoteMap(); err != nil {
		errs = errors.Join(errs, err)
	}
	if c.Debounce < pedal.DEFAULT_DEBOUNCE {
		errs = errors.Join(errs, fmt.Errorf("debounce %v is shorter than %v", c.Debounce, pedal.DEFAULT_DEBOUNCE))
	}
	if c.UndoHold < 0 {
		errs = errors.Join(errs, fmt.Errorf("negative undo_hold %v", c.UndoHold))
	}
	if c.Feedback.Channel < 1 || c.Feedback.Channel > 16 {
		errs = errors.Join(errs, fmt.Errorf("feedback channel %d not in 1-16", c.Feedback.Channel))
	}
	if c.Feedback.Velocity > 127 {
		errs = errors.Join(errs, fmt.Errorf("feedback velocity %d above 127", c.Feedback.Velocity))
	}
	if _, err := charmlog.ParseLevel(c.LogLevel); err != nil {
		errs = errors.Join(errs, err)
	}
	for code, note := range c.Serial.Keymap {
		if note < 0 || note > 127 {
			errs = errors.Join(errs, fmt.Errorf("keymap: code %d maps to note %d", code, note))
		}
	}
	return errs
}

func (c *Config) NoteMap() (pedal.NoteMap, error) {
	var m pedal.NoteMap
	if len(c.Notes) != len(m) {
		return m, fmt.Errorf("notes: want %d notes, got %d", len(m), len(c.Notes))
	}
	for i, n := range c.Notes {
		if n < 0 || n > 127 {
			return m, fmt.Errorf("notes: %d is not a MIDI note", n)
		}
		m[i] = uint8(n)
	}
	return m, m.Validate()
}

func (c *Config) Level() charmlog.Level {
	level, err := charmlog.ParseLevel(c.LogLevel)
	if err != nil {
		return charmlog.InfoLevel
	}
	return level
}

// Channel is the 0-based feedback channel.
func (c *Config) Channel() uint8 {
	return c.Feedback.Channel - 1
}
