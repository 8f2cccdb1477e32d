package pedal

import (
	"testing"
	"time"
)

func TestPressTimer(t *testing.T) {
	start := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		offsets []time.Duration
		want    []bool
	}{
		{"first press", []time.Duration{0}, []bool{true}},
		{"bounce", []time.Duration{0, 5 * time.Millisecond}, []bool{true, false}},
		{"just under", []time.Duration{0, 499 * time.Millisecond}, []bool{true, false}},
		{"exactly the interval", []time.Duration{0, 500 * time.Millisecond}, []bool{true, true}},
		{"two distinct presses", []time.Duration{0, 800 * time.Millisecond}, []bool{true, true}},
		{
			"bounce does not restart the stopwatch",
			[]time.Duration{0, 300 * time.Millisecond, 500 * time.Millisecond},
			[]bool{true, false, true},
		},
	}
	for _, tt := range tests {
		p := PressTimer{MinInterval: DEFAULT_DEBOUNCE}
		for i, off := range tt.offsets {
			if got := p.Guard(start.Add(off)); got != tt.want[i] {
				t.Errorf("%s: press %d accepted=%v, want %v", tt.name, i, got, tt.want[i])
			}
		}
	}
}

func TestPressTimerReset(t *testing.T) {
	now := time.Now()
	p := PressTimer{MinInterval: time.Second}
	if !p.Guard(now) {
		t.Fatal("first press refused")
	}
	p.Reset()
	if p.Running() {
		t.Fatal("still running after Reset")
	}
	if !p.Guard(now.Add(time.Millisecond)) {
		t.Error("press after Reset refused")
	}
}
