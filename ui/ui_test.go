package ui

import (
	"testing"
	"time"
)

func TestErrorLog(t *testing.T) {
	var e errorLog
	if got := e.Add("port fermé"); got != "port fermé" {
		t.Errorf("first error: %q", got)
	}
	if got := e.Add("rien à exporter"); got != "port fermé\n\nrien à exporter" {
		t.Errorf("second error: %q", got)
	}
	e.Reset()
	if got := e.Add("encore"); got != "encore" {
		t.Errorf("after reset: %q", got)
	}
}

func TestExportAge(t *testing.T) {
	now := time.Date(2024, 3, 1, 20, 0, 0, 0, time.Local)
	tests := []struct {
		at   time.Time
		want string
	}{
		{now.Add(-10 * time.Second), "à l'instant"},
		{now.Add(-5 * time.Minute), "il y a 5 min"},
		{now.Add(-3*time.Hour - 10*time.Minute), "il y a 3 h"},
		{now.Add(-50 * time.Hour), "27/02/2024"},
	}
	for _, tt := range tests {
		if got := exportAge(tt.at, now); got != tt.want {
			t.Errorf("exportAge(%v) = %q, want %q", now.Sub(tt.at), got, tt.want)
		}
	}
}

func TestShortDir(t *testing.T) {
	if got := shortDir("/home/jean/loops/take.mid", "/home/jean"); got != "~/loops" {
		t.Errorf("got %q", got)
	}
	if got := shortDir("/tmp/take.mid", "/home/jean"); got != "/tmp" {
		t.Errorf("got %q", got)
	}
	if got := shortDir("/home/jeanne/take.mid", "/home/jean"); got != "/home/jeanne" {
		t.Errorf("got %q", got)
	}
}
