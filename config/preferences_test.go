package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestUnique(t *testing.T) {
	in := RecentFiles{{Path: "a"}, {Path: "b"}, {Path: "a"}, {Path: "c"}}
	out := unique(in)
	want := []string{"b", "a", "c"}
	if len(out) != len(want) {
		t.Fatalf("unique = %v", out)
	}
	for i, w := range want {
		if out[i].Path != w {
			t.Errorf("unique[%d] = %s, want %s", i, out[i].Path, w)
		}
	}
}

func TestPreferences(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, PREFERENCES_FILE)
	prefs, err := LoadPreferences(path)
	if err != nil {
		t.Fatal(err)
	}
	take1 := filepath.Join(dir, "take1.mid")
	take2 := filepath.Join(dir, "take2.mid")
	for _, f := range []string{take1, take2} {
		if err := os.WriteFile(f, []byte("MThd"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	prefs.AddExport(take1)
	prefs.AddExport(take2)
	prefs.AddExport(take1)
	prefs.SetPorts("FCB1010", "FluidSynth")
	if err := prefs.Save(); err != nil {
		t.Fatal(err)
	}

	if err := os.Remove(take2); err != nil {
		t.Fatal(err)
	}
	back, err := LoadPreferences(path)
	if err != nil {
		t.Fatal(err)
	}
	exports := back.Exports()
	if len(exports) != 1 || exports[0].Path != take1 {
		t.Errorf("exports %v", exports)
	}
	if back.InputPort != "FCB1010" || back.OutputPort != "FluidSynth" {
		t.Errorf("ports %q %q", back.InputPort, back.OutputPort)
	}
}

func TestRecentLimit(t *testing.T) {
	prefs := &Preferences{}
	for i := 0; i < MAX_RECENT+5; i++ {
		prefs.AddExport(filepath.Join("takes", string(rune('a'+i))))
	}
	if len(prefs.RecentExports) != MAX_RECENT {
		t.Errorf("%d recent exports", len(prefs.RecentExports))
	}
}

func TestPreferencesFromTwoGoroutines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, PREFERENCES_FILE)
	prefs, err := LoadPreferences(path)
	if err != nil {
		t.Fatal(err)
	}
	take := filepath.Join(dir, "take.mid")
	if err := os.WriteFile(take, []byte("MThd"), 0644); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			prefs.AddExport(take)
			if err := prefs.Save(); err != nil {
				t.Error(err)
			}
			prefs.Exports()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			prefs.SetPorts("FCB1010", "FluidSynth")
			if err := prefs.Save(); err != nil {
				t.Error(err)
			}
			prefs.Ports()
		}
	}()
	wg.Wait()

	back, err := LoadPreferences(path)
	if err != nil {
		t.Fatal(err)
	}
	if in, out := back.Ports(); in != "FCB1010" || out != "FluidSynth" {
		t.Errorf("ports %q %q", in, out)
	}
	if exports := back.Exports(); len(exports) != 1 || exports[0].Path != take {
		t.Errorf("exports %v", exports)
	}
}
