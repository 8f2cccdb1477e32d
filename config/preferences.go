package config

import (
	"errors"
	"os"
	"slices"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const PREFERENCES_FILE = "prefs.yaml"

type RecentFile struct {
	Path string `yaml:"path"`
	Time int64  `yaml:"time"`
}
type RecentFiles []RecentFile

// Preferences remembers what the user picked last time, it is rewritten on
// every change. Its methods may be called from any goroutine.
type Preferences struct {
	RecentExports RecentFiles `yaml:"recent_exports"`
	InputPort     string      `yaml:"input_port"`
	OutputPort    string      `yaml:"output_port"`
	path          string
	mu            sync.Mutex
}

const MAX_RECENT = 10

func LoadPreferences(path string) (*Preferences, error) {
	prefs := &Preferences{
		RecentExports: RecentFiles{},
		path:          path,
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, err
	}
	if err := yaml.Unmarshal(data, prefs); err != nil {
		return prefs, err
	}
	prefs.Refresh()
	return prefs, nil
}

func (p *Preferences) Save() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0644)
}

// unique keeps the last occurrence of every path, in order.
func unique(sl RecentFiles) RecentFiles {
	seen := map[string]bool{}
	out := RecentFiles{}
	for i := len(sl) - 1; i >= 0; i-- {
		if seen[sl[i].Path] {
			continue
		}
		seen[sl[i].Path] = true
		out = append(out, sl[i])
	}
	slices.Reverse(out)
	if len(out) > MAX_RECENT {
		out = out[len(out)-MAX_RECENT:]
	}
	return out
}

func (p *Preferences) AddExport(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.RecentExports = unique(append(p.RecentExports, RecentFile{
		Path: path,
		Time: time.Now().Unix(),
	}))
}

// Exports is the most recent first.
func (p *Preferences) Exports() RecentFiles {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := slices.Clone(p.RecentExports)
	slices.Reverse(s)
	return s
}

func (p *Preferences) SetPorts(in, out string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.InputPort = in
	p.OutputPort = out
}

func (p *Preferences) Ports() (in, out string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.InputPort, p.OutputPort
}

// Refresh drops exports that were deleted and updates modification times.
func (p *Preferences) Refresh() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.RecentExports = slices.DeleteFunc(p.RecentExports, func(rf RecentFile) bool {
		_, err := os.Stat(rf.Path)
		return err != nil
	})
	for i, item := range p.RecentExports {
		stat, err := os.Stat(item.Path)
		if err != nil {
			continue
		}
		item.Time = stat.ModTime().Unix()
		p.RecentExports[i] = item
	}
}
