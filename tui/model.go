// Package tui is the terminal front-end of the pedal.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JeanRibes/midi-pedal/pedal"
	. "github.com/JeanRibes/midi-pedal/shared"
	"github.com/JeanRibes/midi-pedal/view"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const PROGRESS_WIDTH = 40

type Model struct {
	SinkUI   <-chan pedal.Update
	SinkLoop chan<- Message
	// ExportName gives the file a session export is written to.
	ExportName func() string

	snapshot pedal.Snapshot
	info     string
	errors   []string
	quitting bool
}

type UpdateMsg pedal.Update

func NewModel(SinkUI <-chan pedal.Update, SinkLoop chan<- Message, exportName func() string) Model {
	return Model{
		SinkUI:     SinkUI,
		SinkLoop:   SinkLoop,
		ExportName: exportName,
	}
}

func ListenForUpdates(SinkUI <-chan pedal.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-SinkUI
		if !ok {
			return nil
		}
		return UpdateMsg(u)
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForUpdates(m.SinkUI)
}

// send never blocks the terminal loop.
func (m *Model) send(msgs ...Message) {
	for _, msg := range msgs {
		msg.Source = FromUI
		msg.At = time.Now()
		select {
		case m.SinkLoop <- msg:
		default:
			m.info = "pédale occupée, touche ignorée"
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case " ", "space":
			m.send(Message{Type: Advance})
		case "s":
			m.send(Message{Type: Stop})
		case "m":
			m.send(Message{Type: ToggleMode})
		case "c":
			m.send(Message{Type: Clear})
		case "1", "2", "3", "4":
			track := int(msg.String()[0] - '1')
			// terminals have no key release
			m.send(Message{Type: TrackPress, Number: track}, Message{Type: TrackRelease, Number: track})
		case "e":
			if m.ExportName != nil {
				m.send(Message{Type: ExportSession, String: m.ExportName()})
			}
		case "x":
			m.errors = nil
		}

	case UpdateMsg:
		m.snapshot = msg.Snapshot
		if msg.Error != "" {
			m.errors = append(m.errors, msg.Error)
		}
		if msg.Exported != "" {
			m.info = "exporté vers " + msg.Exported
		}
		if msg.Undo {
			m.info = fmt.Sprintf("annuler %s ?", TrackName(msg.HeldTrack))
		}
		return m, ListenForUpdates(m.SinkUI)
	}

	return m, nil
}

func dot(c view.Color) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render("●")
}

func progressBar(s pedal.Snapshot) string {
	filled := int(view.Fraction(s.Loop)*PROGRESS_WIDTH + 0.5)
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(view.ProgressColor(s).Hex()))
	return style.Render(strings.Repeat("█", filled)) + strings.Repeat("░", PROGRESS_WIDTH-filled)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	s := m.snapshot
	headerStyle := lipgloss.NewStyle().Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(view.Red.Hex()))

	var b strings.Builder
	b.WriteString(headerStyle.Render("pédale loop"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "rec/play %s  stop %s\n", dot(view.TransportLED(s)), dot(view.StopLED(s)))
	for i, c := range view.TrackLEDs(s) {
		fmt.Fprintf(&b, "%s %s  ", TrackName(i), dot(c))
	}
	b.WriteString("\n\n")
	b.WriteString(progressBar(s))
	b.WriteString("\n")
	b.WriteString(view.Status(s))
	b.WriteString("\n")
	if m.info != "" {
		b.WriteString(m.info)
		b.WriteString("\n")
	}
	for _, e := range m.errors {
		b.WriteString(errStyle.Render("erreur: " + e))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("espace:rec/play  s:stop  m:mode  c:effacer  1-4:piste  e:exporter  x:effacer erreurs  q:quitter"))
	return b.String()
}

// Run blocks until the user quits or ctx is done.
func Run(ctx context.Context, m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
