// Package engine keeps a pedal loop running on the chosen MIDI ports and
// restarts it when the user picks other ports. The controller and the session
// journal outlive the restarts.
package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/JeanRibes/midi-pedal/config"
	"github.com/JeanRibes/midi-pedal/pedal"
	"github.com/JeanRibes/midi-pedal/ports"
	. "github.com/JeanRibes/midi-pedal/shared"

	charmlog "github.com/charmbracelet/log"
	"gitlab.com/gomidi/midi/v2/drivers"
)

type Engine struct {
	Config     *config.Config
	Notes      pedal.NoteMap
	Controller *pedal.Controller
	Session    *pedal.Session
	Logger     *charmlog.Logger

	SinkUI   chan pedal.Update
	SinkLoop chan Message

	// Synth is the optional second feedback output, kept across restarts.
	Synth drivers.Out
}

func New(cfg *config.Config, logger *charmlog.Logger) (*Engine, error) {
	notes, err := cfg.NoteMap()
	if err != nil {
		return nil, err
	}
	return &Engine{
		Config:     cfg,
		Notes:      notes,
		Controller: pedal.NewController(cfg.Debounce),
		Session:    pedal.NewSession(),
		Logger:     logger,
		SinkUI:     make(chan pedal.Update, 16),
		SinkLoop:   make(chan Message, 64),
	}, nil
}

// ExportPath is where a session export called name goes, relative names land
// in the configured export directory.
func (e *Engine) ExportPath(name string) string {
	if filepath.IsAbs(name) || e.Config.Export.Dir == "" {
		return name
	}
	return filepath.Join(e.Config.Export.Dir, name)
}

// Feedback builds the LED feedback for out and the synth output. Sinks that
// cannot be opened are reported and left out.
func (e *Engine) Feedback(out drivers.Out) (*pedal.Feedback, error) {
	var errs error
	sinks := []pedal.Sink{}
	if out != nil {
		sink, err := ports.Sink("pedal", out, e.Config.Ports.EchoPedal)
		if err != nil {
			errs = errors.Join(errs, err)
		} else {
			sinks = append(sinks, sink)
		}
	}
	if e.Synth != nil {
		sink, err := ports.Sink("synth", e.Synth, true)
		if err != nil {
			errs = errors.Join(errs, err)
		} else {
			sinks = append(sinks, sink)
		}
	}
	f := pedal.NewFeedback(e.Notes, e.Logger, sinks...)
	f.Channel = e.Config.Channel()
	f.Velocity = e.Config.Feedback.Velocity
	return f, errs
}

func (e *Engine) options(f *pedal.Feedback) pedal.Options {
	return pedal.Options{
		Notes:    e.Notes,
		Feedback: f,
		Session:  e.Session,
		UndoHold: e.Config.UndoHold,
		Quantize: e.Config.Export.Quantize,
		Logger:   e.Logger,
	}
}

func (e *Engine) fail(err error) {
	e.Logger.Error(err)
	select {
	case e.SinkUI <- pedal.Update{Snapshot: e.Controller.Snapshot(), Error: err.Error()}:
	default:
	}
}

// start runs one pedal loop on in and out. The returned channel is closed
// when that loop is over.
func (e *Engine) start(ctx context.Context, in drivers.In, out drivers.Out) <-chan struct{} {
	done := make(chan struct{})
	f, err := e.Feedback(out)
	if err != nil {
		e.fail(err)
	}
	go func() {
		defer close(done)
		if err := pedal.Run(ctx, in, e.Controller, e.options(f), e.SinkUI, e.SinkLoop); err != nil {
			e.fail(err)
		}
	}()
	return done
}

/*
Run keeps a pedal loop alive until ctx is done or MasterControl gets Quit.
RestartMIDI stops the current loop and starts a new one on the input and
output ports at indexes Number and Number2.
*/
func (e *Engine) Run(ctx context.Context, MasterControl <-chan Message, in drivers.In, out drivers.Out) {
	runCtx, stopRun := context.WithCancel(ctx)
	done := e.start(runCtx, in, out)
	defer func() {
		stopRun()
		<-done
		e.Logger.Info("stop")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-MasterControl:
			switch msg.Type {
			case Quit:
				e.Logger.Debug("quit")
				return
			case RestartMIDI:
				newIn, err := ports.InputByIndex(msg.Number)
				if err != nil {
					e.fail(fmt.Errorf("impossible d'ouvrir ce port MIDI en entrée: %w", err))
					continue
				}
				newOut, err := ports.OutputByIndex(msg.Number2)
				if err != nil {
					e.fail(fmt.Errorf("impossible d'ouvrir ce port MIDI en sortie: %w", err))
					continue
				}
				e.Logger.Info("restarting", "input", newIn.String(), "output", newOut.String())
				stopRun()
				<-done
				runCtx, stopRun = context.WithCancel(ctx)
				done = e.start(runCtx, newIn, newOut)
			default:
				e.Logger.Printf("unknown master message: %v", msg.Type)
			}
		}
	}
}
