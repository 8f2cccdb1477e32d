package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"slices"
	"time"

	"github.com/JeanRibes/midi-pedal/config"
	"github.com/JeanRibes/midi-pedal/engine"
	"github.com/JeanRibes/midi-pedal/pedal"
	"github.com/JeanRibes/midi-pedal/ports"
	. "github.com/JeanRibes/midi-pedal/shared"
	"github.com/JeanRibes/midi-pedal/ui"

	charmlog "github.com/charmbracelet/log"
)

// pick returns the first non-empty name.
func pick(names ...string) string {
	for _, n := range names {
		if n != "" {
			return n
		}
	}
	return ""
}

func main() {
	configFile := flag.String("config", config.DEFAULT_FILE, "config file")
	prefsFile := flag.String("prefs", config.PREFERENCES_FILE, "preferences file")
	inPort := flag.String("input", "", "MIDI input port name of the pedal")
	outPort := flag.String("output", "", "MIDI output port name for the pedal LEDs")
	synthPort := flag.String("synth", "", "second MIDI output receiving every feedback note")
	debug := flag.Bool("debug", false, "debug logs")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		charmlog.Fatal(err)
	}
	level := cfg.Level()
	if *debug {
		level = charmlog.DebugLevel
	}
	logger := pedal.NewLogger("main", level)

	prefs, err := config.LoadPreferences(*prefsFile)
	if err != nil {
		logger.Warn("could not read preferences", "file", *prefsFile, "err", err)
	}

	lastIn, lastOut := prefs.Ports()
	defer ports.Close()
	in, err := ports.Input(pick(*inPort, lastIn, cfg.Ports.Input), "pedal-looper")
	if err != nil {
		logger.Error(err)
	}
	out, err := ports.Output(pick(*outPort, lastOut, cfg.Ports.PedalOutput), "pedal-looper")
	if err != nil {
		logger.Error(err)
	}

	e, err := engine.New(cfg, pedal.NewLogger("pedal", level))
	if err != nil {
		logger.Fatal(err)
	}
	if name := pick(*synthPort, cfg.Ports.SynthOutput); name != "" {
		if e.Synth, err = ports.Output(name, ""); err != nil {
			logger.Warn("no synth output", "err", err)
		}
	}

	w := ui.Window{
		ExportDir: cfg.Export.Dir,
		Prefs:     prefs,
		Logger:    pedal.NewLogger("UI", level),
	}
	w.InputPorts, w.OutputPorts = ports.Names()
	if in != nil {
		w.InputIndex = slices.Index(w.InputPorts, in.String())
	}
	if out != nil {
		w.OutputIndex = slices.Index(w.OutputPorts, out.String())
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	MasterControl := make(chan Message, 4)
	done := make(chan struct{})
	go func() {
		e.Run(ctx, MasterControl, in, out)
		close(done)
		cancel()
	}()

	ui.Run(ctx, w, e.SinkUI, e.SinkLoop, MasterControl)
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		logger.Warn("took too long to shutdown")
		os.Exit(3)
	}
	logger.Info("bye")
}
