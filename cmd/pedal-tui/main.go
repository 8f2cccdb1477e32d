package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/JeanRibes/midi-pedal/config"
	"github.com/JeanRibes/midi-pedal/engine"
	"github.com/JeanRibes/midi-pedal/ports"
	. "github.com/JeanRibes/midi-pedal/shared"
	"github.com/JeanRibes/midi-pedal/tui"

	charmlog "github.com/charmbracelet/log"
)

func main() {
	configFile := flag.String("config", config.DEFAULT_FILE, "config file")
	inPort := flag.String("input", "", "MIDI input port name of the pedal (default from config)")
	outPort := flag.String("output", "", "MIDI output port name for the pedal LEDs (default from config)")
	logFile := flag.String("log", "pedal-tui.log", "log file, the terminal is taken by the UI")
	debug := flag.Bool("debug", false, "debug logs")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		charmlog.Fatal(err)
	}
	f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		charmlog.Fatal(err)
	}
	defer f.Close()
	level := cfg.Level()
	if *debug {
		level = charmlog.DebugLevel
	}
	logger := charmlog.NewWithOptions(f, charmlog.Options{
		Level:           level,
		ReportCaller:    level == charmlog.DebugLevel,
		ReportTimestamp: true,
		Prefix:          "tui",
	})

	if *inPort == "" {
		*inPort = cfg.Ports.Input
	}
	if *outPort == "" {
		*outPort = cfg.Ports.PedalOutput
	}
	defer ports.Close()
	in, err := ports.Input(*inPort, "pedal-looper")
	if err != nil {
		logger.Error(err)
	}
	out, err := ports.Output(*outPort, "pedal-looper")
	if err != nil {
		logger.Error(err)
	}

	e, err := engine.New(cfg, logger.WithPrefix("pedal"))
	if err != nil {
		charmlog.Fatal(err)
	}
	if cfg.Ports.SynthOutput != "" {
		if e.Synth, err = ports.Output(cfg.Ports.SynthOutput, ""); err != nil {
			logger.Warn("no synth output", "err", err)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	MasterControl := make(chan Message, 1)
	done := make(chan struct{})
	go func() {
		e.Run(ctx, MasterControl, in, out)
		close(done)
	}()

	exportName := func() string {
		return e.ExportPath(time.Now().Format("session-20060102-150405.mid"))
	}
	if err := tui.Run(ctx, tui.NewModel(e.SinkUI, e.SinkLoop, exportName)); err != nil {
		logger.Error(err)
	}
	MasterControl <- Message{Type: Quit}
	<-done
}
