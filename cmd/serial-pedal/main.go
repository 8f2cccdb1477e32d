package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/JeanRibes/midi-pedal/bridge"
	"github.com/JeanRibes/midi-pedal/config"
	"github.com/JeanRibes/midi-pedal/pedal"
	"github.com/JeanRibes/midi-pedal/ports"

	"github.com/albenik/go-serial/v2"
	charmlog "github.com/charmbracelet/log"
	"gitlab.com/gomidi/midi/v2"
)

func main() {
	configFile := flag.String("config", config.DEFAULT_FILE, "config file")
	portName := flag.String("port", "", "serial port, e.g. /dev/ttyUSB0 (default from config)")
	outPort := flag.String("output", "", "MIDI output port name (default from config)")
	debug := flag.Bool("debug", false, "print every frame")
	flag.Parse()

	logger := pedal.NewLogger("serial", charmlog.InfoLevel)
	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Fatal(err)
	}
	if *debug {
		logger.SetLevel(charmlog.DebugLevel)
	}
	if *portName == "" {
		*portName = cfg.Serial.Port
	}
	if *outPort == "" {
		*outPort = cfg.Serial.Output
	}
	if len(cfg.Serial.Keymap) == 0 {
		logger.Fatal("empty keymap", "config", *configFile)
	}

	found, err := serial.GetPortsList()
	if err != nil {
		logger.Fatal(err)
	}
	for _, p := range found {
		logger.Debug("found", "port", p)
	}
	port, err := serial.Open(*portName, serial.WithBaudrate(cfg.Serial.Baud))
	if err != nil {
		logger.Fatal("cannot open serial port", "port", *portName, "err", err)
	}
	defer port.Close()
	if err := port.ResetInputBuffer(); err != nil {
		logger.Warn(err)
	}

	defer ports.Close()
	out, err := ports.Output(*outPort, "serial-pedal")
	if err != nil {
		logger.Fatal(err)
	}
	logger.Info("output", "port", out.String())
	send, err := midi.SendTo(out)
	if err != nil {
		logger.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx = charmlog.WithContext(ctx, logger)
	go func() {
		<-ctx.Done()
		// unblocks the pending read
		port.Close()
	}()

	decoder := bridge.NewDecoder(cfg.Serial.Keymap, cfg.Channel())
	if err := bridge.Run(ctx, port, decoder, send); err != nil && ctx.Err() == nil {
		logger.Error(err)
	}
	logger.Info("stop")
}
