// Package ports finds the MIDI ports of the pedal, opening virtual ones when a
// named port is not plugged in.
package ports

import (
	"errors"
	"fmt"

	"github.com/JeanRibes/midi-pedal/pedal"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

var ErrNoDriver = errors.New("no rtmidi driver")

func driver() (*rtmididrv.Driver, error) {
	drv, ok := drivers.Get().(*rtmididrv.Driver)
	if !ok || drv == nil {
		return nil, ErrNoDriver
	}
	return drv, nil
}

// Input finds the input port called name, or opens a virtual input called
// virtual when there is none. An empty virtual name disables the fallback.
func Input(name, virtual string) (drivers.In, error) {
	if name != "" {
		if in, err := midi.FindInPort(name); err == nil {
			return in, nil
		}
	}
	if virtual == "" {
		return nil, fmt.Errorf("MIDI input %q not found", name)
	}
	drv, err := driver()
	if err != nil {
		return nil, err
	}
	port, err := drv.OpenVirtualIn(virtual)
	if err != nil {
		return nil, fmt.Errorf("open virtual port %s: %w", virtual, err)
	}
	return port, nil
}

func Output(name, virtual string) (drivers.Out, error) {
	if name != "" {
		if out, err := midi.FindOutPort(name); err == nil {
			return out, nil
		}
	}
	if virtual == "" {
		return nil, fmt.Errorf("MIDI output %q not found", name)
	}
	drv, err := driver()
	if err != nil {
		return nil, err
	}
	port, err := drv.OpenVirtualOut(virtual)
	if err != nil {
		return nil, fmt.Errorf("open virtual port %s: %w", virtual, err)
	}
	return port, nil
}

func InputByIndex(i int) (drivers.In, error) {
	ins := midi.GetInPorts()
	if i < 0 || i >= len(ins) {
		return nil, fmt.Errorf("no MIDI input #%d", i)
	}
	return ins[i], nil
}

func OutputByIndex(i int) (drivers.Out, error) {
	outs := midi.GetOutPorts()
	if i < 0 || i >= len(outs) {
		return nil, fmt.Errorf("no MIDI output #%d", i)
	}
	return outs[i], nil
}

func Names() (ins, outs []string) {
	for _, in := range midi.GetInPorts() {
		ins = append(ins, in.String())
	}
	for _, out := range midi.GetOutPorts() {
		outs = append(outs, out.String())
	}
	return
}

// Sink opens out for LED feedback. A nil out gives a sink that sends nothing.
func Sink(name string, out drivers.Out, echo bool) (pedal.Sink, error) {
	sink := pedal.Sink{Name: name, Echo: echo}
	if out == nil {
		return sink, nil
	}
	send, err := midi.SendTo(out)
	if err != nil {
		return sink, fmt.Errorf("open %s output %s: %w", name, out.String(), err)
	}
	sink.Send = send
	return sink, nil
}

func Close() {
	midi.CloseDriver()
}
