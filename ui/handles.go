package ui

import (
	"fmt"

	. "github.com/JeanRibes/midi-pedal/shared"

	"github.com/gotk3/gotk3/gtk"
)

var mainWin *gtk.Window
var recPlayBtn *gtk.Button
var stopBtn *gtk.Button
var modeBtn *gtk.Button
var clearBtn *gtk.Button
var exportBtn *gtk.Button
var trackBtns [NUM_TRACKS]*gtk.Button
var trackLeds [NUM_TRACKS]*gtk.Label
var ledPlayRec *gtk.Label
var ledStop *gtk.Label
var loopProgress *gtk.ProgressBar
var statusLabel *gtk.Label
var comboInPorts *gtk.ComboBoxText
var comboOutPorts *gtk.ComboBoxText
var reconnectMidi *gtk.Button
var recentView *gtk.TreeView

func led(name string) *gtk.Label {
	l, _ := gtk.LabelNew(name)
	sc, _ := l.GetStyleContext()
	sc.AddClass("led")
	return l
}

func button(label string) *gtk.Button {
	b, _ := gtk.ButtonNewWithLabel(label)
	return b
}

func buildUI() *gtk.Box {
	mainBox, _ := gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 10)
	mainBox.SetMarginStart(10)
	mainBox.SetMarginEnd(10)
	mainBox.SetMarginTop(10)
	mainBox.SetMarginBottom(10)

	portsBox, _ := gtk.BoxNew(gtk.ORIENTATION_HORIZONTAL, 5)
	comboInPorts, _ = gtk.ComboBoxTextNew()
	comboOutPorts, _ = gtk.ComboBoxTextNew()
	reconnectMidi = button("Reconnecter")
	portsBox.PackStart(comboInPorts, true, true, 0)
	portsBox.PackStart(comboOutPorts, true, true, 0)
	portsBox.PackStart(reconnectMidi, false, false, 0)
	mainBox.Add(portsBox)

	ledsBox, _ := gtk.BoxNew(gtk.ORIENTATION_HORIZONTAL, 5)
	ledPlayRec = led("rec/play")
	ledStop = led("stop")
	ledsBox.PackStart(ledPlayRec, true, true, 0)
	ledsBox.PackStart(ledStop, true, true, 0)
	mainBox.Add(ledsBox)

	tracksBox, _ := gtk.BoxNew(gtk.ORIENTATION_HORIZONTAL, 5)
	for i := 0; i < NUM_TRACKS; i++ {
		trackBox, _ := gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 5)
		trackLeds[i] = led(fmt.Sprint(i + 1))
		trackBtns[i] = button(TrackName(i))
		trackBox.Add(trackLeds[i])
		trackBox.Add(trackBtns[i])
		tracksBox.PackStart(trackBox, true, true, 0)
	}
	mainBox.Add(tracksBox)

	loopProgress, _ = gtk.ProgressBarNew()
	mainBox.Add(loopProgress)

	controlsBox, _ := gtk.BoxNew(gtk.ORIENTATION_HORIZONTAL, 5)
	recPlayBtn = button("Rec/Play")
	stopBtn = button("Stop")
	modeBtn = button("Mode")
	clearBtn = button("Effacer")
	for _, b := range []*gtk.Button{recPlayBtn, stopBtn, modeBtn, clearBtn} {
		controlsBox.PackStart(b, true, true, 0)
	}
	mainBox.Add(controlsBox)

	statusLabel, _ = gtk.LabelNew("")
	mainBox.Add(statusLabel)

	exportBtn = button("Exporter la session")
	mainBox.Add(exportBtn)

	recentView, _ = gtk.TreeViewNew()
	scroll, _ := gtk.ScrolledWindowNew(nil, nil)
	scroll.SetSizeRequest(-1, 120)
	scroll.Add(recentView)
	mainBox.PackStart(scroll, true, true, 0)

	return mainBox
}
