package ui

import (
	"context"
	_ "embed"
	"time"

	"github.com/JeanRibes/midi-pedal/config"
	"github.com/JeanRibes/midi-pedal/pedal"
	. "github.com/JeanRibes/midi-pedal/shared"

	charmlog "github.com/charmbracelet/log"
	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/gtk"
)

//go:embed ui.css
var stylesheet string

// Window is what the GTK front-end needs to start: the port lists shown in
// the combo boxes and where exports go.
type Window struct {
	InputPorts  []string
	OutputPorts []string
	InputIndex  int
	OutputIndex int
	ExportDir   string
	Prefs       *config.Preferences
	Logger      *charmlog.Logger
}

/*
Run builds the window and blocks in the GTK main loop until ctx is done.
Button presses go to SinkLoop, port changes and quitting to MasterControl.
*/
func Run(ctx context.Context, w Window, SinkUI <-chan pedal.Update, SinkLoop, MasterControl chan Message) {
	logger := w.Logger
	if logger == nil {
		logger = pedal.NewLogger("UI", charmlog.InfoLevel)
	}
	logger.Info("start")
	gtk.Init(nil)

	var err error
	mainWin, err = gtk.WindowNew(gtk.WINDOW_TOPLEVEL)
	if err != nil {
		logger.Fatal("Unable to create window:", err)
	}
	mainWin.SetTitle("Pédale loop")
	mainWin.Add(buildUI())

	windestroyhandle := mainWin.Connect("destroy", func() {
		logger.Debug("close win, sending quit event")
		MasterControl <- Message{Type: Quit}
		gtk.MainQuit()
	})

	recPlayBtn.Connect("clicked", func() {
		SinkLoop <- Message{Type: Advance, Source: FromUI, At: time.Now()}
	})
	stopBtn.Connect("clicked", func() {
		SinkLoop <- Message{Type: Stop, Source: FromUI, At: time.Now()}
	})
	modeBtn.Connect("clicked", func() {
		SinkLoop <- Message{Type: ToggleMode, Source: FromUI, At: time.Now()}
	})
	clearBtn.Connect("clicked", func() {
		SinkLoop <- Message{Type: Clear, Source: FromUI, At: time.Now()}
	})

	for i := 0; i < NUM_TRACKS; i++ {
		trackBtns[i].Connect("button-press-event", func(self *gtk.Button, event *gdk.Event) bool {
			if gdk.EventButtonNewFromEvent(event).Button() != gdk.BUTTON_PRIMARY {
				return false
			}
			SinkLoop <- Message{Type: TrackPress, Source: FromUI, Number: i, At: time.Now()}
			return false
		})
		trackBtns[i].Connect("button-release-event", func(self *gtk.Button, event *gdk.Event) bool {
			if gdk.EventButtonNewFromEvent(event).Button() != gdk.BUTTON_PRIMARY {
				return false
			}
			SinkLoop <- Message{Type: TrackRelease, Source: FromUI, Number: i, At: time.Now()}
			return false
		})
	}

	for _, port := range w.InputPorts {
		comboInPorts.AppendText(port)
	}
	comboInPorts.SetActive(w.InputIndex)
	for _, port := range w.OutputPorts {
		comboOutPorts.AppendText(port)
	}
	comboOutPorts.SetActive(w.OutputIndex)

	reconnectMidi.Connect("clicked", func() {
		inN := comboInPorts.GetActive()
		outN := comboOutPorts.GetActive()
		if w.Prefs != nil {
			w.Prefs.SetPorts(comboInPorts.GetActiveText(), comboOutPorts.GetActiveText())
			if err := w.Prefs.Save(); err != nil {
				logger.Warn("could not save preferences", "err", err)
			}
		}
		MasterControl <- Message{
			Type:    RestartMIDI,
			Number:  inN,
			Number2: outN,
		}
	})

	exportBtn.Connect("clicked", func() {
		d, _ := gtk.FileChooserDialogNewWith2Buttons("Exporter MIDI", mainWin, gtk.FILE_CHOOSER_ACTION_SAVE, "Exporter", gtk.RESPONSE_ACCEPT, "Annuler", gtk.RESPONSE_CANCEL)
		filter, _ := gtk.FileFilterNew()
		filter.AddPattern("*.mid")
		filter.AddPattern("*.midi")
		filter.AddMimeType("audio/midi")
		d.SetFilter(filter)
		d.SetDoOverwriteConfirmation(true)
		if w.ExportDir != "" {
			d.SetCurrentFolder(w.ExportDir)
		}
		d.SetCurrentName(time.Now().Format("session-20060102-150405.mid"))
		if d.Run() == gtk.RESPONSE_ACCEPT {
			logger.Info("exporting session", "path", d.GetFilename())
			SinkLoop <- Message{Type: ExportSession, Source: FromUI, String: d.GetFilename()}
		}
		d.Destroy()
	})

	sc := &screen{
		errorDialog: gtk.MessageDialogNew(mainWin, gtk.DIALOG_MODAL, gtk.MESSAGE_ERROR, gtk.BUTTONS_CLOSE, "Erreur"),
		recent:      NewRecentExports(recentView),
		prefs:       w.Prefs,
		logger:      logger,
	}
	if w.Prefs != nil {
		sc.recent.FromRecentFiles(w.Prefs.Exports(), time.Now())
	}

	prov, _ := gtk.CssProviderNew()
	if err := prov.LoadFromData(stylesheet); err != nil {
		logger.Warn(err)
	}
	screen, _ := gdk.ScreenGetDefault()
	gtk.AddProviderForScreen(screen, prov, uint(gtk.STYLE_PROVIDER_PRIORITY_APPLICATION))
	mainWin.ShowAll()

	go loop(ctx, SinkUI, sc)
	gtk.Main()
	logger.Info("stop")
	mainWin.HandlerDisconnect(windestroyhandle)
	mainWin.Destroy()
}
