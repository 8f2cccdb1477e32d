package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/JeanRibes/midi-pedal/config"
	"github.com/JeanRibes/midi-pedal/pedal"
	. "github.com/JeanRibes/midi-pedal/shared"
	"github.com/JeanRibes/midi-pedal/view"

	charmlog "github.com/charmbracelet/log"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
)

var ledColors = []view.Color{view.Red, view.Orange, view.Green, view.Blue}

type styled interface {
	GetStyleContext() (*gtk.StyleContext, error)
}

// setColor leaves exactly one colour class on the widget, none for Off.
func setColor(w styled, c view.Color) {
	sc, err := w.GetStyleContext()
	if err != nil {
		return
	}
	for _, other := range ledColors {
		sc.RemoveClass(string(other))
	}
	if c != view.Off {
		sc.AddClass(string(c))
	}
}

func render(s pedal.Snapshot) {
	for i, c := range view.TrackLEDs(s) {
		setColor(trackLeds[i], c)
	}
	setColor(ledPlayRec, view.TransportLED(s))
	setColor(ledStop, view.StopLED(s))
	loopProgress.SetFraction(view.Fraction(s.Loop))
	setColor(loopProgress, view.ProgressColor(s))
	statusLabel.SetText(view.Status(s))
}

// errorLog piles up the errors shown in the error dialog until it is closed.
// It is only touched from the GTK thread.
type errorLog struct {
	text string
}

func (e *errorLog) Add(msg string) string {
	if e.text == "" {
		e.text = msg
	} else {
		e.text += "\n\n" + msg
	}
	return e.text
}

func (e *errorLog) Reset() {
	e.text = ""
}

// screen is what an Update changes besides the widgets of handles.go. Its
// apply method runs on the GTK thread only.
type screen struct {
	errors      errorLog
	errorDialog *gtk.MessageDialog
	recent      *RecentExports
	prefs       *config.Preferences
	logger      *charmlog.Logger
}

func (sc *screen) apply(u pedal.Update) {
	render(u.Snapshot)
	if u.Error != "" {
		sc.errorDialog.FormatSecondaryText(sc.errors.Add(u.Error))
		sc.errorDialog.Show()
	}
	if u.Undo {
		statusLabel.SetText(fmt.Sprintf("annuler %s ?", TrackName(u.HeldTrack)))
	}
	if u.Exported != "" && sc.prefs != nil {
		sc.prefs.AddExport(u.Exported)
		if err := sc.prefs.Save(); err != nil {
			sc.logger.Warn("could not save preferences", "err", err)
		}
		sc.recent.FromRecentFiles(sc.prefs.Exports(), time.Now())
	}
}

func loop(ctx context.Context, SinkUI <-chan pedal.Update, sc *screen) {
	sc.errorDialog.Connect("response", func() {
		sc.errorDialog.Hide()
		sc.errors.Reset()
	})

	for {
		select {
		case <-ctx.Done():
			sc.logger.Debug("chan Done, quitting")
			glib.IdleAdd(gtk.MainQuit)
			return
		case u := <-SinkUI:
			glib.IdleAdd(func() { sc.apply(u) })
		}
	}
}
