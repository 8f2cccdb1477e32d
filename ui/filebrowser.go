package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/JeanRibes/midi-pedal/config"

	"github.com/charmbracelet/log"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
)

// RecentExports is the table of the last exported sessions, newest first.
type RecentExports struct {
	listStore *gtk.ListStore
	home      string
}

const (
	COL_SESSION = iota
	COL_FOLDER
	COL_AGE
)

func NewRecentExports(treeView *gtk.TreeView) *RecentExports {
	for col, title := range []string{"session", "dossier", "exportée"} {
		renderer, _ := gtk.CellRendererTextNew()
		column, _ := gtk.TreeViewColumnNewWithAttribute(title, renderer, "text", col)
		column.SetResizable(true)
		treeView.AppendColumn(column)
	}

	listStore, err := gtk.ListStoreNew(glib.TYPE_STRING, glib.TYPE_STRING, glib.TYPE_STRING)
	if err != nil {
		log.Fatal("Unable to create list store:", err)
	}
	treeView.SetModel(listStore)
	return &RecentExports{listStore: listStore, home: glib.GetHomeDir()}
}

// exportAge says how long ago a session was exported, the date once it is
// older than a day.
func exportAge(at, now time.Time) string {
	d := now.Sub(at)
	switch {
	case d < time.Minute:
		return "à l'instant"
	case d < time.Hour:
		return fmt.Sprintf("il y a %d min", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("il y a %d h", int(d/time.Hour))
	}
	return at.Format("02/01/2006")
}

// shortDir replaces the home directory by ~.
func shortDir(path, home string) string {
	dir := filepath.Dir(path)
	if home != "" && (dir == home || strings.HasPrefix(dir, home+string(filepath.Separator))) {
		return "~" + strings.TrimPrefix(dir, home)
	}
	return dir
}

func (r *RecentExports) FromRecentFiles(files config.RecentFiles, now time.Time) {
	r.listStore.Clear()
	for _, f := range files {
		iter := r.listStore.Append()
		r.listStore.Set(iter,
			[]int{COL_SESSION, COL_FOLDER, COL_AGE},
			[]interface{}{
				strings.TrimSuffix(filepath.Base(f.Path), ".mid"),
				shortDir(f.Path, r.home),
				exportAge(time.Unix(f.Time, 0), now),
			})
	}
}
