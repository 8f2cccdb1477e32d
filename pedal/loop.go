package pedal

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	. "github.com/JeanRibes/midi-pedal/shared"

	charmlog "github.com/charmbracelet/log"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Update is what the presentation layers get after every change.
type Update struct {
	Snapshot  Snapshot
	Error     string
	HeldTrack int
	Held      time.Duration
	Undo      bool
	Exported  string
}

type Options struct {
	Notes    NoteMap
	Feedback *Feedback
	Session  *Session
	// UndoHold is the hold duration of a track button that counts as an undo
	// request, 0 disables it.
	UndoHold time.Duration
	Quantize bool
	Logger   *charmlog.Logger
}

func NewLogger(prefix string, level charmlog.Level) *charmlog.Logger {
	return charmlog.NewWithOptions(os.Stdout, charmlog.Options{
		Level:           level,
		ReportCaller:    level == charmlog.DebugLevel,
		ReportTimestamp: false,
		Prefix:          prefix,
	})
}

// NoteMessage turns an incoming Note-On into a bus message. Velocity is
// ignored, except that a Note-On with velocity 0 is a Note-Off.
func NoteMessage(msg midi.Message, notes NoteMap, at time.Time) (Message, bool) {
	var ch, key, vel uint8
	if !msg.GetNoteOn(&ch, &key, &vel) || vel == 0 {
		return Message{}, false
	}
	action, ok := notes.Resolve(key)
	if !ok {
		return Message{}, false
	}
	m := Message{Source: FromMIDI, At: at, Number: action.Track}
	switch action.Command {
	case ClearCmd:
		m.Type = Clear
	case ModeCmd:
		m.Type = ToggleMode
	case AdvanceCmd:
		m.Type = Advance
	case StopCmd:
		m.Type = Stop
	case SelectCmd:
		m.Type = SelectTrack
	case MuteCmd:
		m.Type = ToggleMute
	}
	return m, true
}

// Listen forwards the pedal notes of in to SinkLoop. The MIDI callback never
// blocks: messages are dropped when the loop is that far behind.
func Listen(in drivers.In, notes NoteMap, SinkLoop chan<- Message, logger *charmlog.Logger) (func(), error) {
	return midi.ListenTo(in, func(msg midi.Message, absms int32) {
		m, ok := NoteMessage(msg, notes, time.Now())
		if !ok {
			logger.Debug("ignored", "msg", msg.String())
			return
		}
		select {
		case SinkLoop <- m:
		default:
			logger.Warn("loop is busy, dropping", "event", m.Type)
		}
	})
}

/*
Run owns the controller until ctx is done or a Quit message arrives. MIDI
notes, UI messages and loop clock ticks are all handled here, one at a time.
in may be nil, in which case only SinkLoop drives the pedal.
*/
func Run(ctx context.Context, in drivers.In, c *Controller, opts Options, SinkUI chan<- Update, SinkLoop chan Message) error {
	logger := opts.Logger
	if logger == nil {
		logger = NewLogger("pedal", charmlog.InfoLevel)
	}
	logger.Info("start")
	ctx = charmlog.WithContext(ctx, logger)

	if in != nil {
		logger.Info("connecting to", "input", in.String())
		stop, err := Listen(in, opts.Notes, SinkLoop, logger)
		if err != nil {
			return fmt.Errorf("listen to %s: %w", in.String(), err)
		}
		defer stop()
	} else {
		logger.Warn("no MIDI input, UI only")
	}

	d := newDispatcher(ctx, c, opts, SinkUI)
	// c may come from a previous Run with its loop already going
	d.syncTicker(true)
	defer d.stopTicker()
	d.notify(Update{Snapshot: c.Snapshot()})

	for {
		select {
		case <-ctx.Done():
			logger.Debug("context Done")
			return nil
		case msg := <-SinkLoop:
			if msg.Type == Quit {
				logger.Info("stop")
				return nil
			}
			d.handle(msg)
		case <-d.tickC:
			d.tick()
		}
	}
}

type dispatcher struct {
	c       *Controller
	opts    Options
	logger  *charmlog.Logger
	sinkUI  chan<- Update
	session *Session

	ticker *time.Ticker
	tickC  <-chan time.Time
	period time.Duration
}

func newDispatcher(ctx context.Context, c *Controller, opts Options, SinkUI chan<- Update) *dispatcher {
	session := opts.Session
	if session == nil {
		session = NewSession()
	}
	return &dispatcher{
		c:       c,
		opts:    opts,
		logger:  charmlog.FromContext(ctx),
		sinkUI:  SinkUI,
		session: session,
	}
}

func (d *dispatcher) handle(msg Message) {
	var action Action
	accepted := false
	update := Update{}
	before := d.c.State()

	switch msg.Type {
	case Advance:
		action = Action{Command: AdvanceCmd}
		accepted = d.c.AdvanceAt(msg.At)
	case Stop:
		action = Action{Command: StopCmd}
		accepted = d.c.Stop()
	case ToggleMode:
		action = Action{Command: ModeCmd}
		request := Auto
		if msg.Boolean {
			request = Mode(msg.Number)
		}
		accepted = d.c.ToggleMode(request)
	case Clear:
		action = Action{Command: ClearCmd}
		accepted = d.c.Clear()
	case SelectTrack:
		action = Action{Command: SelectCmd, Track: msg.Number}
		accepted = d.c.SelectTrack(msg.Number)
	case ToggleMute:
		action = Action{Command: MuteCmd, Track: msg.Number}
		accepted = d.c.ToggleMute(msg.Number)
	case TrackPress:
		action, accepted = d.c.PressTrack(msg.Number)
	case TrackRelease:
		held := d.c.ReleaseTrack(msg.Number)
		if held == 0 {
			return
		}
		update.HeldTrack = msg.Number
		update.Held = held
		if d.opts.UndoHold > 0 && held >= d.opts.UndoHold {
			update.Undo = true
			d.logger.Info("undo requested", "track", TrackName(msg.Number), "held", held)
		} else {
			d.logger.Debug("track released", "track", TrackName(msg.Number), "held", held)
		}
		update.Snapshot = d.c.Snapshot()
		d.notify(update)
		return
	case ExportSession:
		d.export(msg.String)
		return
	default:
		d.logger.Printf("unknown message type: %v", msg.Type)
		return
	}

	if !accepted {
		d.logger.Debug("ignored", "event", msg.Type, "state", d.c.State(), "mode", d.c.Mode())
		return
	}
	d.logger.Debug("accepted", "event", msg.Type, "state", d.c.State(), "mode", d.c.Mode())

	d.opts.Feedback.Emit(action, msg.Source)
	if note, ok := d.opts.Notes.Note(action); ok {
		d.session.Record(note, d.c.now())
	}
	d.syncTicker(progressRestarted(action, before))

	update.Snapshot = d.c.Snapshot()
	d.notify(update)
}

func (d *dispatcher) tick() {
	if d.c.Tick() {
		d.notify(Update{Snapshot: d.c.Snapshot()})
	}
}

func (d *dispatcher) export(filepath string) {
	if !strings.HasSuffix(filepath, ".mid") {
		filepath += ".mid"
	}
	bpm := LoopBPM(d.c.Snapshot().Loop.Length)
	d.logger.Info("saving to", "filename", filepath, "bpm", bpm, "notes", d.session.Len())
	update := Update{Snapshot: d.c.Snapshot()}
	if err := d.session.Export(filepath, bpm, d.opts.Quantize); err != nil {
		d.logger.Error(err)
		update.Error = err.Error()
	} else {
		update.Exported = filepath
	}
	d.notify(update)
}

// progressRestarted tells whether an accepted action sent the loop progress
// back to 0. Overdubbing and Playing share the same running clock.
func progressRestarted(a Action, before TransportState) bool {
	switch a.Command {
	case ClearCmd:
		return true
	case AdvanceCmd:
		return before == Recording || before == Stopped
	}
	return false
}

// syncTicker follows the loop clock period. restart realigns a running ticker
// on the current instant, for when progress went back to 0.
func (d *dispatcher) syncTicker(restart bool) {
	period := d.c.TickPeriod()
	if period == d.period && !restart {
		return
	}
	d.stopTicker()
	if period > 0 {
		d.ticker = time.NewTicker(period)
		d.tickC = d.ticker.C
		d.logger.Debug("loop clock", "period", period)
	}
	d.period = period
}

func (d *dispatcher) stopTicker() {
	if d.ticker != nil {
		d.ticker.Stop()
	}
	d.ticker = nil
	d.tickC = nil
	d.period = 0
}

// notify never blocks the loop: a slow UI skips updates, the next one carries
// the whole state anyway.
func (d *dispatcher) notify(u Update) {
	if d.sinkUI == nil {
		return
	}
	select {
	case d.sinkUI <- u:
	default:
	}
}
