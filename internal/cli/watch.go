package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/vburojevic/slotw/internal/output"
)

// WatchCmd tails the chat log and prints each slot event until interrupted
type WatchCmd struct {
	WatchFlags
}

// Run executes the watch command
func (c *WatchCmd) Run(globals *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return c.run(ctx, globals)
}

func (c *WatchCmd) run(ctx context.Context, globals *Globals) error {
	// Disable styles when stdout is not a TTY
	maybeNoStyle(globals)
	settings := resolveWatchSettings(globals.Config, c.WatchFlags)

	id := output.NewSessionID(globals.Clock.Now())
	emitter := output.NewEmitter(globals.Stdout, globals.Format, id, globals.Clock)
	tr, err := startSession(globals, id, settings, emitter, func(msg string) {
		emitWarning(globals, emitter, msg)
	})
	if err != nil {
		return err
	}

	if emitter.IsNDJSON() {
		_ = emitter.WriteNDJSON(func(w *output.NDJSONWriter) error {
			return w.WriteSessionStart(&output.SessionStartOutput{
				SessionID: id,
				Slot:      settings.Slot,
				Path:      settings.Path,
				Encoding:  settings.Encoding,
				Interval:  settings.Interval.String(),
				StartedAt: tr.StartedAt().Format("2006-01-02T15:04:05.000Z07:00"),
			})
		})
	} else {
		emitInfo(globals, "Watching "+settings.Path+" as "+settings.Slot+" (Ctrl+C to stop)")
	}

	res, runErr := tr.Run(ctx)
	return finishSession(globals, emitter, res, runErr)
}
