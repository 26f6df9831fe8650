package cli

import (
	"context"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/vburojevic/slotw/internal/output"
	"github.com/vburojevic/slotw/internal/session"
	"github.com/vburojevic/slotw/internal/tui"
)

// UICmd runs a watch session inside the interactive view
type UICmd struct {
	WatchFlags
	Buffer int `default:"64" help:"Events queued for the view before tailing waits"`
}

// Run executes the UI command
func (c *UICmd) Run(globals *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	settings := resolveWatchSettings(globals.Config, c.WatchFlags)
	feed := tui.NewFeed(c.Buffer)
	id := output.NewSessionID(globals.Clock.Now())
	tr, err := startSession(globals, id, settings, feed, feed.Warn)
	if err != nil {
		return err
	}

	// Quitting the view ends the session; a signal ends both.
	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		res        *session.Result
		sessionErr error
		uiErr      error
	)
	var g errgroup.Group
	g.Go(func() error {
		res, sessionErr = tr.Run(sessionCtx)
		return nil
	})
	g.Go(func() error {
		defer cancel()
		model := tui.New(settings.Slot, settings.Path, feed, tr.Poller(), tr.Snapshot)
		uiErr = tui.Run(sessionCtx, model)
		return nil
	})
	_ = g.Wait()

	// Final stats go to the normal terminal once the alt screen is gone.
	maybeNoStyle(globals)
	emitter := output.NewEmitter(globals.Stdout, globals.Format, id, globals.Clock)
	if uiErr != nil {
		_ = outputErrorCommon(globals, codeUIFailed, uiErr.Error())
	}
	if err := finishSession(globals, emitter, res, sessionErr); err != nil {
		return err
	}
	if uiErr != nil {
		return &CLIError{Code: codeUIFailed, Message: uiErr.Error()}
	}
	return nil
}
