package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/vburojevic/slotw/internal/output"
	"github.com/vburojevic/slotw/internal/summary"
)

// HistoryCmd sums every archived summary of a slot
type HistoryCmd struct {
	Slot    string `arg:"" optional:"" help:"Slot name (default: session.slot_name)"`
	LogDir  string `help:"Directory holding the archives (default: session.log_dir)"`
	Workers int    `default:"4" help:"Summary files decoded in parallel"`
}

// Run executes the history command
func (c *HistoryCmd) Run(globals *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return c.run(ctx, globals)
}

func (c *HistoryCmd) run(ctx context.Context, globals *Globals) error {
	maybeNoStyle(globals)
	slot, dir := archiveScope(globals, c.Slot, c.LogDir)
	if slot == "" {
		return outputErrorCommon(globals, codeNoSlotName, "slot name is required", "Pass the slot name as an argument")
	}

	files, err := summary.ListArchives(dir, slot)
	if err != nil {
		return outputErrorCommon(globals, codeListArchives, err.Error())
	}
	globals.Debug("history %s: %d archives in %s", slot, len(files), dir)

	r := summary.NewReconciler(globals.Logger)
	r.Workers = c.Workers
	total, report := r.Reconcile(ctx, files)

	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteHistory(&output.HistoryOutput{
			Slot:    slot,
			Files:   len(report.Files),
			Used:    report.Used,
			Skipped: report.Skipped,
			Stats:   output.NewStatsOutput("", total),
		})
	}

	if len(files) == 0 {
		emitInfo(globals, fmt.Sprintf("No archived sessions for %s in %s", slot, dir))
	}
	if err := output.NewTextWriter(globals.Stdout).WriteStats("History "+slot, total); err != nil {
		return err
	}
	fmt.Fprintf(globals.Stdout, "\nSessions: %d", report.Used)
	if n := len(report.Skipped); n > 0 {
		fmt.Fprintf(globals.Stdout, " (%d unreadable skipped)", n)
	}
	fmt.Fprintln(globals.Stdout)
	for _, path := range report.Skipped {
		emitWarning(globals, nil, "skipped unreadable summary "+path)
	}
	return nil
}

// archiveScope resolves slot and directory from args and config
func archiveScope(globals *Globals, slot, dir string) (string, string) {
	if slot == "" && globals.Config != nil {
		slot = globals.Config.Session.SlotName
	}
	if dir == "" && globals.Config != nil {
		dir = globals.Config.Session.LogDir
	}
	return slot, dir
}
