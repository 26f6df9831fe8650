package cli

import (
	"fmt"

	"github.com/mattn/go-isatty"

	"github.com/vburojevic/slotw/internal/output"
)

// emitWarning respects format/quiet.
func emitWarning(globals *Globals, emitter *output.Emitter, msg string) {
	if globals.Quiet {
		return
	}
	if globals.Format == "ndjson" && emitter != nil {
		_ = emitter.Warning(msg)
		return
	}
	fmt.Fprintf(globals.Stderr, "Warning: %s\n", msg)
}

// emitInfo writes a status line; text goes to stderr so stdout stays
// events and stats only.
func emitInfo(globals *Globals, msg string) {
	if globals.Quiet {
		return
	}
	if globals.Format == "ndjson" {
		_ = output.NewNDJSONWriter(globals.Stdout).WriteInfo(msg)
		return
	}
	fmt.Fprintln(globals.Stderr, output.Styles.Label.Render(msg))
}

// maybeNoStyle disables styles when stdout is not a TTY
func maybeNoStyle(globals *Globals) {
	if globals == nil || globals.Stdout == nil {
		return
	}
	f, ok := globals.Stdout.(interface{ Fd() uintptr })
	if !ok || !isatty.IsTerminal(f.Fd()) {
		output.DisableColors()
	}
}
