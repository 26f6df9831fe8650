package cli

import (
	"fmt"

	"github.com/vburojevic/slotw/internal/output"
)

// Error codes emitted by commands
const (
	codeInvalidFlags   = "INVALID_FLAGS"
	codeFileNotFound   = "FILE_NOT_FOUND"
	codeNoSlotName     = "NO_SLOT_NAME"
	codeSessionFailed  = "SESSION_FAILED"
	codeSummaryWrite   = "SUMMARY_WRITE_FAILED"
	codeSummaryRead    = "SUMMARY_READ_FAILED"
	codeListArchives   = "LIST_ARCHIVES_ERROR"
	codeNoArchives     = "NO_ARCHIVES"
	codeConfigGenerate = "CONFIG_GENERATE_FAILED"
	codeUIFailed       = "UI_FAILED"
)

// outputErrorCommon normalizes error emission across commands, respecting
// ndjson vs text formats so scripts always get machine-readable failures.
func outputErrorCommon(globals *Globals, code, message string, hint ...string) error {
	e := &CLIError{Code: code, Message: message}
	if len(hint) > 0 {
		e.Hint = hint[0]
	}
	if globals == nil {
		return e
	}
	if globals.Format == "ndjson" {
		_ = output.NewNDJSONWriter(globals.Stdout).WriteError(code, message, e.Hint)
		return e
	}
	fmt.Fprintf(globals.Stderr, "Error [%s]: %s\n", code, message)
	if e.Hint != "" {
		fmt.Fprintf(globals.Stderr, "Hint: %s\n", e.Hint)
	}
	return e
}
