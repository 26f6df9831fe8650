package cli

import (
	"path/filepath"

	"github.com/vburojevic/slotw/internal/output"
	"github.com/vburojevic/slotw/internal/summary"
)

// SummaryCmd decodes and prints one summary file
type SummaryCmd struct {
	File string `arg:"" type:"path" help:"Summary file (<slot>_info_<timestamp>.log)"`
}

// Run executes the summary command
func (c *SummaryCmd) Run(globals *Globals) error {
	maybeNoStyle(globals)
	snap, err := summary.ReadFile(c.File)
	if err != nil {
		return outputErrorCommon(globals, codeSummaryRead, err.Error(), "List archives with `slotw sessions`")
	}

	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteStats(output.NewStatsOutput("", snap))
	}
	return output.NewTextWriter(globals.Stdout).WriteStats(filepath.Base(c.File), snap)
}
