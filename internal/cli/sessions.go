package cli

import (
	"fmt"

	"github.com/vburojevic/slotw/internal/output"
	"github.com/vburojevic/slotw/internal/summary"
)

// SessionsCmd inspects archived session summaries
type SessionsCmd struct {
	List SessionsListCmd `cmd:"" default:"withargs" help:"List summary files of a slot"`
	Show SessionsShowCmd `cmd:"" help:"Show path to a summary file"`
}

// SessionsListCmd lists summary files
type SessionsListCmd struct {
	Slot   string `arg:"" optional:"" help:"Slot name (default: session.slot_name)"`
	LogDir string `help:"Directory holding the archives (default: session.log_dir)"`
	Limit  int    `default:"20" help:"Max sessions to show, newest first (0 for all)"`
}

// Run executes the sessions list command
func (c *SessionsListCmd) Run(globals *Globals) error {
	maybeNoStyle(globals)
	archives, dir, err := loadArchives(globals, c.Slot, c.LogDir)
	if err != nil {
		return err
	}

	if len(archives) == 0 {
		if globals.Format == "ndjson" {
			return output.NewNDJSONWriter(globals.Stdout).WriteInfo("No session files found")
		}
		fmt.Fprintln(globals.Stdout, "No session files found")
		fmt.Fprintf(globals.Stdout, "Session directory: %s\n", dir)
		return nil
	}

	// Newest first, then limit
	newest := make([]output.ArchiveOutput, 0, len(archives))
	for i := len(archives) - 1; i >= 0; i-- {
		newest = append(newest, archives[i])
	}
	if c.Limit > 0 && len(newest) > c.Limit {
		newest = newest[:c.Limit]
	}

	if globals.Format == "ndjson" {
		w := output.NewNDJSONWriter(globals.Stdout)
		for i := range newest {
			if err := w.WriteArchive(&newest[i]); err != nil {
				return err
			}
		}
		return nil
	}

	fmt.Fprintf(globals.Stdout, "Session files (%d):\n", len(archives))
	if err := output.RenderArchiveTable(globals.Stdout, newest); err != nil {
		return err
	}
	fmt.Fprintf(globals.Stdout, "\nDirectory: %s\n", dir)
	return nil
}

// SessionsShowCmd prints the path of one summary file
type SessionsShowCmd struct {
	Index  int    `arg:"" optional:"" help:"Session index from list (1 = newest)"`
	Slot   string `short:"s" help:"Slot name (default: session.slot_name)"`
	LogDir string `help:"Directory holding the archives (default: session.log_dir)"`
}

// Run executes the sessions show command
func (c *SessionsShowCmd) Run(globals *Globals) error {
	archives, _, err := loadArchives(globals, c.Slot, c.LogDir)
	if err != nil {
		return err
	}
	if len(archives) == 0 {
		return outputErrorCommon(globals, codeNoArchives, "no session files found")
	}

	index := c.Index
	if index == 0 {
		index = 1
	}
	if index < 1 || index > len(archives) {
		return outputErrorCommon(globals, codeInvalidFlags, fmt.Sprintf("invalid index %d (have %d sessions)", c.Index, len(archives)))
	}
	a := archives[len(archives)-index]

	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteArchive(&a)
	}
	fmt.Fprintln(globals.Stdout, a.Path)
	return nil
}

// loadArchives lists a slot's summaries oldest first
func loadArchives(globals *Globals, slot, dir string) ([]output.ArchiveOutput, string, error) {
	slot, dir = archiveScope(globals, slot, dir)
	if slot == "" {
		return nil, dir, outputErrorCommon(globals, codeNoSlotName, "slot name is required")
	}
	files, err := summary.ListArchives(dir, slot)
	if err != nil {
		return nil, dir, outputErrorCommon(globals, codeListArchives, err.Error())
	}

	described := summary.DescribeArchives(files)
	out := make([]output.ArchiveOutput, 0, len(described))
	for _, a := range described {
		out = append(out, output.ArchiveOutput{
			Name:      a.Name,
			Path:      a.Path,
			Timestamp: a.Timestamp.Format("2006-01-02 15:04:05"),
			Size:      a.Size,
		})
	}
	return out, dir, nil
}
