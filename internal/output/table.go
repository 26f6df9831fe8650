package output

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/vburojevic/slotw/internal/domain"
)

// RenderRoleTable writes the ranked role frequency table
func RenderRoleTable(w io.Writer, s domain.Snapshot) error {
	table := tablewriter.NewWriter(w)
	table.Header("Role", "Hits", "Rate")
	for _, r := range s.Ranked() {
		if err := table.Append(r.Name, strconv.Itoa(r.Count), FormatPercent(s.RoleRate(r.Count))); err != nil {
			return err
		}
	}
	return table.Render()
}

// RenderArchiveTable writes one row per archived summary file
func RenderArchiveTable(w io.Writer, archives []ArchiveOutput) error {
	table := tablewriter.NewWriter(w)
	table.Header("File", "Started", "Size")
	for _, a := range archives {
		if err := table.Append(a.Name, a.Timestamp, FormatInt(int(a.Size))); err != nil {
			return err
		}
	}
	return table.Render()
}
