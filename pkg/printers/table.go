package printers

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/logger/pkg/entry"
)

// Table prints entries as aligned columns, for piping and quick scans.
func (pp *PrettyPrint) Table(entries ...*entry.Entry) {
	bold := color.New(color.Bold).SprintFunc()

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.Wrap = true
	tbl.AddRow(bold("ID"), bold("Created"), bold("Text"), bold("Photo"))
	for _, e := range entries {
		if e == nil {
			continue
		}
		tbl.AddRow(e.ID, e.Created.Local().Format("2006-01-02 15:04"), e.Text, shortRef(e.Photo))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}
