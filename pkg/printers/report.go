package printers

import (
	"fmt"

	"tableflip.dev/logger/pkg/app"
)

// Report prints entries grouped by day under a header naming the window.
func (pp *PrettyPrint) Report(result app.ReportResult, label string) {
	w := pp.out()
	if label != "" {
		since := result.Since.Local().Format("2006-01-02 15:04")
		until := result.Until.Local().Format("2006-01-02 15:04")
		_, _ = fmt.Fprintf(w, "Entries · %s (%s → %s)\n\n", label, since, until)
	}
	if result.Total == 0 {
		pp.Entries()
		return
	}
	for _, day := range result.Days {
		pp.TitleWithCount(day.Date.Format("Monday, January 2 2006"), len(day.Entries))
		pp.Entries(day.Entries...)
	}
}
