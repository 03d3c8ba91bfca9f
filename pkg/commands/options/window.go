package options

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/logger/pkg/timeutil"
)

// WindowOptions limits output to entries created within a trailing window.
type WindowOptions struct {
	Since string
}

func AddWindowArg(cmd *cobra.Command, wo *WindowOptions) {
	cmd.Flags().StringVar(&wo.Since, "since", "",
		"Only include entries from this window (for example today, 3d, 1w2d). Default is everything.")
	cmd.Flags().Lookup("since").NoOptDefVal = timeutil.DefaultWindow
}

// Cutoff returns the start of the window and its label. A zero time means
// everything.
func (wo *WindowOptions) Cutoff(now time.Time) (time.Time, string, error) {
	if wo.Since == "" {
		return time.Time{}, "", nil
	}
	return timeutil.Cutoff(wo.Since, now)
}
