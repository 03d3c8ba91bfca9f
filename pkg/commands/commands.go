package commands

import (
	"os"

	"github.com/mattn/go-isatty"
	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/logger/pkg/commands/options"
	teaui "tableflip.dev/logger/pkg/tui/app"
)

var (
	so = &options.StoreOptions{}
)

// runUI is swapped out in tests.
var runUI = teaui.Run

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "logger",
		Short: base.Wrap80("A quick personal log: jot a line, attach a photo, find it again."),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdin.Fd()) || !isatty.IsTerminal(os.Stdout.Fd()) {
				return cmd.Help()
			}
			svc, err := so.Service()
			if err != nil {
				return err
			}
			return runUI(svc)
		},
	}
	options.AddStoreArg(cmd, so)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addAdd(topLevel)
	addPhoto(topLevel)
	addRemove(topLevel)
	addSearch(topLevel)
	addList(topLevel)
	addCalendar(topLevel)
	addExport(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}
