package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/logger/pkg/commands/options"
	"tableflip.dev/logger/pkg/entry"
	"tableflip.dev/logger/pkg/printers"
)

func addList(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	wo := &options.WindowOptions{}
	table := false

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "list entries grouped by day",
		Long: `List prints entries grouped by the day they were logged, oldest first.

Examples:
  logger list
  logger list --since today
  logger list --since 3d
  logger list --since 1w2d --table`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			now := time.Now()
			since, label, err := wo.Cutoff(now)
			if err != nil {
				return oo.HandleError(err)
			}
			svc, err := so.Service()
			if err != nil {
				return oo.HandleError(err)
			}
			result, err := svc.Report(context.Background(), since, now)
			if err != nil {
				return oo.HandleError(err)
			}

			if oo.Structured() {
				return oo.Print(result)
			}
			pp := printers.PrettyPrint{ShowID: true}
			if table {
				all := make([]*entry.Entry, 0, result.Total)
				for _, day := range result.Days {
					all = append(all, day.Entries...)
				}
				pp.Table(all...)
				return nil
			}
			pp.Report(result, label)
			return nil
		},
	}
	options.AddOutputArg(cmd, oo)
	options.AddWindowArg(cmd, wo)
	cmd.Flags().BoolVar(&table, "table", false, "Print entries as a table.")

	topLevel.AddCommand(cmd)
}
