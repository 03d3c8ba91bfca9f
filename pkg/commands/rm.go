package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/logger/pkg/commands/options"
)

func addRemove(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"delete"},
		Short:   "delete entries by id",
		Example: `
logger rm 12
logger rm 12 13 14
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil || id <= 0 {
					return oo.HandleError(fmt.Errorf("invalid entry id %q", arg))
				}
				ids = append(ids, id)
			}

			svc, err := so.Service()
			if err != nil {
				return oo.HandleError(err)
			}
			ctx := context.Background()
			for _, id := range ids {
				if err := svc.Delete(ctx, id); err != nil {
					return oo.HandleError(err)
				}
			}
			if oo.Structured() {
				return oo.Print(map[string][]int64{"deleted": ids})
			}
			for _, id := range ids {
				_, _ = fmt.Fprintf(color.Output, "deleted %d\n", id)
			}
			return nil
		},
	}
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
