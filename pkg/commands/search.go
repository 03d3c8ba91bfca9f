package commands

import (
	"context"
	"errors"
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/logger/pkg/commands/options"
	"tableflip.dev/logger/pkg/entry"
	"tableflip.dev/logger/pkg/printers"
	"tableflip.dev/logger/pkg/store"
)

func addSearch(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "fuzzy search entries, best match first",
		Long: base.Wrap80(`Search ranks entries by fuzzy match against the query.
A query of a single #hashtag lists entries carrying that tag first.`),
		Example: `
logger search cat food
logger search "#garden"
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := so.Service()
			if err != nil {
				return oo.HandleError(err)
			}
			ctx := context.Background()
			ids, err := svc.Search(ctx, strings.Join(args, " "))
			if err != nil {
				return oo.HandleError(err)
			}

			found := make([]*entry.Entry, 0, len(ids))
			for _, id := range ids {
				e, err := svc.Entry(ctx, id)
				if errors.Is(err, store.ErrNotFound) {
					continue
				}
				if err != nil {
					return oo.HandleError(err)
				}
				found = append(found, e)
			}

			if oo.Structured() {
				return oo.Print(found)
			}
			pp := printers.PrettyPrint{ShowID: true}
			pp.TitleWithCount("Matches", len(found))
			pp.Entries(found...)
			return nil
		},
	}
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
