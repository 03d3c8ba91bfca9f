package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"tableflip.dev/logger/pkg/commands/options"
	"tableflip.dev/logger/pkg/entry"
	"tableflip.dev/logger/pkg/printers"
)

func addAdd(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "log a line of text",
		Example: `
logger add walked the dog
logger add "planted beans #garden"
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := so.Service()
			if err != nil {
				return oo.HandleError(err)
			}
			e, err := svc.Create(context.Background(), strings.Join(args, " "))
			if err != nil {
				return oo.HandleError(err)
			}
			return printCreated(oo, e)
		},
	}
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addPhoto(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "photo <file>",
		Short: "log a photo",
		Example: `
logger photo ~/Pictures/sunset.jpg
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			path, err := homedir.Expand(args[0])
			if err != nil {
				return oo.HandleError(err)
			}
			svc, err := so.Service()
			if err != nil {
				return oo.HandleError(err)
			}
			e, err := svc.CreatePhoto(context.Background(), path)
			if err != nil {
				return oo.HandleError(err)
			}
			return printCreated(oo, e)
		},
	}
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func printCreated(oo *options.OutputOptions, e *entry.Entry) error {
	if e == nil {
		return oo.HandleError(errors.New("no entry created"))
	}
	if oo.Structured() {
		return oo.Print(e)
	}
	pp := printers.PrettyPrint{ShowID: true}
	pp.Entries(e)
	return nil
}
