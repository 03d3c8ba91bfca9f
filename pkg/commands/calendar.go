package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/logger/pkg/printers"
)

func addCalendar(topLevel *cobra.Command) {
	year := false

	cmd := &cobra.Command{
		Use:   "cal",
		Short: "show which days have entries",
		Example: `
logger cal
logger cal --year
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := so.Service()
			if err != nil {
				return err
			}
			all, err := svc.Entries(context.Background())
			if err != nil {
				return err
			}
			pp := printers.PrettyPrint{}
			if year {
				pp.ActivityYear(time.Now(), all...)
				return nil
			}
			pp.Activity(time.Now(), all...)
			return nil
		},
	}
	cmd.Flags().BoolVar(&year, "year", false, "Show the whole year.")

	topLevel.AddCommand(cmd)
}
