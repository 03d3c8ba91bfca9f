package commands

import (
	"context"
	"io"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"tableflip.dev/logger/pkg/app"
)

func addExport(topLevel *cobra.Command) {
	format := app.FormatJSON
	out := ""

	cmd := &cobra.Command{
		Use:   "export",
		Short: "dump every entry as json or yaml",
		Example: `
logger export > entries.json
logger export --format yaml --out ~/logger.yaml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := so.Service()
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				path, err := homedir.Expand(out)
				if err != nil {
					return err
				}
				f, err := os.Create(path)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return svc.Export(context.Background(), w, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", app.FormatJSON, "Output format. One of 'json' or 'yaml'.")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to this file instead of stdout.")

	topLevel.AddCommand(cmd)
}
