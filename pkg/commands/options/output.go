package options

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// OutputOptions selects machine readable output. The zero value prints for
// humans.
type OutputOptions struct {
	JSON   bool
	Format string

	// Out defaults to color.Output.
	Out io.Writer
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
	cmd.Flags().StringVarP(&po.Format, "output", "o", "",
		"Output format. One of 'json' or 'yaml'.")
}

// Structured reports whether results should be encoded rather than pretty
// printed.
func (o *OutputOptions) Structured() bool {
	return o.format() != ""
}

func (o *OutputOptions) format() string {
	if o.JSON {
		return "json"
	}
	return strings.ToLower(o.Format)
}

func (o *OutputOptions) out() io.Writer {
	if o.Out == nil {
		return color.Output
	}
	return o.Out
}

// Print encodes v in the selected format.
func (o *OutputOptions) Print(v interface{}) error {
	switch o.format() {
	case "yaml", "yml":
		enc := yaml.NewEncoder(o.out())
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "json", "":
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(o.out(), string(b))
		return err
	default:
		return fmt.Errorf("unknown output format %q", o.Format)
	}
}

// HandleError prints err as a structured {error: ...} document when output
// is structured and swallows it; otherwise err is returned unchanged.
func (o *OutputOptions) HandleError(err error) error {
	if err == nil || !o.Structured() {
		return err
	}
	if perr := o.Print(map[string]string{"error": err.Error()}); perr != nil {
		return err
	}
	return nil
}
