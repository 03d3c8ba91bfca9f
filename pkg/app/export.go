package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Export writes every entry to w in the requested format.
func (s *Service) Export(ctx context.Context, w io.Writer, format string) error {
	all, err := s.Entries(ctx)
	if err != nil {
		return err
	}
	switch strings.ToLower(format) {
	case "", FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(all); err != nil {
			return fmt.Errorf("app: export json: %w", err)
		}
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(all); err != nil {
			return fmt.Errorf("app: export yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("app: export yaml: %w", err)
		}
	default:
		return fmt.Errorf("app: unknown export format %q", format)
	}
	return nil
}
