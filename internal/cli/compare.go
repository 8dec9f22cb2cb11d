package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"protobench/internal/collector"
	"protobench/internal/config"
	"protobench/internal/core"
	"protobench/internal/output"
)

func newCompareCommand(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "compare BASE OTHER",
		Short: "Compare two saved result files",
		Long: `Recomputes the summaries of two record files written by run and prints
them side by side. Deltas are OTHER minus BASE.`,
		Example: `  protobench compare a2a_results.json mcp_results.json`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != config.FormatText && format != config.FormatJSON {
				return fmt.Errorf("--format must be 'text' or 'json', got %q", format)
			}

			base, err := summarizeFile(args[0])
			if err != nil {
				return err
			}
			other, err := summarizeFile(args[1])
			if err != nil {
				return err
			}
			return writeComparison(cmd.OutOrStdout(), format, collector.Compare(base, other))
		},
	}

	cmd.Flags().StringVar(&format, "format", config.FormatText, "output format: text, json")
	return cmd
}

// summarizeFile loads a record file and summarizes it under the protocol
// named in its records, or the file name when it holds none.
func summarizeFile(path string) (*collector.Summary, error) {
	records, err := output.ReadRecords(path)
	if err != nil {
		return nil, err
	}
	return collector.Compute(protocolOf(path, records), records), nil
}

func protocolOf(path string, records []core.Record) string {
	if len(records) > 0 && records[0].Protocol != "" {
		return records[0].Protocol
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.ToUpper(strings.TrimSuffix(name, "_results"))
}

func writeComparison(w io.Writer, format string, c *collector.Comparison) error {
	if format == config.FormatJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(c)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Comparison ===")
	collector.FormatComparison(w, c)
	return nil
}
