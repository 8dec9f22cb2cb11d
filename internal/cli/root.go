// Package cli wires the protobench commands.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"protobench/internal/config"
	"protobench/internal/output"
)

// Process exit codes.
const (
	ExitSuccess         = 0
	ExitThresholdFailed = 1
	ExitError           = 2
)

// ErrThresholdFailed is returned by run when a configured threshold is
// violated. The report has already been written.
var ErrThresholdFailed = errors.New("threshold check failed")

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	cfgFile string
	verbose bool
	quiet   bool
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "protobench",
		Short: "Compare single-call agent and chained tool-call protocols",
		Long: `protobench runs the same deterministic dataset through two worker
interaction patterns and reports latency, success rate and message count:

  A2A  one combined analyze-and-summarize request per item
  MCP  analyze_data followed by generate_summary per item`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetLogger(output.NewLogger(cmd.ErrOrStderr(), opts.verbose))
		},
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is ./"+config.DefaultFile+")")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug output (request/response logging)")
	root.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress per-request progress output")

	root.AddCommand(
		newGenerateCommand(opts),
		newRunCommand(opts),
		newCompareCommand(opts),
	)
	return root
}

// Execute runs the root command with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrThresholdFailed):
		return ExitThresholdFailed
	default:
		return ExitError
	}
}

// loadConfig loads the config file named by --config or the default one.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	return config.Load(o.cfgFile)
}
