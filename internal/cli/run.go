package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"protobench/internal/collector"
	"protobench/internal/config"
	"protobench/internal/core"
	"protobench/internal/dataset"
	transport "protobench/internal/http"
	"protobench/internal/output"
	"protobench/internal/progress"
	"protobench/internal/protocol"
	"protobench/internal/ratelimit"
)

// Protocol selectors accepted by run.
const (
	selectA2A = "a2a"
	selectMCP = "mcp"
	selectAll = "all"
)

type runOptions struct {
	datasetPath string
	outputDir   string
	format      string
	csv         bool
	warmup      int
	rps         float64
	timeout     time.Duration
	a2aURL      string
	mcpURL      string
}

func newRunCommand(opts *globalOptions) *cobra.Command {
	ro := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [a2a|mcp|all]",
		Short: "Run the experiment for one or both protocols",
		Long: `Loads the shared dataset and sends every item through the selected
protocol, strictly one request at a time. Each run writes
<protocol>_results.json and <protocol>_summary.json to the output directory
and prints a summary report. With "all" both protocols run over the same
dataset and a side-by-side comparison follows.

Exit status is 1 when a configured threshold is violated and 2 on any other
error. Per-request failures are recorded, never fatal.`,
		Example: `  # Both protocols against local workers
  protobench run

  # Only MCP, JSON report, paced at 5 requests per second
  protobench run mcp --format json --rps 5

  # Custom endpoints and a CSV export
  protobench run all --a2a-url http://agent:5002/process_task --mcp-url http://tools:5001 --csv`,
		ValidArgs: []string{selectA2A, selectMCP, selectAll},
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			ro.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			selected := selectAll
			if len(args) == 1 {
				selected = args[0]
			}

			r := &runner{
				cfg:    cfg,
				stdout: cmd.OutOrStdout(),
				stderr: cmd.ErrOrStderr(),
				quiet:  opts.quiet,
			}
			if opts.verbose {
				r.debug = transport.NewDebugLogger(cmd.ErrOrStderr())
			}
			return r.run(cmd.Context(), selected)
		},
	}

	f := cmd.Flags()
	f.StringVar(&ro.datasetPath, "dataset", "", "dataset file (default from config)")
	f.StringVarP(&ro.outputDir, "output-dir", "o", "", "directory for result files (default from config)")
	f.StringVar(&ro.format, "format", "", "report format: text, json")
	f.BoolVar(&ro.csv, "csv", false, "also write <protocol>_results.csv")
	f.IntVar(&ro.warmup, "warmup", 0, "warmup exchanges before measuring")
	f.Float64Var(&ro.rps, "rps", 0, "pace requests to this rate (0 = unpaced)")
	f.DurationVar(&ro.timeout, "timeout", 0, "per-call deadline")
	f.StringVar(&ro.a2aURL, "a2a-url", "", "agent process_task URL")
	f.StringVar(&ro.mcpURL, "mcp-url", "", "tool server base URL")
	return cmd
}

// apply overrides config values with flags the user set explicitly.
func (ro *runOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("dataset") {
		cfg.Dataset.Path = ro.datasetPath
	}
	if changed("output-dir") {
		cfg.Output.Dir = ro.outputDir
	}
	if changed("format") {
		cfg.Output.Format = ro.format
	}
	if changed("csv") {
		cfg.Output.CSV = ro.csv
	}
	if changed("warmup") {
		cfg.Execution.WarmupIterations = ro.warmup
	}
	if changed("rps") {
		cfg.Execution.RPS = ro.rps
	}
	if changed("timeout") {
		cfg.Execution.Timeout = ro.timeout
	}
	if changed("a2a-url") {
		cfg.A2A.URL = ro.a2aURL
	}
	if changed("mcp-url") {
		cfg.MCP.BaseURL = ro.mcpURL
	}
}

// runner executes one run invocation.
type runner struct {
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
	quiet  bool
	debug  *transport.DebugLogger
}

func (r *runner) run(ctx context.Context, selected string) error {
	ds, err := dataset.Load(r.cfg.Dataset.Path)
	if err != nil {
		return err
	}
	digest := ds.Digest()
	output.Logger.Debug("dataset loaded", "path", r.cfg.Dataset.Path, "cases", len(ds), "digest", digest)

	client := transport.NewClient(&http.Client{Timeout: r.cfg.Execution.Timeout}, r.debug)

	var names []string
	switch selected {
	case selectA2A:
		names = []string{protocol.NameA2A}
	case selectMCP:
		names = []string{protocol.NameMCP}
	default:
		names = []string{protocol.NameA2A, protocol.NameMCP}
	}

	prog := progress.NewProgress(r.quiet)
	prog.SetOutput(r.stderr)

	thresholdsPassed := true
	summaries := make([]*collector.Summary, 0, len(names))
	for _, name := range names {
		// Every protocol sees the same loaded slice.
		summary, passed, err := r.runProtocol(ctx, name, r.exchange(name, client), ds, digest, prog)
		if err != nil {
			return err
		}
		summaries = append(summaries, summary)
		thresholdsPassed = thresholdsPassed && passed

		if ctx.Err() != nil {
			output.Logger.Warn("run interrupted; partial results written", "protocol", name)
			return nil
		}
	}

	if len(summaries) == 2 {
		if err := writeComparison(r.stdout, r.cfg.Output.Format, collector.Compare(summaries[0], summaries[1])); err != nil {
			return err
		}
	}

	if !thresholdsPassed {
		if r.cfg.Output.Format == config.FormatText {
			fmt.Fprintln(r.stderr, "\nThreshold check failed!")
		}
		return ErrThresholdFailed
	}
	return nil
}

func (r *runner) exchange(name string, poster protocol.Poster) core.Exchange {
	if name == protocol.NameA2A {
		return protocol.NewA2A(r.cfg.A2A.URL, poster)
	}
	return protocol.NewMCP(r.cfg.MCP.BaseURL, poster)
}

// runProtocol runs one protocol, persists its artifacts and prints its
// report. It reports whether the configured thresholds passed.
func (r *runner) runProtocol(ctx context.Context, name string, exchange core.Exchange, ds dataset.Dataset, digest string, prog *progress.Progress) (*collector.Summary, bool, error) {
	runnerConfig := core.RunnerConfig{WarmupIters: r.cfg.Execution.WarmupIterations}
	if r.cfg.Execution.RPS > 0 {
		limiter := ratelimit.NewRateLimiter(r.cfg.Execution.RPS)
		output.Logger.Debug("pacing requests", "protocol", name, "rps", limiter.Rate())
		runnerConfig.Limiter = limiter
	}

	prog.Start(name, len(ds))
	records, summary, err := collector.Run(ctx, name, ds, exchange, prog, runnerConfig)
	prog.Stop()
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return nil, false, err
	}

	var results *collector.ThresholdResults
	if r.cfg.Thresholds != nil {
		results = r.cfg.Thresholds.Check(summary)
		for _, v := range results.Violations() {
			output.Logger.Warn("threshold violated", "protocol", name, "threshold", v.Name, "limit", v.Threshold, "actual", v.Actual)
		}
	}

	if err := r.persist(name, records, output.SummaryReport{
		Summary:       summary,
		Dataset:       r.cfg.Dataset.Path,
		DatasetDigest: digest,
		Thresholds:    results,
	}); err != nil {
		return nil, false, err
	}

	if r.cfg.Output.Format == config.FormatJSON {
		if err := collector.FormatJSON(r.stdout, summary, results); err != nil {
			return nil, false, err
		}
	} else {
		collector.FormatText(r.stdout, summary, results)
	}

	return summary, results == nil || results.Passed, nil
}

func (r *runner) persist(name string, records []core.Record, report output.SummaryReport) error {
	dir := r.cfg.Output.Dir

	path := output.RecordsFile(dir, name)
	if err := output.WriteRecords(path, records); err != nil {
		return err
	}
	output.Logger.Info("results saved", "protocol", name, "path", path, "records", len(records))

	if r.cfg.Output.CSV {
		csvPath := output.CSVFile(dir, name)
		if err := output.WriteCSV(csvPath, records); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
		output.Logger.Info("CSV saved", "protocol", name, "path", csvPath)
	}

	summaryPath := output.SummaryFile(dir, name)
	if err := output.WriteSummary(summaryPath, report); err != nil {
		return err
	}
	output.Logger.Debug("summary saved", "protocol", name, "path", summaryPath)
	return nil
}
