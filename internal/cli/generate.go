package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"protobench/internal/dataset"
	"protobench/internal/output"
)

func newGenerateCommand(opts *globalOptions) *cobra.Command {
	var (
		path  string
		cases int
		seed  int64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the shared dataset",
		Long: `Generates the deterministic dataset both protocols run over and writes it
as JSON. The same parameters and seed always produce the same file.`,
		Example: `  # Default: 30 arrays, seed 42, ./common_dataset.json
  protobench generate

  # Larger dataset with another seed
  protobench generate --cases 200 --seed 7 -o data/large.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			params := cfg.Dataset.Params
			if cmd.Flags().Changed("cases") {
				params.Cases = cases
			}
			if cmd.Flags().Changed("seed") {
				params.Seed = seed
			}
			if path == "" {
				path = cfg.Dataset.Path
			}

			ds, err := dataset.Generate(params)
			if err != nil {
				return err
			}
			if err := dataset.Save(path, ds); err != nil {
				return err
			}

			output.Logger.Info("dataset saved", "path", path, "cases", len(ds), "seed", params.Seed, "digest", ds.Digest())
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "output", "o", "", "dataset file to write (default from config)")
	cmd.Flags().IntVar(&cases, "cases", 0, "number of arrays to generate")
	cmd.Flags().Int64Var(&seed, "seed", dataset.DefaultSeed, "random seed")
	return cmd
}
