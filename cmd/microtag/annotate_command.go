package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"microtag/internal/annotate"
	"microtag/internal/logging"
)

type annotateOptions struct {
	features  string
	npatlas   string
	mibig     string
	output    string
	noHistory bool
	json      bool
}

func newAnnotateCommand(ctx *commandContext) *cobra.Command {
	var opts annotateOptions

	cmd := &cobra.Command{
		Use:   "annotate",
		Short: "Tag features with microbial-origin confidence tiers",
		Long: `Annotate joins every tool identifier in the feature table against the
NPAtlas and MIBiG catalogues, assigns confidence tiers A, B, C, AB and ABC,
and propagates each tier through the molecular network clusters.

Input paths default to the configuration file or the MICROTAG_FEATURES,
MICROTAG_NPATLAS and MICROTAG_MIBIG environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			overrides := map[*string]string{
				&cfg.Paths.FeatureTable: opts.features,
				&cfg.Paths.NPAtlas:      opts.npatlas,
				&cfg.Paths.MIBiG:        opts.mibig,
				&cfg.Paths.Output:       opts.output,
			}
			for target, value := range overrides {
				if value = strings.TrimSpace(value); value != "" {
					*target = value
				}
			}
			if err := cfg.Normalize(); err != nil {
				return err
			}
			if err := cfg.ValidateInputs(); err != nil {
				return err
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			defer func() { _ = logging.Close(logger) }()
			runner, err := annotate.NewRunner(cfg, logger)
			if err != nil {
				return err
			}
			result, err := runner.Run(cmd.Context(), annotate.Request{
				ConfigPath:  ctx.historyConfigPath(),
				SkipHistory: opts.noHistory,
			})
			if err != nil {
				return err
			}

			if opts.json {
				return writeJSON(cmd, result)
			}
			printAnnotateResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.features, "features", "", "Feature table (TSV) to annotate")
	cmd.Flags().StringVar(&opts.npatlas, "npatlas", "", "NPAtlas export (TSV)")
	cmd.Flags().StringVar(&opts.mibig, "mibig", "", "MIBiG export (CSV)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output path (default: feature table path with the output suffix)")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "Do not record this run in the run history")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the result as JSON")
	return cmd
}

func printAnnotateResult(cmd *cobra.Command, result annotate.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Annotated %d features -> %s\n", result.Rows, result.OutputPath)

	rows := make([][]string, 0, len(result.Counts))
	for _, c := range result.Counts {
		rows = append(rows, []string{
			c.Tier,
			c.Column,
			strconv.Itoa(c.Direct),
			strconv.Itoa(c.Network),
			strconv.Itoa(c.Clusters),
		})
	}
	fmt.Fprintln(out, renderTable(out,
		[]string{"tier", "column", "direct", "network", "clusters"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight},
	))
	if result.Recorded {
		fmt.Fprintf(out, "Run %s recorded\n", result.RunID)
	}
}
