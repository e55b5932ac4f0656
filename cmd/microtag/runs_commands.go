package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"microtag/internal/config"
	"microtag/internal/runstore"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect the history of annotation runs",
	}
	runsCmd.AddCommand(newRunsListCommand(ctx))
	runsCmd.AddCommand(newRunsShowCommand(ctx))
	return runsCmd
}

func newRunsListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !runStoreExists(cfg) {
				if asJSON {
					return writeJSON(cmd, []runstore.Run{})
				}
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			store, err := runstore.Open(cfg.RunStorePath())
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON {
				if runs == nil {
					runs = []runstore.Run{}
				}
				return writeJSON(cmd, runs)
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					humanize.Time(run.StartedAt),
					humanize.Comma(int64(run.Rows)),
					tierSummary(run, "ABC"),
					run.OutputPath,
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"id", "started", "rows", "positives (direct/network)", "output"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", runstore.DefaultListLimit, "Maximum number of runs to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print runs as JSON")
	return cmd
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one run and its per-tier counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !runStoreExists(cfg) {
				return fmt.Errorf("%w: %s", runstore.ErrNotFound, args[0])
			}
			store, err := runstore.Open(cfg.RunStorePath())
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, run)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run:       %s\n", run.ID)
			fmt.Fprintf(out, "Started:   %s\n", run.StartedAt.Local().Format(time.RFC3339))
			fmt.Fprintf(out, "Duration:  %s\n", run.Duration().Round(time.Millisecond))
			fmt.Fprintf(out, "Features:  %s\n", run.FeaturesPath)
			fmt.Fprintf(out, "NPAtlas:   %s\n", run.NPAtlasPath)
			fmt.Fprintf(out, "MIBiG:     %s\n", run.MIBiGPath)
			fmt.Fprintf(out, "Output:    %s\n", run.OutputPath)
			if run.ConfigPath != "" {
				fmt.Fprintf(out, "Config:    %s\n", run.ConfigPath)
			}
			fmt.Fprintf(out, "Rows:      %d\n", run.Rows)

			rows := make([][]string, 0, len(run.Tiers))
			for _, tc := range run.Tiers {
				rows = append(rows, []string{
					tc.Tier,
					strconv.Itoa(tc.Direct),
					strconv.Itoa(tc.Network),
					strconv.Itoa(tc.Clusters),
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"tier", "direct", "network", "clusters"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the run as JSON")
	return cmd
}

func runStoreExists(cfg *config.Config) bool {
	_, err := os.Stat(cfg.RunStorePath())
	return !errors.Is(err, os.ErrNotExist)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func tierSummary(run runstore.Run, tier string) string {
	for _, tc := range run.Tiers {
		if tc.Tier == tier {
			return strconv.Itoa(tc.Direct) + "/" + strconv.Itoa(tc.Network)
		}
	}
	return "-"
}
