package main

import (
	"github.com/spf13/cobra"

	"resume-pipeline/internal/collections"
	"resume-pipeline/internal/shared/config"
	"resume-pipeline/internal/shared/storage/db"
	"resume-pipeline/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show labeling progress and score statistics for a collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		collection, _ := cmd.Flags().GetString("collection")
		if collection == "" {
			collection = collections.TodayName(cfg.Location())
		}

		ctx := cmd.Context()
		conn, repo, err := openRepo(ctx, cfg, db.DefaultCLIOptions())
		if err != nil {
			return err
		}
		defer conn.Close()

		rep, err := stats.Compute(ctx, repo, collection)
		if err != nil {
			return err
		}

		printStep("statistics for %s", rep.Collection)
		printStatus("total", "%d", rep.Total)
		printStatus("labeled", "%d", rep.Labeled)
		printStatus("claimed", "%d", rep.Claimed)
		if rep.Labeled == 0 {
			printWarning("no labeled records yet")
			return nil
		}
		printStatus("score mean", "%.1f", rep.Mean)
		printStatus("score median", "%.1f", rep.Median)
		printStatus("score stddev", "%.1f", rep.StdDev)
		printStatus("score range", "%d-%d", rep.Min, rep.Max)
		printStatus("truthful", "%.0f%%", rep.TruthfulRatio*100)
		return nil
	},
}

func init() {
	statsCmd.Flags().String("collection", "", "collection to summarize (default: today)")
}
