package main

import (
	"github.com/spf13/cobra"

	"resume-pipeline/internal/collections"
	"resume-pipeline/internal/generation"
	"resume-pipeline/internal/shared/config"
	"resume-pipeline/internal/shared/storage/db"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate optimized resumes from one day's pairs into the next day",
	Long: `Read every (resume, job description) pair in the source collection,
generate an optimized resume for each, and insert the results into the target
collection. Defaults: source is yesterday's collection, target is today's.
Refuses to run when the target already holds records.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		loc := cfg.Location()

		source, _ := cmd.Flags().GetString("source")
		target, _ := cmd.Flags().GetString("target")
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		maxAttempts, _ := cmd.Flags().GetInt("max-attempts")

		if source == "" {
			source = collections.PreviousDayName(loc)
		}
		if target == "" {
			target = collections.TodayName(loc)
		}

		ctx := cmd.Context()
		conn, repo, err := openRepo(ctx, cfg, db.DefaultCLIOptions())
		if err != nil {
			return err
		}
		defer conn.Close()

		client, err := newLLMClient(cfg)
		if err != nil {
			return err
		}

		printStep("generating %s -> %s", source, target)
		batch := generation.NewBatch(repo, client)
		if concurrency > 0 {
			batch.Concurrency = concurrency
		}
		if maxAttempts > 0 {
			batch.MaxAttempts = maxAttempts
		}

		sum, err := batch.Run(ctx, source, target)
		if err != nil {
			return err
		}

		printStatus("generated", "%d", sum.Generated)
		printStatus("failed", "%d", sum.Failed)
		printStatus("skipped", "%d", sum.Skipped)
		if sum.Failed > 0 {
			printWarning("%d pairs failed; re-run after fixing the cause to fill the gaps", sum.Failed)
		}
		if sum.Generated == 0 && sum.Failed == 0 && sum.Skipped == 0 {
			printWarning("source collection %s is empty", source)
			return nil
		}
		printSuccess("wrote %d records to %s", sum.Generated, target)
		return nil
	},
}

func init() {
	generateCmd.Flags().String("source", "", "source collection (default: previous day)")
	generateCmd.Flags().String("target", "", "target collection (default: today)")
	generateCmd.Flags().Int("concurrency", 0, "concurrent generation requests")
	generateCmd.Flags().Int("max-attempts", 0, "attempts per pair for transient failures")
}
