package main

import (
	"github.com/spf13/cobra"

	"resume-pipeline/internal/collections"
	"resume-pipeline/internal/finetune"
	"resume-pipeline/internal/shared/config"
	"resume-pipeline/internal/shared/storage/db"
)

var finetuneExportCmd = &cobra.Command{
	Use:   "finetune-export",
	Short: "Export labeled records as JSONL and submit a fine-tuning job",
	Long: `Build a chat-format JSONL training file from a collection's labeled
records, archive it in the object store, upload it, and start a fine-tuning
job. Pass --no-submit to stop after archiving.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		collection, _ := cmd.Flags().GetString("collection")
		minScore, _ := cmd.Flags().GetInt("min-score")
		truthfulOnly, _ := cmd.Flags().GetBool("truthful-only")
		noSubmit, _ := cmd.Flags().GetBool("no-submit")

		if collection == "" {
			collection = collections.TodayName(cfg.Location())
		}

		ctx := cmd.Context()
		conn, repo, err := openRepo(ctx, cfg, db.DefaultCLIOptions())
		if err != nil {
			return err
		}
		defer conn.Close()

		store, err := newObjectStore(ctx, cfg)
		if err != nil {
			return err
		}

		exporter := &finetune.Exporter{Repo: repo, Store: store}
		if !noSubmit {
			client, err := newLLMClient(cfg)
			if err != nil {
				return err
			}
			exporter.Trainer = client
		}

		printStep("exporting %s (min score %d, truthful only %v)", collection, minScore, truthfulOnly)
		res, err := exporter.Run(ctx, collection, finetune.Options{
			MinScore:     minScore,
			TruthfulOnly: truthfulOnly,
		})
		if err != nil {
			return err
		}

		printStatus("examples", "%d", res.Examples)
		printStatus("artifact", "%s", res.ArtifactKey)
		if res.JobID != "" {
			printStatus("file id", "%s", res.FileID)
			printStatus("job id", "%s", res.JobID)
			printSuccess("fine-tuning job submitted")
			return nil
		}
		printSuccess("training file archived")
		return nil
	},
}

func init() {
	finetuneExportCmd.Flags().String("collection", "", "collection to export (default: today)")
	finetuneExportCmd.Flags().Int("min-score", 0, "exclude records scored below this")
	finetuneExportCmd.Flags().Bool("truthful-only", true, "exclude records marked untruthful")
	finetuneExportCmd.Flags().Bool("no-submit", false, "archive the file without submitting a job")
}
