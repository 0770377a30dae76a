package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"resume-pipeline/internal/collections"
	"resume-pipeline/internal/ingest"
	"resume-pipeline/internal/shared/config"
	"resume-pipeline/internal/shared/storage/db"
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Load resume and job-posting CSVs into a collection",
	Long: `Read a resumes CSV (Text column) and a job-postings CSV (description
column) from the object store, pair them row by row, and insert the pairs into
a collection. Rows beyond the shorter file are ignored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		resumesKey, _ := cmd.Flags().GetString("resumes")
		postingsKey, _ := cmd.Flags().GetString("postings")
		collection, _ := cmd.Flags().GetString("collection")

		if resumesKey == "" || postingsKey == "" {
			return fmt.Errorf("--resumes and --postings are required")
		}
		if collection == "" {
			collection = collections.TodayName(cfg.Location())
		}
		if !collections.IsManaged(collection) {
			printWarning("collection %s does not follow the {month}-{day}-resumes naming scheme", collection)
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

		printStep("ingesting %s + %s into %s", resumesKey, postingsKey, collection)
		loader := &ingest.Loader{Repo: repo, Store: store}
		sum, err := loader.Run(ctx, resumesKey, postingsKey, collection)
		if err != nil {
			return err
		}

		printStatus("inserted", "%d", sum.Inserted)
		if sum.Skipped > 0 {
			printStatus("skipped", "%d blank rows", sum.Skipped)
		}
		printSuccess("ingest complete")
		return nil
	},
}

func init() {
	uploadCmd.Flags().String("resumes", "", "object store key of the resumes CSV")
	uploadCmd.Flags().String("postings", "", "object store key of the job postings CSV")
	uploadCmd.Flags().String("collection", "", "target collection (default: today)")
}
