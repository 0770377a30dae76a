package main

import (
	"context"
	"database/sql"
	"fmt"

	"resume-pipeline/internal/llm/openai"
	"resume-pipeline/internal/records"
	"resume-pipeline/internal/shared/config"
	"resume-pipeline/internal/shared/storage/db"
	"resume-pipeline/internal/shared/storage/object"
	localstore "resume-pipeline/internal/shared/storage/object/local"
	s3store "resume-pipeline/internal/shared/storage/object/s3"
)

// openRepo connects to the document store. A dead store means nothing else
// can run, so callers surface the error and exit non-zero.
func openRepo(ctx context.Context, cfg config.Config, opts db.Options) (*sql.DB, records.Repo, error) {
	conn, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(opts))
	if err != nil {
		return nil, nil, fmt.Errorf("connect document store: %w", err)
	}
	return conn, &records.PGRepo{DB: conn}, nil
}

func newObjectStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	if cfg.ObjectStoreType == "s3" {
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	}
	return localstore.New(cfg.LocalStoreDir), nil
}

func newLLMClient(cfg config.Config) (*openai.Client, error) {
	return openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel)
}
