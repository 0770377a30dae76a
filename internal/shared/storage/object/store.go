package object

import (
	"context"
	"io"
)

// Store defines the contract for reading and writing pipeline artifacts:
// ingest CSVs coming in, training JSONL files going out.
type Store interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Put(ctx context.Context, key string, contentType string, r io.Reader) (sizeBytes int64, err error)
}
