// Package ingest loads resume and job-posting CSVs from the object store and
// inserts them as paired records.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"resume-pipeline/internal/records"
	"resume-pipeline/internal/shared/storage/object"
	"resume-pipeline/internal/shared/telemetry"
)

// Column headers expected in the source CSVs. Matching is case-insensitive.
const (
	resumeColumn  = "Text"
	postingColumn = "description"
)

// Loader pairs rows from a resume CSV and a job-posting CSV and inserts them
// into a collection.
type Loader struct {
	Repo  records.Repo
	Store object.Store
}

// Summary reports what an ingest run inserted.
type Summary struct {
	Inserted int
	Skipped  int
}

// Run reads both CSVs, pairs rows positionally up to the shorter file, and
// inserts one record per pair. Rows with a blank resume or posting are
// skipped and counted.
func (l *Loader) Run(ctx context.Context, resumesKey, postingsKey, collection string) (Summary, error) {
	resumes, err := l.readColumn(ctx, resumesKey, resumeColumn)
	if err != nil {
		return Summary{}, fmt.Errorf("read resumes csv: %w", err)
	}
	postings, err := l.readColumn(ctx, postingsKey, postingColumn)
	if err != nil {
		return Summary{}, fmt.Errorf("read postings csv: %w", err)
	}

	n := len(resumes)
	if len(postings) < n {
		n = len(postings)
	}
	if n == 0 {
		return Summary{}, fmt.Errorf("no pairable rows: %d resumes, %d postings", len(resumes), len(postings))
	}

	if err := l.Repo.EnsureCollection(ctx, collection); err != nil {
		return Summary{}, fmt.Errorf("ensure collection: %w", err)
	}

	var sum Summary
	for i := 0; i < n; i++ {
		resume := strings.TrimSpace(resumes[i])
		posting := strings.TrimSpace(postings[i])
		if resume == "" || posting == "" {
			sum.Skipped++
			continue
		}
		_, err := l.Repo.Insert(ctx, records.ResumeRecord{
			Collection:     collection,
			ResumeText:     resume,
			JobDescription: posting,
		})
		if err != nil {
			return sum, fmt.Errorf("insert row %d: %w", i, err)
		}
		sum.Inserted++
	}

	telemetry.Info("ingest.done", map[string]any{
		"collection": collection,
		"inserted":   sum.Inserted,
		"skipped":    sum.Skipped,
	})
	return sum, nil
}

// readColumn extracts one named column from a CSV object.
func (l *Loader) readColumn(ctx context.Context, key, column string) ([]string, error) {
	rc, err := l.Store.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	r := csv.NewReader(rc)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), column) {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("csv %s has no %q column", key, column)
	}

	var out []string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if idx >= len(row) {
			out = append(out, "")
			continue
		}
		out = append(out, row[idx])
	}
	return out, nil
}
