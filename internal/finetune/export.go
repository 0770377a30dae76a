// Package finetune builds chat-format JSONL training sets from labeled
// records and submits fine-tuning jobs.
package finetune

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"resume-pipeline/internal/llm"
	"resume-pipeline/internal/records"
	"resume-pipeline/internal/shared/storage/object"
	"resume-pipeline/internal/shared/telemetry"
)

// Message is one turn in a chat-format training example.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Example is one JSONL line in the training file.
type Example struct {
	Messages []Message `json:"messages"`
}

// Options filters which labeled records become training examples.
type Options struct {
	// MinScore excludes records scored below the threshold.
	MinScore int
	// TruthfulOnly excludes records an evaluator marked untruthful.
	TruthfulOnly bool
}

// BuildTrainingSet converts fully labeled records into chat-format examples.
// Records missing a score, truthfulness, or generated resume are skipped.
func BuildTrainingSet(recs []records.ResumeRecord, opts Options) []Example {
	out := make([]Example, 0, len(recs))
	for _, rec := range recs {
		if rec.Score == nil || rec.Truthfulness == nil || rec.GeneratedResume == "" {
			continue
		}
		if *rec.Score < opts.MinScore {
			continue
		}
		if opts.TruthfulOnly && !*rec.Truthfulness {
			continue
		}

		prompt := rec.Prompt
		if prompt == "" {
			prompt = llm.BuildOptimizePrompt(rec.ResumeText, rec.JobDescription)
		}

		out = append(out, Example{Messages: []Message{
			{Role: "system", Content: llm.SystemMessage},
			{Role: "user", Content: prompt},
			{Role: "assistant", Content: rec.GeneratedResume},
		}})
	}
	return out
}

// WriteJSONL writes one JSON object per line.
func WriteJSONL(w io.Writer, examples []Example) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for i, ex := range examples {
		if err := enc.Encode(ex); err != nil {
			return fmt.Errorf("encode example %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// Trainer abstracts fine-tuning job submission.
type Trainer interface {
	UploadTrainingFile(ctx context.Context, fileName string, r io.Reader) (string, error)
	CreateFineTuneJob(ctx context.Context, trainingFileID string) (string, error)
}

// Exporter assembles a training file from one collection, archives it in the
// object store, and optionally submits it for fine-tuning.
type Exporter struct {
	Repo  records.Repo
	Store object.Store
	// Trainer may be nil, in which case the export stops after archiving.
	Trainer Trainer
}

// Result reports what an export produced.
type Result struct {
	Examples    int
	ArtifactKey string
	FileID      string
	JobID       string
}

// Run exports the collection's labeled records. It fails when no record
// qualifies rather than submit an empty training file.
func (e *Exporter) Run(ctx context.Context, collection string, opts Options) (Result, error) {
	recs, err := e.Repo.FetchAll(ctx, collection)
	if err != nil {
		return Result{}, fmt.Errorf("fetch collection: %w", err)
	}

	examples := BuildTrainingSet(recs, opts)
	if len(examples) == 0 {
		return Result{}, fmt.Errorf("collection %s has no qualifying labeled records", collection)
	}

	var buf bytes.Buffer
	if err := WriteJSONL(&buf, examples); err != nil {
		return Result{}, err
	}

	res := Result{
		Examples:    len(examples),
		ArtifactKey: "training/" + collection + ".jsonl",
	}

	if _, err := e.Store.Put(ctx, res.ArtifactKey, "application/jsonl", bytes.NewReader(buf.Bytes())); err != nil {
		return Result{}, fmt.Errorf("archive training file: %w", err)
	}
	telemetry.Info("finetune.archived", map[string]any{
		"collection": collection,
		"key":        res.ArtifactKey,
		"examples":   res.Examples,
	})

	if e.Trainer == nil {
		return res, nil
	}

	fileID, err := e.Trainer.UploadTrainingFile(ctx, collection+".jsonl", bytes.NewReader(buf.Bytes()))
	if err != nil {
		return res, fmt.Errorf("upload training file: %w", err)
	}
	res.FileID = fileID

	jobID, err := e.Trainer.CreateFineTuneJob(ctx, fileID)
	if err != nil {
		return res, fmt.Errorf("create fine-tune job: %w", err)
	}
	res.JobID = jobID

	telemetry.Info("finetune.submitted", map[string]any{
		"collection": collection,
		"file_id":    fileID,
		"job_id":     jobID,
	})
	return res, nil
}
