// Package generation runs the batch job that turns yesterday's labeled
// collection into today's generated one.
package generation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"resume-pipeline/internal/llm"
	"resume-pipeline/internal/records"
	"resume-pipeline/internal/shared/metrics"
	"resume-pipeline/internal/shared/telemetry"
)

// ErrTargetExists signals that the target collection already holds records.
// The batch refuses to run rather than duplicate a day's output.
var ErrTargetExists = errors.New("target collection already populated")

const (
	defaultConcurrency = 4
	defaultMaxAttempts = 3
	defaultBaseDelay   = 2 * time.Second
)

// Batch generates optimized resumes for every pair in a source collection
// and inserts the results into a target collection.
type Batch struct {
	Repo        records.Repo
	Client      llm.Client
	Concurrency int
	MaxAttempts int
	BaseDelay   time.Duration

	sleep func(ctx context.Context, d time.Duration) error
}

// Summary reports batch outcomes.
type Summary struct {
	Generated int
	Failed    int
	Skipped   int
}

// NewBatch constructs a batch with defaults filled in.
func NewBatch(repo records.Repo, client llm.Client) *Batch {
	return &Batch{
		Repo:        repo,
		Client:      client,
		Concurrency: defaultConcurrency,
		MaxAttempts: defaultMaxAttempts,
		BaseDelay:   defaultBaseDelay,
	}
}

// Run generates a resume for each record in source and stores the results in
// target. Individual pair failures are logged and counted, not fatal; the
// whole run fails only on store errors or a populated target.
func (b *Batch) Run(ctx context.Context, source, target string) (Summary, error) {
	if source == target {
		return Summary{}, fmt.Errorf("source and target are the same collection %q", source)
	}

	existing, err := b.Repo.FetchAll(ctx, target)
	if err != nil {
		return Summary{}, fmt.Errorf("check target collection: %w", err)
	}
	if len(existing) > 0 {
		return Summary{}, fmt.Errorf("%w: %s has %d records", ErrTargetExists, target, len(existing))
	}

	pairs, err := b.Repo.FetchAll(ctx, source)
	if err != nil {
		return Summary{}, fmt.Errorf("fetch source collection: %w", err)
	}
	if len(pairs) == 0 {
		telemetry.Info("generation.empty_source", map[string]any{"source": source})
		return Summary{}, nil
	}

	if err := b.Repo.EnsureCollection(ctx, target); err != nil {
		return Summary{}, fmt.Errorf("ensure target collection: %w", err)
	}

	telemetry.Info("generation.start", map[string]any{
		"source": source,
		"target": target,
		"pairs":  len(pairs),
	})

	var (
		mu  sync.Mutex
		sum Summary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency())

	for _, rec := range pairs {
		if rec.Claiming {
			mu.Lock()
			sum.Skipped++
			mu.Unlock()
			telemetry.Warn("generation.skip_claimed", map[string]any{"id": rec.ID})
			continue
		}

		rec := rec
		g.Go(func() error {
			gen, err := b.generateWithRetry(gctx, rec)
			if err != nil {
				mu.Lock()
				sum.Failed++
				mu.Unlock()
				metrics.IncGenerationFailed()
				telemetry.Error("generation.pair_failed", map[string]any{
					"id":    rec.ID,
					"error": err.Error(),
				})
				return nil
			}

			out := records.ResumeRecord{
				Collection:      target,
				ResumeText:      rec.ResumeText,
				JobDescription:  rec.JobDescription,
				GeneratedResume: gen.Resume,
				Prompt:          gen.Prompt,
				OriginalID:      rec.ID,
			}
			if _, err := b.Repo.Insert(gctx, out); err != nil {
				return fmt.Errorf("insert generated record for %s: %w", rec.ID, err)
			}

			mu.Lock()
			sum.Generated++
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return sum, err
	}

	telemetry.Info("generation.done", map[string]any{
		"source":    source,
		"target":    target,
		"generated": sum.Generated,
		"failed":    sum.Failed,
		"skipped":   sum.Skipped,
	})
	return sum, nil
}

func (b *Batch) generateWithRetry(ctx context.Context, rec records.ResumeRecord) (llm.Generation, error) {
	in := llm.GenerateInput{
		ResumeText:     rec.ResumeText,
		JobDescription: rec.JobDescription,
	}

	var lastErr error
	for attempt := 1; attempt <= b.maxAttempts(); attempt++ {
		start := time.Now()
		gen, err := b.Client.GenerateResume(ctx, in)
		if err == nil {
			metrics.IncGeneration()
			metrics.ObserveGenerationDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
			return gen, nil
		}
		lastErr = err
		if !llm.Transient(err) || attempt == b.maxAttempts() {
			break
		}

		delay := b.baseDelay() << (attempt - 1)
		telemetry.Warn("generation.retry", map[string]any{
			"id":      rec.ID,
			"attempt": attempt,
			"delay":   delay.String(),
			"error":   err.Error(),
		})
		if err := b.wait(ctx, delay); err != nil {
			return llm.Generation{}, err
		}
	}
	return llm.Generation{}, lastErr
}

func (b *Batch) wait(ctx context.Context, d time.Duration) error {
	if b.sleep != nil {
		return b.sleep(ctx, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (b *Batch) concurrency() int {
	if b.Concurrency > 0 {
		return b.Concurrency
	}
	return defaultConcurrency
}

func (b *Batch) maxAttempts() int {
	if b.MaxAttempts > 0 {
		return b.MaxAttempts
	}
	return defaultMaxAttempts
}

func (b *Batch) baseDelay() time.Duration {
	if b.BaseDelay > 0 {
		return b.BaseDelay
	}
	return defaultBaseDelay
}
