// Package labeling drives the interactive resume evaluation loop: claim a
// record, present it, collect a validated score and truthfulness verdict,
// then commit or release. Strictly sequential; all concurrency control lives
// in the store's claim primitive.
package labeling

import (
	"context"
	"errors"
	"fmt"
	"io"

	"resume-pipeline/internal/claims"
	"resume-pipeline/internal/records"
	"resume-pipeline/internal/shared/telemetry"
)

// Session owns one operator's labeling loop.
type Session struct {
	claims   *claims.Manager
	prompter *Prompter
	out      io.Writer
	operator string
	pageSize int
}

// Option adjusts session construction.
type Option func(*Session)

// WithPageSize overrides how many lines of long text print per page.
func WithPageSize(n int) Option {
	return func(s *Session) { s.pageSize = n }
}

// NewSession constructs a Session for the given operator.
func NewSession(mgr *claims.Manager, prompter *Prompter, out io.Writer, operator string, opts ...Option) *Session {
	s := &Session{
		claims:   mgr,
		prompter: prompter,
		out:      out,
		operator: operator,
		pageSize: defaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run iterates claim/evaluate/commit until the collection drains or the
// operator stops. A quit at any prompt releases the held claim and returns
// nil: quitting is a graceful outcome, not an error.
func (s *Session) Run(ctx context.Context) error {
	for {
		claim, err := s.claims.Next(ctx)
		if err != nil {
			// Mid-session store trouble is surfaced and ends the loop
			// gracefully; nothing was claimed.
			fmt.Fprintln(s.out, errorStyle.Render("Could not reach the document store: "+err.Error()))
			telemetry.Error("session.claim_failed", map[string]any{
				"operator": s.operator,
				"error":    err.Error(),
			})
			return nil
		}
		if claim == nil {
			fmt.Fprintln(s.out, noticeStyle.Render("No more documents to evaluate. Exiting."))
			return nil
		}

		cont, err := s.evaluate(ctx, claim)
		if err != nil {
			if errors.Is(err, ErrQuit) {
				return s.quit(claim)
			}
			return err
		}
		if !cont {
			fmt.Fprintln(s.out, noticeStyle.Render("Thank you for your contributions!"))
			return nil
		}
	}
}

// evaluate walks one claimed record through presentation, input collection,
// and commit-or-release. Returns whether the operator wants another record.
func (s *Session) evaluate(ctx context.Context, claim *claims.Claim) (bool, error) {
	if err := s.displayRecord(claim.Record); err != nil {
		return false, err
	}

	score, err := s.prompter.Int("Enter the score for this document (0-100): ", 0, 100)
	if err != nil {
		return false, err
	}
	truthful, err := s.prompter.Bool("Is this document truthful? (yes/no): ")
	if err != nil {
		return false, err
	}

	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, titleStyle.Render("Summary of your evaluation:"))
	fmt.Fprintf(s.out, "Score: %d\n", score)
	fmt.Fprintf(s.out, "Truthfulness: %t\n", truthful)

	save, err := s.prompter.Bool("Do you want to save this evaluation? (yes/no): ")
	if err != nil {
		return false, err
	}

	if save {
		if err := s.commit(ctx, claim, score, truthful); err != nil {
			return false, err
		}
	} else {
		if err := claim.Release(ctx); err != nil {
			fmt.Fprintln(s.out, errorStyle.Render("Failed to release the document: "+err.Error()))
		} else {
			fmt.Fprintln(s.out, noticeStyle.Render("Evaluation discarded; document returned to the pool."))
		}
	}

	return s.prompter.Bool("Do you want to process another document? (yes/no): ")
}

func (s *Session) commit(ctx context.Context, claim *claims.Claim, score int, truthful bool) error {
	modified, err := claim.Commit(ctx, records.Evaluation{
		Score:    score,
		Truthful: truthful,
		Owner:    s.operator,
	})
	switch {
	case errors.Is(err, records.ErrNotFound):
		// The record vanished between claim and commit. Abandon it and
		// keep the loop alive.
		fmt.Fprintln(s.out, errorStyle.Render("This document no longer exists; skipping it."))
		return nil
	case err != nil:
		fmt.Fprintln(s.out, errorStyle.Render("Failed to save the evaluation: "+err.Error()))
		return nil
	case modified:
		fmt.Fprintln(s.out, noticeStyle.Render("Evaluation saved."))
	default:
		fmt.Fprintln(s.out, noticeStyle.Render("Document already carried these values; nothing changed."))
	}
	return nil
}

// quit releases the held claim and ends the session cleanly. The release uses
// a fresh context so a canceled loop context cannot strand the claim.
func (s *Session) quit(claim *claims.Claim) error {
	if err := claim.Release(context.Background()); err != nil {
		fmt.Fprintln(s.out, errorStyle.Render("Failed to release the document: "+err.Error()))
		return err
	}
	fmt.Fprintln(s.out, noticeStyle.Render("Exiting. Thank you for your contributions!"))
	return nil
}
