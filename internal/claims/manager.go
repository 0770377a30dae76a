// Package claims layers a session-scoped ownership protocol over the record
// store. A Manager hands out Claim handles one at a time; each handle ends in
// exactly one of Commit or Release, and the manager remembers the live claim
// so an interrupt handler can release it before the process exits.
package claims

import (
	"context"
	"fmt"
	"sync"

	"resume-pipeline/internal/records"
	"resume-pipeline/internal/shared/metrics"
	"resume-pipeline/internal/shared/telemetry"
)

// Manager claims records from one collection on behalf of one operator
// session. It owns its repo handle and the id of the currently held claim;
// there is no process-global state.
type Manager struct {
	repo       records.Repo
	collection string

	mu      sync.Mutex
	current string // id of the held claim, empty when none
}

// NewManager constructs a Manager for the given collection.
func NewManager(repo records.Repo, collection string) *Manager {
	return &Manager{repo: repo, collection: collection}
}

// Collection returns the collection this manager claims from.
func (m *Manager) Collection() string { return m.collection }

// Next atomically claims the oldest eligible record. It returns (nil, nil)
// when the collection is drained. The returned handle must be finished with
// Commit or Release before calling Next again.
func (m *Manager) Next(ctx context.Context) (*Claim, error) {
	rec, err := m.repo.FindAndClaim(ctx, m.collection)
	if err != nil {
		return nil, fmt.Errorf("claim next record: %w", err)
	}
	if rec == nil {
		return nil, nil
	}

	m.mu.Lock()
	m.current = rec.ID
	m.mu.Unlock()

	metrics.IncClaimAcquired()
	telemetry.Info("claim.acquired", map[string]any{
		"record_id":  rec.ID,
		"collection": m.collection,
	})
	return &Claim{mgr: m, Record: *rec}, nil
}

// ReleaseCurrent releases the claim held by this session, if any. It is the
// interrupt-cleanup entry point and must run synchronously before exit: there
// is no background reaper, so a claim that survives the process stays stuck
// until cleared by hand.
func (m *Manager) ReleaseCurrent(ctx context.Context) error {
	m.mu.Lock()
	id := m.current
	m.mu.Unlock()
	if id == "" {
		return nil
	}
	return m.release(ctx, id)
}

func (m *Manager) release(ctx context.Context, id string) error {
	cleared, err := m.repo.ReleaseClaim(ctx, id)
	if err != nil {
		return fmt.Errorf("release claim %s: %w", id, err)
	}
	m.clearCurrent(id)
	if cleared {
		metrics.IncClaimReleased()
		telemetry.Info("claim.released", map[string]any{"record_id": id})
	} else {
		telemetry.Warn("claim.release_noop", map[string]any{"record_id": id})
	}
	return nil
}

func (m *Manager) clearCurrent(id string) {
	m.mu.Lock()
	if m.current == id {
		m.current = ""
	}
	m.mu.Unlock()
}

// Claim is exclusive temporary ownership of one record.
type Claim struct {
	mgr    *Manager
	Record records.ResumeRecord

	mu   sync.Mutex
	done bool
}

// Release returns the record to the unclaimed pool, discarding no data.
// Releasing a finished claim is a no-op.
func (c *Claim) Release(ctx context.Context) error {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return nil
	}
	c.done = true
	c.mu.Unlock()
	return c.mgr.release(ctx, c.Record.ID)
}

// Commit writes the evaluation and clears the claim in one atomic update,
// making the record terminal. Reports whether the store changed anything;
// re-submitting identical values is a valid no-op.
func (c *Claim) Commit(ctx context.Context, eval records.Evaluation) (bool, error) {
	if eval.Score < 0 || eval.Score > 100 {
		return false, fmt.Errorf("score %d out of range [0,100]", eval.Score)
	}
	if eval.Owner == "" {
		return false, fmt.Errorf("evaluation owner is required")
	}

	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return false, fmt.Errorf("claim on %s already finished", c.Record.ID)
	}
	c.done = true
	c.mu.Unlock()

	modified, err := c.mgr.repo.Commit(ctx, c.Record.ID, eval)
	c.mgr.clearCurrent(c.Record.ID)
	if err != nil {
		return false, fmt.Errorf("commit evaluation for %s: %w", c.Record.ID, err)
	}
	if modified {
		metrics.IncClaimCommitted()
		telemetry.Info("claim.committed", map[string]any{
			"record_id": c.Record.ID,
			"owner":     eval.Owner,
			"score":     eval.Score,
			"truthful":  eval.Truthful,
		})
	} else {
		telemetry.Warn("claim.commit_noop", map[string]any{"record_id": c.Record.ID})
	}
	return modified, nil
}
