package records

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory implementation of Repo.
//
// A single mutex stands in for the store's single-document atomicity, so the
// claim protocol behaves the same as against Postgres. Backs handler tests and
// the concurrency property tests.
type MemoryRepo struct {
	mu          sync.Mutex
	collections map[string][]*ResumeRecord // insertion order preserved
	byID        map[string]*ResumeRecord
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		collections: make(map[string][]*ResumeRecord),
		byID:        make(map[string]*ResumeRecord),
	}
}

// ListCollections returns all known collection names, sorted.
func (r *MemoryRepo) ListCollections(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for name := range r.collections {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// EnsureCollection registers a collection name.
func (r *MemoryRepo) EnsureCollection(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.collections[name]; !ok {
		r.collections[name] = nil
	}
	return nil
}

// HasCollection reports whether the named collection exists.
func (r *MemoryRepo) HasCollection(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.collections[name]
	return ok, nil
}

// FetchAll returns copies of every record in a collection in insertion order.
func (r *MemoryRepo) FetchAll(ctx context.Context, collection string) ([]ResumeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	recs := r.collections[collection]
	out := make([]ResumeRecord, 0, len(recs))
	for _, rec := range recs {
		out = append(out, *rec)
	}
	return out, nil
}

// Insert stores a new record and returns its assigned id.
func (r *MemoryRepo) Insert(ctx context.Context, rec ResumeRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := rec
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	stored.Claiming = false
	stored.Score = nil
	stored.Truthfulness = nil
	stored.DidBy = ""

	r.collections[stored.Collection] = append(r.collections[stored.Collection], &stored)
	r.byID[stored.ID] = &stored
	return stored.ID, nil
}

// FindAndClaim claims the oldest eligible record in the collection.
func (r *MemoryRepo) FindAndClaim(ctx context.Context, collection string) (*ResumeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.collections[collection] {
		if rec.Claimable() {
			rec.Claiming = true
			copied := *rec
			return &copied, nil
		}
	}
	return nil, nil
}

// ReleaseClaim clears the claim flag on a record.
func (r *MemoryRepo) ReleaseClaim(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[id]
	if !ok || !rec.Claiming {
		return false, nil
	}
	rec.Claiming = false
	return true, nil
}

// Commit writes the evaluation fields and clears the claim flag.
func (r *MemoryRepo) Commit(ctx context.Context, id string, eval Evaluation) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[id]
	if !ok {
		return false, ErrNotFound
	}

	unchanged := rec.Score != nil && *rec.Score == eval.Score &&
		rec.Truthfulness != nil && *rec.Truthfulness == eval.Truthful &&
		rec.DidBy == eval.Owner &&
		!rec.Claiming
	if unchanged {
		return false, nil
	}

	score := eval.Score
	truthful := eval.Truthful
	rec.Score = &score
	rec.Truthfulness = &truthful
	rec.DidBy = eval.Owner
	rec.Claiming = false
	return true, nil
}

var _ Repo = (*MemoryRepo)(nil)
