package records

import "context"

// Repo defines persistence operations for resume record collections.
//
// FindAndClaim, ReleaseClaim, and Commit implement the claim protocol: each
// is a single atomic store operation, which is the only concurrency control
// in the system. Multiple independent processes share one store.
type Repo interface {
	// ListCollections returns the names of all known collections.
	ListCollections(ctx context.Context) ([]string, error)

	// EnsureCollection registers a collection name. Idempotent; registering
	// an existing collection is a successful no-op.
	EnsureCollection(ctx context.Context, name string) error

	// HasCollection reports whether the named collection exists.
	HasCollection(ctx context.Context, name string) (bool, error)

	// FetchAll returns every record in a collection in insertion order.
	// Unbounded; intended for batch jobs and the read API only.
	FetchAll(ctx context.Context, collection string) ([]ResumeRecord, error)

	// Insert stores a new record and returns its assigned id.
	Insert(ctx context.Context, rec ResumeRecord) (string, error)

	// FindAndClaim atomically selects the oldest claimable record in the
	// collection, marks it claimed, and returns it. Returns (nil, nil) when
	// no eligible record remains; that is the caller's terminating condition.
	FindAndClaim(ctx context.Context, collection string) (*ResumeRecord, error)

	// ReleaseClaim clears the claim flag on a record. Idempotent: clearing an
	// absent flag reports cleared=false with no error.
	ReleaseClaim(ctx context.Context, id string) (cleared bool, err error)

	// Commit writes the evaluation fields and clears the claim flag in one
	// atomic update. Returns modified=false when the record already carried
	// identical values, and ErrNotFound when the id no longer exists.
	Commit(ctx context.Context, id string, eval Evaluation) (modified bool, err error)
}
