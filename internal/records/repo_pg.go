package records

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// PGRepo implements Repo using Postgres.
//
// The claim protocol leans entirely on single-statement atomicity: the claim
// UPDATE locks one eligible row via FOR UPDATE SKIP LOCKED, so concurrent
// claimers fan out across the collection instead of colliding, and a row is
// never handed to two sessions.
type PGRepo struct {
	DB *sql.DB
}

const recordColumns = `id, collection_name, resume_text, job_description, generated_resume, prompt, original_id, claiming, score, truthfulness, did_by, created_at`

// ListCollections returns all registered collection names, sorted.
func (r *PGRepo) ListCollections(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT name FROM collections ORDER BY name`)
	if err != nil {
		return nil, unavailable("list collections", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, unavailable("list collections", err)
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list collections", err)
	}
	return out, nil
}

// EnsureCollection registers a collection name if it is not already known.
func (r *PGRepo) EnsureCollection(ctx context.Context, name string) error {
	const query = `INSERT INTO collections (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`
	if _, err := r.DB.ExecContext(ctx, query, name); err != nil {
		return unavailable("ensure collection", err)
	}
	return nil
}

// HasCollection reports whether the named collection is registered.
func (r *PGRepo) HasCollection(ctx context.Context, name string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM collections WHERE name = $1)`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, name).Scan(&exists); err != nil {
		return false, unavailable("has collection", err)
	}
	return exists, nil
}

// FetchAll returns every record in a collection in insertion order.
func (r *PGRepo) FetchAll(ctx context.Context, collection string) ([]ResumeRecord, error) {
	const query = `
SELECT ` + recordColumns + `
FROM resume_records
WHERE collection_name = $1
ORDER BY seq`
	rows, err := r.DB.QueryContext(ctx, query, collection)
	if err != nil {
		return nil, unavailable("fetch all", err)
	}
	defer rows.Close()

	var out []ResumeRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, unavailable("fetch all", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("fetch all", err)
	}
	return out, nil
}

// Insert stores a new record and returns its assigned id.
func (r *PGRepo) Insert(ctx context.Context, rec ResumeRecord) (string, error) {
	const query = `
INSERT INTO resume_records (
    id, collection_name, resume_text, job_description, generated_resume,
    prompt, original_id, claiming, score, truthfulness, did_by, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, NULL, NULL, NULL, $8)`

	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.DB.ExecContext(ctx, query,
		id,
		rec.Collection,
		rec.ResumeText,
		rec.JobDescription,
		nullString(rec.GeneratedResume),
		nullString(rec.Prompt),
		nullString(rec.OriginalID),
		createdAt,
	)
	if err != nil {
		return "", unavailable("insert record", err)
	}
	return id, nil
}

// FindAndClaim atomically claims the oldest eligible record in the collection.
func (r *PGRepo) FindAndClaim(ctx context.Context, collection string) (*ResumeRecord, error) {
	const query = `
UPDATE resume_records
SET claiming = TRUE
WHERE seq = (
    SELECT seq
    FROM resume_records
    WHERE collection_name = $1
      AND NOT claiming
      AND did_by IS NULL
    ORDER BY seq
    FOR UPDATE SKIP LOCKED
    LIMIT 1
)
RETURNING ` + recordColumns

	row := r.DB.QueryRowContext(ctx, query, collection)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, unavailable("find and claim", err)
	}
	return &rec, nil
}

// ReleaseClaim clears the claim flag on a record.
func (r *PGRepo) ReleaseClaim(ctx context.Context, id string) (bool, error) {
	const query = `UPDATE resume_records SET claiming = FALSE WHERE id = $1 AND claiming`
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return false, unavailable("release claim", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, unavailable("release claim", err)
	}
	return affected > 0, nil
}

// Commit writes the evaluation fields and clears the claim flag in one update.
func (r *PGRepo) Commit(ctx context.Context, id string, eval Evaluation) (bool, error) {
	const query = `
UPDATE resume_records
SET score = $2, truthfulness = $3, did_by = $4, claiming = FALSE
WHERE id = $1
  AND (claiming
       OR score IS DISTINCT FROM $2
       OR truthfulness IS DISTINCT FROM $3
       OR did_by IS DISTINCT FROM $4)`

	res, err := r.DB.ExecContext(ctx, query, id, eval.Score, eval.Truthful, eval.Owner)
	if err != nil {
		return false, unavailable("commit evaluation", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, unavailable("commit evaluation", err)
	}
	if affected > 0 {
		return true, nil
	}

	// Zero rows means either the id vanished or the record already carries
	// identical values. Distinguish for the caller; re-submitting identical
	// values is valid and only logged.
	var exists bool
	if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM resume_records WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, unavailable("commit evaluation", err)
	}
	if !exists {
		return false, ErrNotFound
	}
	return false, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (ResumeRecord, error) {
	var rec ResumeRecord
	var generated sql.NullString
	var prompt sql.NullString
	var originalID sql.NullString
	var score sql.NullInt64
	var truthfulness sql.NullBool
	var didBy sql.NullString

	err := row.Scan(
		&rec.ID,
		&rec.Collection,
		&rec.ResumeText,
		&rec.JobDescription,
		&generated,
		&prompt,
		&originalID,
		&rec.Claiming,
		&score,
		&truthfulness,
		&didBy,
		&rec.CreatedAt,
	)
	if err != nil {
		return ResumeRecord{}, err
	}
	if generated.Valid {
		rec.GeneratedResume = generated.String
	}
	if prompt.Valid {
		rec.Prompt = prompt.String
	}
	if originalID.Valid {
		rec.OriginalID = originalID.String
	}
	if score.Valid {
		v := int(score.Int64)
		rec.Score = &v
	}
	if truthfulness.Valid {
		v := truthfulness.Bool
		rec.Truthfulness = &v
	}
	if didBy.Valid {
		rec.DidBy = didBy.String
	}
	return rec, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
