package records

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func recordRows(rec ResumeRecord) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "collection_name", "resume_text", "job_description", "generated_resume",
		"prompt", "original_id", "claiming", "score", "truthfulness", "did_by", "created_at",
	})
	rows.AddRow(
		rec.ID, rec.Collection, rec.ResumeText, rec.JobDescription, nil,
		nil, nil, rec.Claiming, nil, nil, nil, rec.CreatedAt,
	)
	return rows
}

func TestPGRepoFindAndClaimReturnsClaimedRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	want := ResumeRecord{
		ID:             "6a1f0c0e-0000-4000-8000-000000000001",
		Collection:     "august-01-resumes",
		ResumeText:     "resume",
		JobDescription: "job",
		Claiming:       true,
		CreatedAt:      time.Now().UTC(),
	}

	mock.ExpectQuery(`UPDATE resume_records\s+SET claiming = TRUE\s+WHERE seq = \(\s*SELECT seq`).
		WithArgs("august-01-resumes").
		WillReturnRows(recordRows(want))

	got, err := repo.FindAndClaim(context.Background(), "august-01-resumes")
	if err != nil {
		t.Fatalf("FindAndClaim: %v", err)
	}
	if got == nil || got.ID != want.ID || !got.Claiming {
		t.Fatalf("FindAndClaim = %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoFindAndClaimDrained(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectQuery(`UPDATE resume_records`).
		WithArgs("august-01-resumes").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rec, err := repo.FindAndClaim(context.Background(), "august-01-resumes")
	if err != nil {
		t.Fatalf("FindAndClaim: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil record when drained, got %+v", rec)
	}
}

func TestPGRepoFindAndClaimStoreFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectQuery(`UPDATE resume_records`).
		WithArgs("august-01-resumes").
		WillReturnError(errors.New("connection refused"))

	_, err = repo.FindAndClaim(context.Background(), "august-01-resumes")
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("err = %v, want ErrStoreUnavailable", err)
	}
}

func TestPGRepoReleaseClaim(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectExec(`UPDATE resume_records SET claiming = FALSE WHERE id = \$1 AND claiming`).
		WithArgs("rec-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	cleared, err := repo.ReleaseClaim(context.Background(), "rec-1")
	if err != nil || !cleared {
		t.Fatalf("ReleaseClaim = %v, %v; want cleared", cleared, err)
	}

	// Second release matches no rows: still a success, reported as no-op.
	mock.ExpectExec(`UPDATE resume_records SET claiming = FALSE`).
		WithArgs("rec-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	cleared, err = repo.ReleaseClaim(context.Background(), "rec-1")
	if err != nil {
		t.Fatalf("second ReleaseClaim: %v", err)
	}
	if cleared {
		t.Fatal("second ReleaseClaim should report no-op")
	}
}

func TestPGRepoCommitSetsFieldsAndClearsClaim(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectExec(`UPDATE resume_records\s+SET score = \$2, truthfulness = \$3, did_by = \$4, claiming = FALSE`).
		WithArgs("rec-1", 85, true, "ana").
		WillReturnResult(sqlmock.NewResult(0, 1))

	modified, err := repo.Commit(context.Background(), "rec-1", Evaluation{Score: 85, Truthful: true, Owner: "ana"})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if !modified {
		t.Fatal("expected modified=true")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCommitNoOpVersusMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	eval := Evaluation{Score: 85, Truthful: true, Owner: "ana"}

	// Identical values: the guarded update matches nothing but the row exists.
	mock.ExpectExec(`UPDATE resume_records`).
		WithArgs("rec-1", 85, true, "ana").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("rec-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	modified, err := repo.Commit(context.Background(), "rec-1", eval)
	if err != nil {
		t.Fatalf("Commit no-op: %v", err)
	}
	if modified {
		t.Fatal("identical values should report no modification")
	}

	// Vanished id: same zero-row update, but the existence probe fails.
	mock.ExpectExec(`UPDATE resume_records`).
		WithArgs("rec-2", 85, true, "ana").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("rec-2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	_, err = repo.Commit(context.Background(), "rec-2", eval)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPGRepoEnsureCollectionIdempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectExec(`INSERT INTO collections \(name\) VALUES \(\$1\) ON CONFLICT \(name\) DO NOTHING`).
		WithArgs("august-01-resumes").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.EnsureCollection(context.Background(), "august-01-resumes"); err != nil {
		t.Fatalf("EnsureCollection: %v", err)
	}
}

func TestPGRepoInsertAssignsID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectExec(`INSERT INTO resume_records`).
		WithArgs(
			sqlmock.AnyArg(), // generated uuid
			"august-01-resumes",
			"resume",
			"job",
			sqlmock.AnyArg(), // generated_resume
			sqlmock.AnyArg(), // prompt
			sqlmock.AnyArg(), // original_id
			sqlmock.AnyArg(), // created_at
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	id, err := repo.Insert(context.Background(), ResumeRecord{
		Collection:     "august-01-resumes",
		ResumeText:     "resume",
		JobDescription: "job",
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if id == "" {
		t.Fatal("expected assigned id")
	}
}
