package records

import "time"

// ResumeRecord is one document in a per-day collection.
//
// Score and Truthfulness are nil until an evaluator commits them, and are
// always set together. DidBy is empty until commit; once set the record is
// terminal and never eligible for claiming again.
type ResumeRecord struct {
	ID              string
	Collection      string
	ResumeText      string
	JobDescription  string
	GeneratedResume string
	Prompt          string
	OriginalID      string
	Claiming        bool
	Score           *int
	Truthfulness    *bool
	DidBy           string
	CreatedAt       time.Time
}

// Terminal reports whether the record has been evaluated and finalized.
func (r ResumeRecord) Terminal() bool {
	return r.DidBy != ""
}

// Claimable reports whether a claim attempt may select this record: no live
// claim and no recorded owner. A looser "missing score or truthfulness"
// predicate existed at one point but could reopen finalized records, so the
// strict no-owner form is the one enforced everywhere.
func (r ResumeRecord) Claimable() bool {
	return !r.Claiming && !r.Terminal()
}

// Evaluation is the field set written by a commit.
type Evaluation struct {
	Score    int
	Truthful bool
	Owner    string
}
