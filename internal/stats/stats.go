// Package stats computes labeling progress and score statistics for a
// collection.
package stats

import (
	"context"
	"fmt"
	"math"
	"sort"

	"resume-pipeline/internal/records"
)

// Report summarizes one collection's labeling state.
type Report struct {
	Collection string
	Total      int
	Labeled    int
	Claimed    int

	// Score statistics over labeled records only. Zero when Labeled == 0.
	Mean   float64
	Median float64
	StdDev float64
	Min    int
	Max    int

	// TruthfulRatio is the share of labeled records marked truthful.
	TruthfulRatio float64
}

// Compute derives a report from every record in the collection.
func Compute(ctx context.Context, repo records.Repo, collection string) (Report, error) {
	recs, err := repo.FetchAll(ctx, collection)
	if err != nil {
		return Report{}, fmt.Errorf("fetch collection: %w", err)
	}

	rep := Report{Collection: collection, Total: len(recs)}

	var scores []int
	truthful := 0
	for _, rec := range recs {
		if rec.Claiming {
			rep.Claimed++
		}
		if rec.Score == nil || rec.Truthfulness == nil {
			continue
		}
		rep.Labeled++
		scores = append(scores, *rec.Score)
		if *rec.Truthfulness {
			truthful++
		}
	}

	if len(scores) == 0 {
		return rep, nil
	}

	sort.Ints(scores)
	rep.Min = scores[0]
	rep.Max = scores[len(scores)-1]
	rep.Median = median(scores)

	sum := 0
	for _, s := range scores {
		sum += s
	}
	rep.Mean = float64(sum) / float64(len(scores))

	var sq float64
	for _, s := range scores {
		d := float64(s) - rep.Mean
		sq += d * d
	}
	rep.StdDev = math.Sqrt(sq / float64(len(scores)))

	rep.TruthfulRatio = float64(truthful) / float64(len(scores))
	return rep, nil
}

// median expects a sorted slice.
func median(sorted []int) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}
