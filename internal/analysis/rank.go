// Package analysis ranks stored submissions for the instructor leaderboard.
package analysis

import (
	"fmt"
	"sort"

	"pricing-grader/internal/storage"
)

// Entry is one leaderboard row.
type Entry struct {
	Rank         int      `json:"rank"`
	SubmissionID string   `json:"submission_id"`
	StudentEmail string   `json:"student_email"`
	StudentName  string   `json:"student_name"`
	SubmittedAt  string   `json:"submitted_at"`
	AvgRevenue   float64  `json:"avg_revenue"`
	FillRate     float64  `json:"fill_rate"`
	Regret       *float64 `json:"regret,omitempty"`
}

// RankSubmissions orders submissions for grading: lowest regret first, ties
// broken by higher average revenue. Submissions without a regret value (DP
// benchmark unavailable at grading time) sort after those with one.
func RankSubmissions(recs []storage.SubmissionRecord) ([]Entry, error) {
	entries := make([]Entry, 0, len(recs))
	for _, rec := range recs {
		agg, err := rec.Aggregates()
		if err != nil {
			return nil, fmt.Errorf("submission %s: decode aggregates: %w", rec.ID, err)
		}
		entries = append(entries, Entry{
			SubmissionID: rec.ID,
			StudentEmail: rec.StudentEmail,
			StudentName:  rec.StudentName,
			SubmittedAt:  rec.CreatedAt,
			AvgRevenue:   agg.AvgRevenue,
			FillRate:     agg.FillRate,
			Regret:       agg.Regret,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch {
		case a.Regret != nil && b.Regret != nil:
			if *a.Regret != *b.Regret {
				return *a.Regret < *b.Regret
			}
			return a.AvgRevenue > b.AvgRevenue
		case a.Regret != nil:
			return true
		case b.Regret != nil:
			return false
		default:
			return a.AvgRevenue > b.AvgRevenue
		}
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
