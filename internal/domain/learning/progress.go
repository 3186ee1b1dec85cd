package learning

import (
	"context"
	"math"
	"time"
)

// Progress records that a user has read a glossary term
type Progress struct {
	UserID string
	Slug   string
	ReadAt time.Time
}

// ProgressSummary is a user's reading progress over the whole glossary
type ProgressSummary struct {
	Read       []Progress
	ReadCount  int
	TotalTerms int
	Completion float64 // 0..1, four decimals
}

// Summarize computes the completion ratio. Progress rows for slugs that are
// no longer in the glossary are dropped.
func Summarize(g *Glossary, read []Progress) ProgressSummary {
	kept := make([]Progress, 0, len(read))
	for _, p := range read {
		if g.Has(p.Slug) {
			kept = append(kept, p)
		}
	}
	s := ProgressSummary{Read: kept, ReadCount: len(kept), TotalTerms: g.Len()}
	if s.TotalTerms > 0 {
		s.Completion = math.Round(float64(s.ReadCount)/float64(s.TotalTerms)*10000) / 10000
	}
	return s
}

// ProgressRepository persists reading progress
type ProgressRepository interface {
	// MarkRead records the read; marking the same term again keeps the first read time
	MarkRead(ctx context.Context, userID, slug string, at time.Time) (*Progress, error)
	FindAll(ctx context.Context, userID string) ([]Progress, error)
	DeleteAll(ctx context.Context, userID string) (int64, error)
}
