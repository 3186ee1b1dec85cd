package learning

import (
	"time"

	"github.com/keystone/backend/internal/domain/learning"
)

// TermResponse represents a glossary term
type TermResponse struct {
	Slug       string   `json:"slug"`
	Term       string   `json:"term"`
	Title      string   `json:"title"`
	Category   string   `json:"category"`
	Definition string   `json:"definition"`
	Related    []string `json:"related"`
	Read       bool     `json:"read"`
}

// CategoryResponse represents a glossary category
type CategoryResponse struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Count int    `json:"count"`
}

// GlossaryFilter represents glossary search parameters
type GlossaryFilter struct {
	Search   string `form:"search" binding:"max=100"`
	Category string `form:"category" binding:"max=50"`
}

// ReadTermResponse is one term the user has read
type ReadTermResponse struct {
	Slug   string    `json:"slug"`
	ReadAt time.Time `json:"read_at"`
}

// ProgressResponse summarizes a user's reading progress
type ProgressResponse struct {
	Read       []ReadTermResponse `json:"read"`
	ReadCount  int                `json:"read_count"`
	TotalTerms int                `json:"total_terms"`
	Completion float64            `json:"completion"`
}

// ResetResponse reports how many read marks were removed
type ResetResponse struct {
	Removed int64 `json:"removed"`
}

func toTermResponse(t learning.Term, read bool) TermResponse {
	related := t.Related
	if related == nil {
		related = []string{}
	}
	return TermResponse{
		Slug:       t.Slug,
		Term:       t.Term,
		Title:      t.Title(),
		Category:   t.Category,
		Definition: t.Definition,
		Related:    related,
		Read:       read,
	}
}

func toProgressResponse(s learning.ProgressSummary) ProgressResponse {
	resp := ProgressResponse{
		Read:       make([]ReadTermResponse, 0, len(s.Read)),
		ReadCount:  s.ReadCount,
		TotalTerms: s.TotalTerms,
		Completion: s.Completion,
	}
	for _, p := range s.Read {
		resp.Read = append(resp.Read, ReadTermResponse{Slug: p.Slug, ReadAt: p.ReadAt})
	}
	return resp
}
