package learning

import (
	"context"
	"time"

	"github.com/keystone/backend/internal/domain/learning"
	"go.uber.org/zap"
)

// LearningService serves the glossary and tracks what each user has read
type LearningService struct {
	glossary *learning.Glossary
	progress learning.ProgressRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewLearningService creates a new LearningService
func NewLearningService(glossary *learning.Glossary, progress learning.ProgressRepository, logger *zap.Logger) *LearningService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LearningService{
		glossary: glossary,
		progress: progress,
		logger:   logger,
		now:      time.Now,
	}
}

// ListTerms searches the glossary. Terms the user has read are flagged;
// when progress cannot be loaded the flags are left unset.
func (s *LearningService) ListTerms(ctx context.Context, userID string, filter GlossaryFilter) []TermResponse {
	read := s.readSet(ctx, userID)
	terms := s.glossary.List(filter.Search, filter.Category)
	responses := make([]TermResponse, 0, len(terms))
	for _, t := range terms {
		responses = append(responses, toTermResponse(t, read[t.Slug]))
	}
	return responses
}

// GetTerm returns one term by slug
func (s *LearningService) GetTerm(ctx context.Context, userID, slug string) (*TermResponse, error) {
	t, err := s.glossary.Get(slug)
	if err != nil {
		return nil, err
	}
	response := toTermResponse(t, s.readSet(ctx, userID)[t.Slug])
	return &response, nil
}

// Categories lists glossary categories
func (s *LearningService) Categories() []CategoryResponse {
	cats := s.glossary.Categories()
	responses := make([]CategoryResponse, 0, len(cats))
	for _, c := range cats {
		responses = append(responses, CategoryResponse{Key: c.Key, Title: c.Title, Count: c.Count})
	}
	return responses
}

// MarkRead records that the user read a term. Repeated calls are no-ops.
func (s *LearningService) MarkRead(ctx context.Context, userID, slug string) (*ProgressResponse, error) {
	if !s.glossary.Has(slug) {
		return nil, learning.ErrTermNotFound
	}
	if _, err := s.progress.MarkRead(ctx, userID, slug, s.now().UTC()); err != nil {
		return nil, err
	}
	return s.GetProgress(ctx, userID)
}

// GetProgress returns the user's reading progress
func (s *LearningService) GetProgress(ctx context.Context, userID string) (*ProgressResponse, error) {
	read, err := s.progress.FindAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	response := toProgressResponse(learning.Summarize(s.glossary, read))
	return &response, nil
}

// ResetProgress forgets everything the user has read
func (s *LearningService) ResetProgress(ctx context.Context, userID string) (*ResetResponse, error) {
	n, err := s.progress.DeleteAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ResetResponse{Removed: n}, nil
}

func (s *LearningService) readSet(ctx context.Context, userID string) map[string]bool {
	read, err := s.progress.FindAll(ctx, userID)
	if err != nil {
		s.logger.Warn("Failed to load learning progress", zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	set := make(map[string]bool, len(read))
	for _, p := range read {
		set[p.Slug] = true
	}
	return set
}
