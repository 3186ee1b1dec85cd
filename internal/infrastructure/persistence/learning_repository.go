package persistence

import (
	"context"
	"time"

	"github.com/keystone/backend/internal/domain/learning"
	"github.com/keystone/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProgressRepository implements learning.ProgressRepository using GORM
type GormProgressRepository struct {
	db *gorm.DB
}

// NewGormProgressRepository creates a new GormProgressRepository
func NewGormProgressRepository(db *gorm.DB) *GormProgressRepository {
	return &GormProgressRepository{db: db}
}

// MarkRead records a read; a repeated read keeps the first read time
func (r *GormProgressRepository) MarkRead(ctx context.Context, userID, slug string, at time.Time) (*learning.Progress, error) {
	db := r.db.WithContext(ctx)
	row := models.LearningProgressModel{UserID: userID, Slug: slug, ReadAt: at.UTC()}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return nil, err
	}

	var stored models.LearningProgressModel
	if err := db.Where("user_id = ? AND slug = ?", userID, slug).First(&stored).Error; err != nil {
		return nil, err
	}
	p := stored.ToDomain()
	return &p, nil
}

// FindAll returns a user's reads, oldest first
func (r *GormProgressRepository) FindAll(ctx context.Context, userID string) ([]learning.Progress, error) {
	var rows []models.LearningProgressModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("read_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]learning.Progress, len(rows))
	for i, row := range rows {
		out[i] = row.ToDomain()
	}
	return out, nil
}

// DeleteAll forgets a user's progress and returns how many reads were removed
func (r *GormProgressRepository) DeleteAll(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.LearningProgressModel{}, "user_id = ?", userID)
	return result.RowsAffected, result.Error
}

// Ensure GormProgressRepository implements ProgressRepository
var _ learning.ProgressRepository = (*GormProgressRepository)(nil)
