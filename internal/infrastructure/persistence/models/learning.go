package models

import (
	"time"

	"github.com/keystone/backend/internal/domain/learning"
)

// LearningProgressModel records that a user has read a glossary term
type LearningProgressModel struct {
	UserID string    `gorm:"type:varchar(255);primaryKey"`
	Slug   string    `gorm:"type:varchar(100);primaryKey"`
	ReadAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LearningProgressModel) TableName() string {
	return "learning_progress"
}

// ToDomain converts the persistence model to a domain Progress
func (m *LearningProgressModel) ToDomain() learning.Progress {
	return learning.Progress{
		UserID: m.UserID,
		Slug:   m.Slug,
		ReadAt: m.ReadAt,
	}
}
