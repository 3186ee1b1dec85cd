package telemetry

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// GormGaugeProvider implements GaugeProvider with aggregate queries over the
// documents and forge_token_budgets tables.
type GormGaugeProvider struct {
	db *gorm.DB
}

// NewGormGaugeProvider creates a new GormGaugeProvider.
func NewGormGaugeProvider(db *gorm.DB) *GormGaugeProvider {
	return &GormGaugeProvider{db: db}
}

// DocumentsByStatus counts documents per processing status.
func (p *GormGaugeProvider) DocumentsByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string `gorm:"column:processing_status"`
		Count  int64  `gorm:"column:count"`
	}
	err := p.db.WithContext(ctx).
		Table("documents").
		Select("processing_status, COUNT(*) AS count").
		Group("processing_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.Count
	}
	return out, nil
}

// BudgetUsage reads the counters of the budget for period.
func (p *GormGaugeProvider) BudgetUsage(ctx context.Context, period string) (int64, int64, bool, error) {
	var row struct {
		TokensUsed int64 `gorm:"column:tokens_used"`
		TokenLimit int64 `gorm:"column:token_limit"`
	}
	err := p.db.WithContext(ctx).
		Table("forge_token_budgets").
		Select("tokens_used, token_limit").
		Where("period = ?", period).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, err
	}
	return row.TokensUsed, row.TokenLimit, true, nil
}

var _ GaugeProvider = (*GormGaugeProvider)(nil)
