package telemetry_test

import (
	"context"
	"testing"

	"github.com/keystone/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newGaugeDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Exec(`CREATE TABLE documents (id TEXT PRIMARY KEY, processing_status TEXT NOT NULL)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE forge_token_budgets (period TEXT PRIMARY KEY, tokens_used INTEGER NOT NULL, token_limit INTEGER NOT NULL)`).Error)
	return db
}

func TestGormGaugeProvider_DocumentsByStatus(t *testing.T) {
	db := newGaugeDB(t)
	for i, status := range []string{"completed", "completed", "failed", "none"} {
		require.NoError(t, db.Exec(`INSERT INTO documents (id, processing_status) VALUES (?, ?)`, i, status).Error)
	}

	counts, err := telemetry.NewGormGaugeProvider(db).DocumentsByStatus(context.Background())

	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"completed": 2, "failed": 1, "none": 1}, counts)
}

func TestGormGaugeProvider_BudgetUsage(t *testing.T) {
	db := newGaugeDB(t)
	require.NoError(t, db.Exec(`INSERT INTO forge_token_budgets (period, tokens_used, token_limit) VALUES ('2026-10', 300, 1000)`).Error)
	provider := telemetry.NewGormGaugeProvider(db)

	used, limit, found, err := provider.BudgetUsage(context.Background(), "2026-10")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(300), used)
	assert.Equal(t, int64(1000), limit)

	_, _, found, err = provider.BudgetUsage(context.Background(), "2026-11")
	require.NoError(t, err)
	assert.False(t, found)
}
