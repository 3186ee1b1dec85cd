//go:build integration

package persistence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/keystone/backend/internal/domain/forge"
	"github.com/keystone/backend/internal/domain/shared"
	"github.com/keystone/backend/internal/infrastructure/config"
	"github.com/keystone/backend/internal/infrastructure/migration"
	"github.com/keystone/backend/migrations"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
)

// newPostgresDB starts a throwaway postgres container and applies the
// embedded migrations to it
func newPostgresDB(t *testing.T) (*Database, *migration.Migrator) {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("keystone_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	database, err := NewDatabase(&config.DatabaseConfig{
		URL:             dsn,
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5,
		ConnMaxIdleTime: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	sqlDB, err := database.DB.DB()
	require.NoError(t, err)
	migrator, err := migration.New(sqlDB, migrations.FS, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, migrator.Up())

	return database, migrator
}

func TestPostgres_MigrationsMatchRepositories(t *testing.T) {
	database, migrator := newPostgresDB(t)
	ctx := context.Background()

	status, err := migrator.Status(migrations.FS)
	require.NoError(t, err)
	assert.False(t, status.Dirty)
	assert.False(t, status.Pending())

	portfolios := NewGormPortfolioRepository(database.DB)
	alpha := createPortfolio(t, portfolios, "Alpha Holdings", "user-a")

	found, err := portfolios.FindByID(ctx, alpha.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha Holdings", found.Name)

	filter := shared.DefaultFilter()
	filter.Search = "ALPHA"
	list, err := portfolios.FindAllForUser(ctx, "user-a", filter)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestPostgres_ConcurrentTicketCreateGetsDistinctKeys(t *testing.T) {
	database, _ := newPostgresDB(t)
	repo := NewGormTicketRepository(database.DB)

	const workers = 2
	keys := make([]string, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ticket, err := forge.NewTicket(forge.TicketDetails{Title: "Parallel"}, forge.StatusTodo, "admin")
			if err != nil {
				errs[i] = err
				return
			}
			errs[i] = repo.Create(context.Background(), ticket, "FRG")
			keys[i] = ticket.Key
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.ElementsMatch(t, []string{"FRG-1", "FRG-2"}, keys)
}

func TestPostgres_BudgetUsageAccumulates(t *testing.T) {
	database, _ := newPostgresDB(t)
	repo := NewGormBudgetRepository(database.DB)
	ctx := context.Background()

	costLimit := decimal.NewFromInt(50)
	budget, err := forge.NewTokenBudget("2026-10", forge.BudgetLimits{
		TokenLimit: 1_000_000,
		CostLimit:  &costLimit,
	})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, budget))

	require.NoError(t, repo.AddUsage(ctx, "2026-10", 1200, decimal.RequireFromString("0.36")))
	require.NoError(t, repo.AddUsage(ctx, "2026-10", 800, decimal.RequireFromString("0.24")))

	stored, err := repo.FindByPeriod(ctx, "2026-10")
	require.NoError(t, err)
	assert.Equal(t, int64(2000), stored.TokensUsed)
	assert.True(t, decimal.RequireFromString("0.60").Equal(stored.CostUsed))
}

func TestPostgres_MigrateDownDropsSchema(t *testing.T) {
	database, migrator := newPostgresDB(t)

	require.NoError(t, migrator.Down())
	version, dirty, err := migrator.Version()
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.False(t, dirty)

	assert.False(t, database.DB.Migrator().HasTable("portfolios"))
}
