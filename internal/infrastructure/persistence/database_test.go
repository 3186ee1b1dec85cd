package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/portfolio"
	"github.com/keystone/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newMockDatabase creates a Database backed by a mocked postgres connection
func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	// gorm pings once while opening
	mock.ExpectPing()

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	return &Database{DB: gormDB}, mock, mockDB
}

func TestDialectorFor(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{"postgres url", "postgres://u:p@localhost:5432/keystone?sslmode=disable", "postgres"},
		{"postgres keyword dsn", "host=localhost user=keystone dbname=keystone", "postgres"},
		{"sqlite scheme", "sqlite:/tmp/keystone.db", "sqlite"},
		{"sqlite file uri", "file::memory:?cache=shared", "sqlite"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dialectorFor(tt.dsn).Name())
		})
	}

	d, ok := dialectorFor("sqlite:/tmp/keystone.db").(*sqlite.Dialector)
	require.True(t, ok)
	assert.Equal(t, "/tmp/keystone.db", d.DSN)
}

func TestNewSQLiteDatabase(t *testing.T) {
	database, err := NewSQLiteDatabase(":memory:")
	require.NoError(t, err)
	defer database.Close()

	assert.NoError(t, database.Ping())

	stats, err := database.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections)
}

func TestDatabase_Ping(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	mock.ExpectPing()

	assert.NoError(t, db.Ping())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Close(t *testing.T) {
	db, mock, _ := newMockDatabase(t)

	mock.ExpectClose()

	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Stats(t *testing.T) {
	db, _, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.OpenConnections, 0)
	assert.Equal(t, stats.OpenConnections, stats.InUse+stats.Idle)
}

func TestGormPortfolioRepository_FindByID_Postgres(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()
	repo := NewGormPortfolioRepository(db.DB)

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "portfolios" WHERE id = \$1 ORDER BY "portfolios"\."id" LIMIT \$2`).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "base_currency", "owner_id", "version"}).
			AddRow(id, "Alpha", "USD", "user-a", 3))

	p, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", p.Name)
	assert.Equal(t, 3, p.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPortfolioRepository_FindByID_NotFound(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()
	repo := NewGormPortfolioRepository(db.DB)

	mock.ExpectQuery(`SELECT \* FROM "portfolios"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, portfolio.ErrPortfolioNotFound)
}

func TestSaveVersioned_ConditionalUpdate_Postgres(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()
	repo := NewGormPortfolioRepository(db.DB)

	p, err := portfolio.NewPortfolio("Alpha", "", "USD", "user-a")
	require.NoError(t, err)
	require.NoError(t, p.Update("Alpha Two", "", "USD"))

	mock.ExpectExec(`UPDATE "portfolios" SET .* WHERE .*version = `).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Save(context.Background(), p)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
