package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/keystone/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Add tickets", "add_tickets"},
		{"  add--Forge   budgets!! ", "add_forge_budgets"},
		{"v2 index", "v2_index"},
		{"___", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.in))
		})
	}
}

func TestCreate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "migrations")
	now := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

	f, err := Create(dir, "Add registry reminders", "Reminder dates for registry items", now)
	require.NoError(t, err)

	assert.Equal(t, "20261016093000", f.Version)
	assert.Equal(t, filepath.Join(dir, "20261016093000_add_registry_reminders.up.sql"), f.UpPath)

	up, err := os.ReadFile(f.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- add_registry_reminders\n")
	assert.Contains(t, string(up), "-- Reminder dates for registry items")

	down, err := os.ReadFile(f.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(rollback)")

	// Same second, same name: refuse to overwrite
	_, err = Create(dir, "Add registry reminders", "", now)
	assert.Error(t, err)
}

func TestCreate_RejectsEmptyName(t *testing.T) {
	_, err := Create(t.TempDir(), "!!!", "", time.Now())
	assert.Error(t, err)
}

func TestListAndLatestVersion(t *testing.T) {
	source := fstest.MapFS{
		"20261002000000_b.up.sql":   {Data: []byte("SELECT 1;")},
		"20261002000000_b.down.sql": {Data: []byte("SELECT 1;")},
		"20261001000000_a.up.sql":   {Data: []byte("SELECT 1;")},
		"20261001000000_a.down.sql": {Data: []byte("SELECT 1;")},
		"README.md":                 {Data: []byte("docs")},
	}

	names, err := List(source)
	require.NoError(t, err)
	assert.Equal(t, []string{"20261001000000_a", "20261002000000_b"}, names)

	latest, err := LatestVersion(source)
	require.NoError(t, err)
	assert.Equal(t, uint(20261002000000), latest)

	empty, err := LatestVersion(fstest.MapFS{})
	require.NoError(t, err)
	assert.Zero(t, empty)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	names, err := List(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, n := range names {
		_, err := migrations.FS.Open(n + ".down.sql")
		assert.NoError(t, err, "missing down migration for %s", n)
	}

	latest, err := LatestVersion(migrations.FS)
	require.NoError(t, err)
	assert.Equal(t, uint(20261001000006), latest)
}

func TestStatusPending(t *testing.T) {
	assert.True(t, Status{Version: 1, Latest: 2}.Pending())
	assert.False(t, Status{Version: 2, Latest: 2}.Pending())
}
