package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormProgressRepository_MarkReadKeepsFirstRead(t *testing.T) {
	repo := NewGormProgressRepository(newTestDB(t))
	ctx := context.Background()
	first := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	p, err := repo.MarkRead(ctx, "user-a", "cap-rate", first)
	require.NoError(t, err)
	assert.True(t, first.Equal(p.ReadAt))

	again, err := repo.MarkRead(ctx, "user-a", "cap-rate", first.Add(48*time.Hour))
	require.NoError(t, err)
	assert.True(t, first.Equal(again.ReadAt))

	_, err = repo.MarkRead(ctx, "user-a", "ltv", first.Add(time.Hour))
	require.NoError(t, err)
	_, err = repo.MarkRead(ctx, "user-b", "ltv", first)
	require.NoError(t, err)

	all, err := repo.FindAll(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "cap-rate", all[0].Slug)
	assert.Equal(t, "ltv", all[1].Slug)

	n, err := repo.DeleteAll(ctx, "user-a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	all, err = repo.FindAll(ctx, "user-b")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
