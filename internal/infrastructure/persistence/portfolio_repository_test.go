package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/keystone/backend/internal/domain/portfolio"
	"github.com/keystone/backend/internal/domain/property"
	"github.com/keystone/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPortfolio(t *testing.T, repo *GormPortfolioRepository, name, ownerID string) *portfolio.Portfolio {
	t.Helper()
	p, err := portfolio.NewPortfolio(name, "", "USD", ownerID)
	require.NoError(t, err)
	owner, err := portfolio.NewMember(p.ID, ownerID, ownerID+"@example.com", portfolio.RoleOwner)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), p, owner))
	return p
}

func TestGormPortfolioRepository_CreateAndFindAllForUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormPortfolioRepository(db)
	members := NewGormMemberRepository(db)
	ctx := context.Background()

	alpha := createPortfolio(t, repo, "Alpha Holdings", "user-a")
	createPortfolio(t, repo, "Beta Rentals", "user-b")

	found, err := repo.FindByID(ctx, alpha.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha Holdings", found.Name)
	assert.Equal(t, "user-a", found.OwnerID)

	owner, err := members.Find(ctx, alpha.ID, "user-a")
	require.NoError(t, err)
	assert.Equal(t, portfolio.RoleOwner, owner.Role)

	filter := shared.DefaultFilter()
	list, err := repo.FindAllForUser(ctx, "user-a", filter)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, alpha.ID, list[0].ID)

	count, err := repo.CountForUser(ctx, "user-a", filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	filter.Search = "beta"
	list, err = repo.FindAllForUser(ctx, "user-a", filter)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGormPortfolioRepository_SaveDetectsStaleVersion(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormPortfolioRepository(db)
	ctx := context.Background()

	p := createPortfolio(t, repo, "Alpha", "user-a")

	first, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)

	require.NoError(t, first.Update("Alpha One", "", "EUR"))
	require.NoError(t, repo.Save(ctx, first))

	require.NoError(t, second.Update("Alpha Two", "", "USD"))
	err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	stored, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha One", stored.Name)
	assert.Equal(t, "EUR", stored.BaseCurrency)
	assert.Equal(t, 2, stored.Version)
}

func TestGormPortfolioRepository_DeleteRemovesScopedRows(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormPortfolioRepository(db)
	properties := NewGormPropertyRepository(db)
	ctx := context.Background()

	doomed := createPortfolio(t, repo, "Doomed", "user-a")
	kept := createPortfolio(t, repo, "Kept", "user-a")

	for _, pid := range []uuid.UUID{doomed.ID, kept.ID} {
		prop, err := property.NewProperty(pid, "user-a", property.Details{Name: "Elm St", Type: property.TypeCondo})
		require.NoError(t, err)
		require.NoError(t, properties.Save(ctx, prop))
	}

	require.NoError(t, repo.Delete(ctx, doomed.ID))

	_, err := repo.FindByID(ctx, doomed.ID)
	assert.ErrorIs(t, err, portfolio.ErrPortfolioNotFound)

	n, err := properties.CountForTenant(ctx, doomed.ID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = properties.CountForTenant(ctx, kept.ID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.ErrorIs(t, repo.Delete(ctx, doomed.ID), portfolio.ErrPortfolioNotFound)
}

func TestGormMemberRepository(t *testing.T) {
	db := newTestDB(t)
	portfolios := NewGormPortfolioRepository(db)
	repo := NewGormMemberRepository(db)
	ctx := context.Background()

	p := createPortfolio(t, portfolios, "Alpha", "user-a")

	manager, err := portfolio.NewMember(p.ID, "user-m", "m@example.com", portfolio.RoleManager)
	require.NoError(t, err)
	invitations := NewGormInvitationRepository(db)
	inv, _, err := portfolio.NewInvitation(p.ID, "m@example.com", portfolio.RoleManager, "user-a", time.Now(), time.Hour)
	require.NoError(t, err)
	require.NoError(t, invitations.Save(ctx, inv))
	require.NoError(t, inv.Accept("user-m", time.Now()))
	require.NoError(t, invitations.AcceptWithMember(ctx, inv, manager))

	all, err := repo.FindAll(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "user-a", all[0].UserID)

	owners, err := repo.CountByRole(ctx, p.ID, portfolio.RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), owners)

	require.NoError(t, manager.ChangeRole(portfolio.RoleViewer))
	require.NoError(t, repo.Save(ctx, manager))
	stored, err := repo.Find(ctx, p.ID, "user-m")
	require.NoError(t, err)
	assert.Equal(t, portfolio.RoleViewer, stored.Role)

	require.NoError(t, repo.Delete(ctx, p.ID, "user-m"))
	_, err = repo.Find(ctx, p.ID, "user-m")
	assert.ErrorIs(t, err, portfolio.ErrMemberNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, p.ID, "user-m"), portfolio.ErrMemberNotFound)
}

func TestGormInvitationRepository_AcceptWithMember(t *testing.T) {
	db := newTestDB(t)
	portfolios := NewGormPortfolioRepository(db)
	repo := NewGormInvitationRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	p := createPortfolio(t, portfolios, "Alpha", "user-a")
	inv, token, err := portfolio.NewInvitation(p.ID, "Guest@Example.com", portfolio.RoleViewer, "user-a", now, 24*time.Hour)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, inv))

	byToken, err := repo.FindByTokenHash(ctx, portfolio.HashToken(token))
	require.NoError(t, err)
	assert.Equal(t, inv.ID, byToken.ID)
	assert.Equal(t, "guest@example.com", byToken.Email)

	pending, err := repo.FindPendingByEmail(ctx, p.ID, "guest@example.com")
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	// two requests load the same pending invitation
	winner, err := repo.FindByIDForTenant(ctx, p.ID, inv.ID)
	require.NoError(t, err)
	loser, err := repo.FindByIDForTenant(ctx, p.ID, inv.ID)
	require.NoError(t, err)

	require.NoError(t, winner.Accept("user-g", now))
	member, err := portfolio.NewMember(p.ID, "user-g", winner.Email, winner.Role)
	require.NoError(t, err)
	require.NoError(t, repo.AcceptWithMember(ctx, winner, member))

	require.NoError(t, loser.Accept("user-h", now))
	other, err := portfolio.NewMember(p.ID, "user-h", loser.Email, loser.Role)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.AcceptWithMember(ctx, loser, other), portfolio.ErrInvitationAlreadyUsed)

	_, err = NewGormMemberRepository(db).Find(ctx, p.ID, "user-h")
	assert.ErrorIs(t, err, portfolio.ErrMemberNotFound)

	stored, err := repo.FindByIDForTenant(ctx, p.ID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, portfolio.InvitationStatusAccepted, stored.Status)
	assert.Equal(t, "user-g", stored.AcceptedBy)
}

func TestGormInvitationRepository_AcceptWithMemberRejectsExistingMember(t *testing.T) {
	db := newTestDB(t)
	portfolios := NewGormPortfolioRepository(db)
	repo := NewGormInvitationRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	p := createPortfolio(t, portfolios, "Alpha", "user-a")
	inv, _, err := portfolio.NewInvitation(p.ID, "a@example.com", portfolio.RoleViewer, "user-a", now, time.Hour)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, inv))

	require.NoError(t, inv.Accept("user-a", now))
	member, err := portfolio.NewMember(p.ID, "user-a", "a@example.com", portfolio.RoleViewer)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.AcceptWithMember(ctx, inv, member), portfolio.ErrAlreadyMember)

	// the transaction rolled back, so the invitation is still pending
	stored, err := repo.FindByIDForTenant(ctx, p.ID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, portfolio.InvitationStatusPending, stored.Status)
}

func TestGormInvitationRepository_ExpirePending(t *testing.T) {
	db := newTestDB(t)
	portfolios := NewGormPortfolioRepository(db)
	repo := NewGormInvitationRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	p := createPortfolio(t, portfolios, "Alpha", "user-a")
	lapsed, _, err := portfolio.NewInvitation(p.ID, "old@example.com", portfolio.RoleViewer, "user-a", now.Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)
	fresh, _, err := portfolio.NewInvitation(p.ID, "new@example.com", portfolio.RoleViewer, "user-a", now, time.Hour)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, lapsed))
	require.NoError(t, repo.Save(ctx, fresh))

	n, err := repo.ExpirePending(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	stored, err := repo.FindByIDForTenant(ctx, p.ID, lapsed.ID)
	require.NoError(t, err)
	assert.Equal(t, portfolio.InvitationStatusExpired, stored.Status)
	assert.Equal(t, 2, stored.Version)

	filter := shared.DefaultFilter()
	filter.Filters["status"] = string(portfolio.InvitationStatusPending)
	count, err := repo.CountForTenant(ctx, p.ID, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	n, err = repo.ExpirePending(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestGormInvitationRepository_TenantIsolation(t *testing.T) {
	db := newTestDB(t)
	portfolios := NewGormPortfolioRepository(db)
	repo := NewGormInvitationRepository(db)
	ctx := context.Background()

	mine := createPortfolio(t, portfolios, "Mine", "user-a")
	theirs := createPortfolio(t, portfolios, "Theirs", "user-b")

	inv, _, err := portfolio.NewInvitation(mine.ID, "x@example.com", portfolio.RoleViewer, "user-a", time.Now(), time.Hour)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, inv))

	_, err = repo.FindByIDForTenant(ctx, theirs.ID, inv.ID)
	assert.ErrorIs(t, err, portfolio.ErrInvitationNotFound)
}
