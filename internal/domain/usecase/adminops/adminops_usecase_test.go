package adminops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joycoin-platform/joycoin-backend/internal/domain/entity"
	errs "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	"github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/logger"
	"github.com/joycoin-platform/joycoin-backend/internal/testutil"
)

type adminFixture struct {
	users    *testutil.UserRepo
	deposits *testutil.DepositRepo
	clock    *testutil.FixedClock
	svc      *Service
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	users := testutil.NewUserRepo()
	deposits := testutil.NewDepositRepo()
	clock := testutil.NewFixedClock()
	svc := NewService(users, deposits, clock, logger.NewNoopLogger())
	return &adminFixture{users: users, deposits: deposits, clock: clock, svc: svc}
}

func (f *adminFixture) seedUser(t *testing.T, email, username string, role entity.Role) *entity.User {
	t.Helper()
	user, err := entity.NewUser(email, "hash", username, f.clock)
	require.NoError(t, err)
	user.Role = role
	return f.users.Seed(user)
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture(t)

	f.seedUser(t, "alice@example.com", "alice", entity.RoleUser)
	f.seedUser(t, "bob@example.com", "bob", entity.RoleSectorManager)
	f.seedUser(t, "carol@other.org", "carol", entity.RoleUser)

	t.Run("Substring match", func(t *testing.T) {
		users, err := f.svc.ListUsers(ctx, "example.com", "", 0)
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("Role filter", func(t *testing.T) {
		users, err := f.svc.ListUsers(ctx, "", "sector_manager", 0)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "bob", users[0].Username)
	})

	t.Run("Limit", func(t *testing.T) {
		users, err := f.svc.ListUsers(ctx, "", "", 2)
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})
}

func TestBanUnban(t *testing.T) {
	ctx := context.Background()

	t.Run("Ban then unban", func(t *testing.T) {
		f := newAdminFixture(t)
		user := f.seedUser(t, "alice@example.com", "alice", entity.RoleUser)

		banned, err := f.svc.Ban(ctx, 9, user.ID)
		require.NoError(t, err)
		assert.True(t, banned.IsBanned)

		unbanned, err := f.svc.Unban(ctx, 9, user.ID)
		require.NoError(t, err)
		assert.False(t, unbanned.IsBanned)
	})

	t.Run("Admins cannot be banned", func(t *testing.T) {
		f := newAdminFixture(t)
		admin := f.seedUser(t, "root@example.com", "root", entity.RoleAdmin)

		_, err := f.svc.Ban(ctx, 9, admin.ID)
		assert.ErrorIs(t, err, errs.ErrValidation)

		stored, err := f.users.GetByID(ctx, admin.ID)
		require.NoError(t, err)
		assert.False(t, stored.IsBanned)
	})

	t.Run("Unknown user", func(t *testing.T) {
		f := newAdminFixture(t)

		_, err := f.svc.Ban(ctx, 9, 404)
		assert.ErrorIs(t, err, errs.ErrUserNotFound)
	})
}

func TestPromoteDemote(t *testing.T) {
	ctx := context.Background()

	t.Run("User becomes admin", func(t *testing.T) {
		f := newAdminFixture(t)
		user := f.seedUser(t, "alice@example.com", "alice", entity.RoleUser)

		promoted, err := f.svc.Promote(ctx, 9, user.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.RoleAdmin, promoted.Role)
	})

	t.Run("Promoting an admin is a no-op", func(t *testing.T) {
		f := newAdminFixture(t)
		admin := f.seedUser(t, "root@example.com", "root", entity.RoleAdmin)

		unchanged, err := f.svc.Promote(ctx, 9, admin.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.RoleAdmin, unchanged.Role)
	})

	t.Run("Demote returns any account to user", func(t *testing.T) {
		f := newAdminFixture(t)
		other := f.seedUser(t, "bob@example.com", "bob", entity.RoleAdmin)

		demoted, err := f.svc.Demote(ctx, 9, other.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.RoleUser, demoted.Role)
	})

	t.Run("Self demotion is refused", func(t *testing.T) {
		f := newAdminFixture(t)
		admin := f.seedUser(t, "root@example.com", "root", entity.RoleAdmin)

		_, err := f.svc.Demote(ctx, admin.ID, admin.ID)
		assert.ErrorIs(t, err, errs.ErrValidation)

		stored, err := f.users.GetByID(ctx, admin.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.RoleAdmin, stored.Role)
	})
}

func TestDemoteSectorManager(t *testing.T) {
	ctx := context.Background()

	t.Run("Sector manager returns to user", func(t *testing.T) {
		f := newAdminFixture(t)
		manager := f.seedUser(t, "bob@example.com", "bob", entity.RoleSectorManager)

		demoted, err := f.svc.DemoteSectorManager(ctx, 9, manager.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.RoleUser, demoted.Role)
	})

	t.Run("Other roles are refused", func(t *testing.T) {
		f := newAdminFixture(t)
		user := f.seedUser(t, "alice@example.com", "alice", entity.RoleUser)
		admin := f.seedUser(t, "root@example.com", "root", entity.RoleAdmin)

		_, err := f.svc.DemoteSectorManager(ctx, 9, user.ID)
		assert.ErrorIs(t, err, errs.ErrValidation)

		_, err = f.svc.DemoteSectorManager(ctx, 9, admin.ID)
		assert.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture(t)

	owner := f.seedUser(t, "alice@example.com", "alice", entity.RoleUser)
	f.seedUser(t, "bob@example.com", "bob", entity.RoleUser)

	pending, err := entity.NewDepositRequest(owner.ID, entity.ChainTRC20, "addr", 10000, 500, f.clock)
	require.NoError(t, err)
	f.deposits.Seed(pending)

	approved, err := entity.NewDepositRequest(owner.ID, entity.ChainTRC20, "addr", 20000, 500, f.clock)
	require.NoError(t, err)
	require.NoError(t, approved.Approve(9, nil, "", f.clock))
	f.deposits.Seed(approved)

	stats, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.Deposits.PendingCount)
	assert.Equal(t, int64(1), stats.Deposits.ApprovedCount)
	assert.Equal(t, int64(20000), stats.Deposits.TotalApprovedUSDT)
}
