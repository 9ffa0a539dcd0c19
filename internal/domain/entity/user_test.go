package entity

import (
	"strings"
	"testing"
	"time"

	errs "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	fixedTime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &stubClock{now: fixedTime}

	t.Run("Valid user creation", func(t *testing.T) {
		user, err := NewUser("Alice@Example.COM", "hashed-password", "alice", clock)

		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, RoleUser, user.Role)
		assert.False(t, user.IsBanned)
		assert.Zero(t, user.TotalJoy)
		assert.Zero(t, user.TotalPoints)
		assert.Equal(t, fixedTime, user.CreatedAt)
		assert.Equal(t, fixedTime, user.UpdatedAt)
	})

	t.Run("Generated codes", func(t *testing.T) {
		user, err := NewUser("bob@example.com", "hash", "bob", clock)

		require.NoError(t, err)
		assert.Len(t, user.ReferralCode, 8)
		assert.True(t, strings.HasPrefix(user.ReferralCode, "JOY"))
		assert.Len(t, user.RecoveryCode, 11)
		assert.True(t, strings.HasPrefix(user.RecoveryCode, "RCV"))
	})

	t.Run("Invalid input", func(t *testing.T) {
		testCases := []struct {
			name     string
			email    string
			hash     string
			username string
		}{
			{"Empty email", "", "hash", "alice"},
			{"Email without at sign", "not-an-email", "hash", "alice"},
			{"Missing password hash", "a@b.com", "", "alice"},
			{"Blank username", "a@b.com", "hash", "   "},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				user, err := NewUser(tc.email, tc.hash, tc.username, clock)
				assert.Error(t, err)
				assert.Nil(t, user)
			})
		}
	})
}

func TestUserSetReferrer(t *testing.T) {
	clock := &stubClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	user, err := NewUser("carol@example.com", "hash", "carol", clock)
	require.NoError(t, err)
	user.ID = 7

	t.Run("Sets the link once", func(t *testing.T) {
		require.NoError(t, user.SetReferrer(3))
		require.NotNil(t, user.ReferredBy)
		assert.Equal(t, uint64(3), *user.ReferredBy)
	})

	t.Run("Second referrer is rejected", func(t *testing.T) {
		assert.ErrorIs(t, user.SetReferrer(4), errs.ErrConflict)
	})

	t.Run("Self referral is rejected", func(t *testing.T) {
		fresh, err := NewUser("dave@example.com", "hash", "dave", clock)
		require.NoError(t, err)
		fresh.ID = 9

		assert.Error(t, fresh.SetReferrer(9))
		assert.Nil(t, fresh.ReferredBy)
	})
}

func TestUserCreditJoy(t *testing.T) {
	initialTime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	creditTime := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)
	clock := &stubClock{now: initialTime}

	user, err := NewUser("erin@example.com", "hash", "erin", clock)
	require.NoError(t, err)

	clock.now = creditTime
	require.NoError(t, user.CreditJoy(1000, clock))
	require.NoError(t, user.CreditJoy(500, clock))

	assert.Equal(t, int64(1500), user.TotalJoy)
	assert.Equal(t, initialTime, user.CreatedAt)
	assert.Equal(t, creditTime, user.UpdatedAt)

	assert.ErrorIs(t, user.CreditJoy(-1, clock), errs.ErrNegativeAmount)
	assert.Equal(t, int64(1500), user.TotalJoy)
}

func TestUserApplyPoints(t *testing.T) {
	clock := &stubClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	user, err := NewUser("frank@example.com", "hash", "frank", clock)
	require.NoError(t, err)
	user.ID = 5

	require.NoError(t, user.ApplyPoints(100, clock))
	require.NoError(t, user.ApplyPoints(-40, clock))
	assert.Equal(t, int64(60), user.TotalPoints)

	t.Run("Overdraw is rejected", func(t *testing.T) {
		err := user.ApplyPoints(-61, clock)
		assert.ErrorIs(t, err, errs.ErrInsufficientPoints)
		assert.Equal(t, int64(60), user.TotalPoints)
	})
}

func TestUserBan(t *testing.T) {
	clock := &stubClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}

	t.Run("Regular user can be banned and unbanned", func(t *testing.T) {
		user, err := NewUser("gail@example.com", "hash", "gail", clock)
		require.NoError(t, err)

		require.NoError(t, user.Ban(clock))
		assert.True(t, user.IsBanned)

		user.Unban(clock)
		assert.False(t, user.IsBanned)
	})

	t.Run("Admins cannot be banned", func(t *testing.T) {
		admin, err := NewUser("admin@example.com", "hash", "admin", clock)
		require.NoError(t, err)
		admin.Role = RoleAdmin

		assert.Error(t, admin.Ban(clock))
		assert.False(t, admin.IsBanned)
	})
}
