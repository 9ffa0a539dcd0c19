package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/joycoin-platform/joycoin-backend/internal/domain/entity"
	errs "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	"github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/logger"
	"github.com/joycoin-platform/joycoin-backend/internal/testutil"
)

type authFixture struct {
	users  *testutil.UserRepo
	rates  *testutil.RateRepo
	uow    *testutil.UnitOfWork
	clock  *testutil.FixedClock
	tokens *TokenManager
	svc    *Service
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	users := testutil.NewUserRepo()
	rates := testutil.NewRateRepo()
	clock := testutil.NewFixedClock()
	uow := &testutil.UnitOfWork{
		UserRepo:     users,
		PointRepo:    testutil.NewPointRepo(),
		ReferralRepo: testutil.NewReferralRepo(),
	}
	tokens := NewTokenManager([]byte("0123456789abcdef0123456789abcdef"), time.Hour, clock)
	svc := NewService(users, rates, uow, tokens, clock, logger.NewNoopLogger())
	return &authFixture{users: users, rates: rates, uow: uow, clock: clock, tokens: tokens, svc: svc}
}

func (f *authFixture) seedUser(t *testing.T, email, password, username string) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user, err := entity.NewUser(email, string(hash), username, f.clock)
	require.NoError(t, err)
	return f.users.Seed(user)
}

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates the account", func(t *testing.T) {
		f := newAuthFixture(t)

		result, err := f.svc.Signup(ctx, SignupRequest{
			Email:    "alice@example.com",
			Password: "correct-horse",
			Username: "alice",
		})

		require.NoError(t, err)
		assert.NotZero(t, result.UserID)
		assert.Contains(t, result.ReferralCode, "JOY")
		assert.Equal(t, 1, f.uow.Commits)

		stored, err := f.users.GetByID(ctx, result.UserID)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", stored.Email)
		assert.Equal(t, entity.RoleUser, stored.Role)
	})

	t.Run("Short password is rejected before any write", func(t *testing.T) {
		f := newAuthFixture(t)

		_, err := f.svc.Signup(ctx, SignupRequest{
			Email:    "bob@example.com",
			Password: "short",
			Username: "bob",
		})

		assert.ErrorIs(t, err, errs.ErrValidation)
		assert.Zero(t, f.uow.Begins)
	})

	t.Run("Referral credits the referrer in the same commit", func(t *testing.T) {
		f := newAuthFixture(t)
		referrer := f.seedUser(t, "carol@example.com", "password123", "carol")

		// the active rate configures a 250 point bonus
		rate, err := entity.NewExchangeRate(100_00, 0, 0, 250, 1, f.clock)
		require.NoError(t, err)
		require.NoError(t, f.rates.Insert(ctx, rate))

		result, err := f.svc.Signup(ctx, SignupRequest{
			Email:        "dave@example.com",
			Password:     "password123",
			Username:     "dave",
			ReferralCode: referrer.ReferralCode,
		})
		require.NoError(t, err)

		updated, err := f.users.GetByID(ctx, referrer.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(250), updated.TotalPoints)

		referrals, err := f.uow.ReferralRepo.ListByReferrer(ctx, referrer.ID)
		require.NoError(t, err)
		require.Len(t, referrals, 1)
		assert.Equal(t, result.UserID, referrals[0].ReferredID)

		sum, err := f.uow.PointRepo.SumByUser(ctx, referrer.ID)
		require.NoError(t, err)
		assert.Equal(t, updated.TotalPoints, sum)

		newUser, err := f.users.GetByID(ctx, result.UserID)
		require.NoError(t, err)
		require.NotNil(t, newUser.ReferredBy)
		assert.Equal(t, referrer.ID, *newUser.ReferredBy)
	})

	t.Run("Zero-bonus rate links the referral without awarding points", func(t *testing.T) {
		f := newAuthFixture(t)
		referrer := f.seedUser(t, "carol@example.com", "password123", "carol")

		rate, err := entity.NewExchangeRate(100_00, 0, 0, 0, 1, f.clock)
		require.NoError(t, err)
		require.NoError(t, f.rates.Insert(ctx, rate))

		result, err := f.svc.Signup(ctx, SignupRequest{
			Email:        "dave@example.com",
			Password:     "password123",
			Username:     "dave",
			ReferralCode: referrer.ReferralCode,
		})
		require.NoError(t, err)

		referrals, err := f.uow.ReferralRepo.ListByReferrer(ctx, referrer.ID)
		require.NoError(t, err)
		require.Len(t, referrals, 1)
		assert.Equal(t, result.UserID, referrals[0].ReferredID)

		updated, err := f.users.GetByID(ctx, referrer.ID)
		require.NoError(t, err)
		assert.Zero(t, updated.TotalPoints)

		entries, err := f.uow.PointRepo.ListByUser(ctx, referrer.ID)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("Unknown referral code creates nothing", func(t *testing.T) {
		f := newAuthFixture(t)

		_, err := f.svc.Signup(ctx, SignupRequest{
			Email:        "erin@example.com",
			Password:     "password123",
			Username:     "erin",
			ReferralCode: "JOYXXXXX",
		})

		assert.ErrorIs(t, err, errs.ErrInvalidReferralCode)
		assert.Zero(t, f.uow.Begins)
		count, _ := f.users.Count(ctx)
		assert.Zero(t, count)
	})

	t.Run("Duplicate email rolls back", func(t *testing.T) {
		f := newAuthFixture(t)
		f.seedUser(t, "frank@example.com", "password123", "frank")

		_, err := f.svc.Signup(ctx, SignupRequest{
			Email:    "Frank@Example.com",
			Password: "password123",
			Username: "frank2",
		})

		assert.ErrorIs(t, err, errs.ErrDuplicateEmail)
		assert.Equal(t, 1, f.uow.Rollbacks)
		assert.Zero(t, f.uow.Commits)
	})

	t.Run("Referral code collision retries with fresh codes", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.CreateConflicts = 2

		result, err := f.svc.Signup(ctx, SignupRequest{
			Email:    "gail@example.com",
			Password: "password123",
			Username: "gail",
		})

		require.NoError(t, err)
		assert.NotZero(t, result.UserID)
		assert.Equal(t, 1, f.uow.Commits)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("Issues a verifiable token", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.seedUser(t, "alice@example.com", "password123", "alice")

		token, err := f.svc.Login(ctx, "  Alice@Example.COM ", "password123")

		require.NoError(t, err)
		userID, err := f.tokens.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, userID)
	})

	t.Run("Wrong password and unknown email fail identically", func(t *testing.T) {
		f := newAuthFixture(t)
		f.seedUser(t, "alice@example.com", "password123", "alice")

		_, wrongPassword := f.svc.Login(ctx, "alice@example.com", "nope")
		_, unknownEmail := f.svc.Login(ctx, "ghost@example.com", "password123")

		assert.ErrorIs(t, wrongPassword, errs.ErrAuth)
		assert.ErrorIs(t, unknownEmail, errs.ErrAuth)
		assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	})

	t.Run("Banned accounts cannot log in", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.seedUser(t, "hank@example.com", "password123", "hank")
		require.NoError(t, user.Ban(f.clock))
		require.NoError(t, f.users.Update(ctx, user))

		_, err := f.svc.Login(ctx, "hank@example.com", "password123")
		assert.ErrorIs(t, err, errs.ErrBanned)
	})

	t.Run("Expired token fails verification", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.seedUser(t, "ivy@example.com", "password123", "ivy")

		token, err := f.tokens.Issue(user)
		require.NoError(t, err)

		f.clock.Advance(2 * time.Hour)
		_, err = f.tokens.Verify(token)
		assert.ErrorIs(t, err, errs.ErrAuth)
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("Re-verifies the current password", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.seedUser(t, "alice@example.com", "password123", "alice")

		err := f.svc.ChangePassword(ctx, user.ID, "wrong-current", "newpassword")
		assert.ErrorIs(t, err, errs.ErrAuth)
	})

	t.Run("Short replacement is rejected", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.seedUser(t, "alice@example.com", "password123", "alice")

		err := f.svc.ChangePassword(ctx, user.ID, "password123", "tiny")
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("New password works for login", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.seedUser(t, "alice@example.com", "password123", "alice")

		require.NoError(t, f.svc.ChangePassword(ctx, user.ID, "password123", "newpassword"))

		_, err := f.svc.Login(ctx, "alice@example.com", "password123")
		assert.ErrorIs(t, err, errs.ErrAuth)

		_, err = f.svc.Login(ctx, "alice@example.com", "newpassword")
		assert.NoError(t, err)
	})
}
