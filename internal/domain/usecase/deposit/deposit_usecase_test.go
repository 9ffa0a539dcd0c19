package deposit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joycoin-platform/joycoin-backend/internal/domain/entity"
	errs "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	"github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/logger"
	"github.com/joycoin-platform/joycoin-backend/internal/testutil"
)

type depositFixture struct {
	deposits *testutil.DepositRepo
	users    *testutil.UserRepo
	rates    *testutil.RateRepo
	uow      *testutil.UnitOfWork
	notifier *testutil.Notifier
	clock    *testutil.FixedClock
	svc      *Service
	owner    *entity.User
}

func newDepositFixture(t *testing.T) *depositFixture {
	t.Helper()
	ctx := context.Background()

	deposits := testutil.NewDepositRepo()
	users := testutil.NewUserRepo()
	rates := testutil.NewRateRepo()
	clock := testutil.NewFixedClock()
	notifier := testutil.NewNotifier()
	uow := &testutil.UnitOfWork{UserRepo: users, DepositRepo: deposits}

	owner, err := entity.NewUser("owner@example.com", "hash", "owner", clock)
	require.NoError(t, err)
	users.Seed(owner)

	// 5.00 JOY per USDT
	rate, err := entity.NewExchangeRate(500, 0, 0, 0, 1, clock)
	require.NoError(t, err)
	require.NoError(t, rates.Insert(ctx, rate))

	addresses := map[entity.Chain]string{
		entity.ChainTRC20: "TXYZplatformAddress",
		entity.ChainERC20: "0xplatformAddress",
	}

	svc := NewService(deposits, users, rates, uow, notifier, addresses, clock, logger.NewNoopLogger())
	return &depositFixture{
		deposits: deposits,
		users:    users,
		rates:    rates,
		uow:      uow,
		notifier: notifier,
		clock:    clock,
		svc:      svc,
		owner:    owner,
	}
}

func TestDepositCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Snapshots the active rate", func(t *testing.T) {
		f := newDepositFixture(t)

		deposit, err := f.svc.Create(ctx, CreateRequest{
			UserID:     f.owner.ID,
			Chain:      "TRC20",
			AmountUSDT: "200.00",
		})

		require.NoError(t, err)
		assert.Equal(t, entity.DepositPending, deposit.Status)
		assert.Equal(t, "TXYZplatformAddress", deposit.AssignedAddress)
		assert.Equal(t, int64(20000), deposit.ExpectedAmount)
		assert.Equal(t, int64(500), deposit.RateJoyPerUSDT)
		assert.Equal(t, int64(1000), deposit.JoyAmount)

		assert.Eventually(t, func() bool {
			return len(f.notifier.Requested()) == 1
		}, time.Second, 10*time.Millisecond)

		event := f.notifier.Requested()[0]
		assert.Equal(t, deposit.ID, event.DepositID)
		assert.Equal(t, "200.00", event.AmountUSDT)
		assert.Equal(t, "owner@example.com", event.UserEmail)
	})

	t.Run("Later rate changes do not touch existing requests", func(t *testing.T) {
		f := newDepositFixture(t)

		deposit, err := f.svc.Create(ctx, CreateRequest{
			UserID: f.owner.ID, Chain: "TRC20", AmountUSDT: "100.00",
		})
		require.NoError(t, err)

		newRate, err := entity.NewExchangeRate(1000, 0, 0, 0, 1, f.clock)
		require.NoError(t, err)
		require.NoError(t, f.rates.Insert(ctx, newRate))

		stored, err := f.deposits.GetByID(ctx, deposit.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(500), stored.RateJoyPerUSDT)
		assert.Equal(t, int64(500), stored.JoyAmount)
	})

	t.Run("Unsupported chain", func(t *testing.T) {
		f := newDepositFixture(t)

		_, err := f.svc.Create(ctx, CreateRequest{
			UserID: f.owner.ID, Chain: "DOGE", AmountUSDT: "100.00",
		})
		assert.ErrorIs(t, err, errs.ErrInvalidChain)
	})

	t.Run("Chain without a configured address", func(t *testing.T) {
		f := newDepositFixture(t)

		_, err := f.svc.Create(ctx, CreateRequest{
			UserID: f.owner.ID, Chain: "BSC", AmountUSDT: "100.00",
		})
		assert.ErrorIs(t, err, errs.ErrNotConfigured)
	})

	t.Run("No active rate", func(t *testing.T) {
		f := newDepositFixture(t)
		f.rates = testutil.NewRateRepo()
		f.svc = NewService(f.deposits, f.users, f.rates, f.uow, f.notifier,
			map[entity.Chain]string{entity.ChainTRC20: "addr"}, f.clock, logger.NewNoopLogger())

		_, err := f.svc.Create(ctx, CreateRequest{
			UserID: f.owner.ID, Chain: "TRC20", AmountUSDT: "100.00",
		})
		assert.ErrorIs(t, err, errs.ErrNotConfigured)
	})

	t.Run("Malformed amount", func(t *testing.T) {
		f := newDepositFixture(t)

		_, err := f.svc.Create(ctx, CreateRequest{
			UserID: f.owner.ID, Chain: "TRC20", AmountUSDT: "12.345",
		})
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})
}

func TestDepositApprove(t *testing.T) {
	ctx := context.Background()

	create := func(t *testing.T, f *depositFixture) *entity.DepositRequest {
		t.Helper()
		deposit, err := f.svc.Create(ctx, CreateRequest{
			UserID: f.owner.ID, Chain: "TRC20", AmountUSDT: "200.00",
		})
		require.NoError(t, err)
		return deposit
	}

	t.Run("Credits JOY from the expected amount", func(t *testing.T) {
		f := newDepositFixture(t)
		deposit := create(t, f)

		approved, err := f.svc.Approve(ctx, DecideRequest{
			DepositID: deposit.ID, AdminID: 9,
		})

		require.NoError(t, err)
		assert.Equal(t, entity.DepositApproved, approved.Status)
		assert.Equal(t, int64(1000), approved.CreditedJoy)
		assert.Equal(t, 1, f.uow.Commits)

		owner, err := f.users.GetByID(ctx, f.owner.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), owner.TotalJoy)

		assert.Eventually(t, func() bool {
			return len(f.notifier.Approved()) == 1
		}, time.Second, 10*time.Millisecond)
		assert.Equal(t, int64(1000), f.notifier.Approved()[0].JoyAmount)
	})

	t.Run("Recomputes JOY from the actual amount", func(t *testing.T) {
		f := newDepositFixture(t)
		deposit := create(t, f)

		actual := "150.00"
		approved, err := f.svc.Approve(ctx, DecideRequest{
			DepositID: deposit.ID, AdminID: 9, ActualAmount: &actual,
		})

		require.NoError(t, err)
		require.NotNil(t, approved.ActualAmount)
		assert.Equal(t, int64(15000), *approved.ActualAmount)
		assert.Equal(t, int64(750), approved.CreditedJoy)

		owner, err := f.users.GetByID(ctx, f.owner.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(750), owner.TotalJoy)
	})

	t.Run("Second decision loses and credits nothing more", func(t *testing.T) {
		f := newDepositFixture(t)
		deposit := create(t, f)

		_, err := f.svc.Approve(ctx, DecideRequest{DepositID: deposit.ID, AdminID: 9})
		require.NoError(t, err)

		_, err = f.svc.Approve(ctx, DecideRequest{DepositID: deposit.ID, AdminID: 10})
		assert.ErrorIs(t, err, errs.ErrInvalidState)

		_, err = f.svc.Reject(ctx, DecideRequest{DepositID: deposit.ID, AdminID: 10})
		assert.ErrorIs(t, err, errs.ErrInvalidState)

		owner, err := f.users.GetByID(ctx, f.owner.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), owner.TotalJoy)
	})

	t.Run("Unknown deposit", func(t *testing.T) {
		f := newDepositFixture(t)

		_, err := f.svc.Approve(ctx, DecideRequest{DepositID: 404, AdminID: 9})
		assert.ErrorIs(t, err, errs.ErrDepositNotFound)
	})
}

func TestDepositReject(t *testing.T) {
	ctx := context.Background()
	f := newDepositFixture(t)

	deposit, err := f.svc.Create(ctx, CreateRequest{
		UserID: f.owner.ID, Chain: "TRC20", AmountUSDT: "200.00",
	})
	require.NoError(t, err)

	rejected, err := f.svc.Reject(ctx, DecideRequest{
		DepositID: deposit.ID, AdminID: 9, AdminNotes: "no transfer found",
	})

	require.NoError(t, err)
	assert.Equal(t, entity.DepositRejected, rejected.Status)
	assert.Zero(t, rejected.CreditedJoy)

	owner, err := f.users.GetByID(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Zero(t, owner.TotalJoy)
}

func TestDepositGet(t *testing.T) {
	ctx := context.Background()
	f := newDepositFixture(t)

	deposit, err := f.svc.Create(ctx, CreateRequest{
		UserID: f.owner.ID, Chain: "TRC20", AmountUSDT: "10.00",
	})
	require.NoError(t, err)

	t.Run("Owner sees it", func(t *testing.T) {
		found, err := f.svc.Get(ctx, deposit.ID, f.owner.ID, false)
		require.NoError(t, err)
		assert.Equal(t, deposit.ID, found.ID)
	})

	t.Run("Stranger gets not found", func(t *testing.T) {
		_, err := f.svc.Get(ctx, deposit.ID, 999, false)
		assert.ErrorIs(t, err, errs.ErrDepositNotFound)
	})

	t.Run("Staff sees everything", func(t *testing.T) {
		found, err := f.svc.Get(ctx, deposit.ID, 999, true)
		require.NoError(t, err)
		assert.Equal(t, deposit.ID, found.ID)
	})
}

func TestDepositNotifications(t *testing.T) {
	ctx := context.Background()
	f := newDepositFixture(t)

	_, err := f.svc.Create(ctx, CreateRequest{
		UserID: f.owner.ID, Chain: "TRC20", AmountUSDT: "10.00",
	})
	require.NoError(t, err)

	decided, err := f.svc.Create(ctx, CreateRequest{
		UserID: f.owner.ID, Chain: "TRC20", AmountUSDT: "200.00",
	})
	require.NoError(t, err)

	actual := "150.00"
	_, err = f.svc.Approve(ctx, DecideRequest{
		DepositID: decided.ID, AdminID: 9, ActualAmount: &actual,
	})
	require.NoError(t, err)

	notifications, err := f.svc.Notifications(ctx, f.owner.ID)
	require.NoError(t, err)

	// only decided requests produce events
	require.Len(t, notifications, 1)
	assert.Equal(t, decided.ID, notifications[0].DepositID)
	assert.Equal(t, entity.DepositApproved, notifications[0].Status)
	assert.Equal(t, int64(15000), notifications[0].AmountUSDT)
	assert.Equal(t, int64(750), notifications[0].JoyAmount)
	assert.NotEmpty(t, notifications[0].DecidedAt)
}
