// Package testutil provides in-memory fakes of the persistence and
// notification ports for use-case tests.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/joycoin-platform/joycoin-backend/internal/domain/entity"
	errs "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	"github.com/joycoin-platform/joycoin-backend/internal/domain/port/notify"
	"github.com/joycoin-platform/joycoin-backend/internal/domain/port/persistence"
)

// FixedClock pins Now to a settable instant
type FixedClock struct {
	Time time.Time
}

// NewFixedClock starts a clock at a deterministic reference instant
func NewFixedClock() *FixedClock {
	return &FixedClock{Time: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *FixedClock) Now() time.Time {
	return c.Time
}

func (c *FixedClock) Since(t time.Time) time.Duration {
	return c.Time.Sub(t)
}

func (c *FixedClock) WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

// Advance moves the clock forward
func (c *FixedClock) Advance(d time.Duration) {
	c.Time = c.Time.Add(d)
}

// UserRepo is an in-memory persistence.UserRepository
type UserRepo struct {
	mu     sync.Mutex
	nextID uint64
	users  map[uint64]*entity.User

	// CreateConflicts forces the next N Create calls to fail with ErrConflict,
	// simulating generated-code collisions
	CreateConflicts int
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[uint64]*entity.User)}
}

// Seed stores a user directly, assigning an ID when missing
func (r *UserRepo) Seed(user *entity.User) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == 0 {
		r.nextID++
		user.ID = r.nextID
	} else if user.ID > r.nextID {
		r.nextID = user.ID
	}
	r.users[user.ID] = user
	return user
}

func (r *UserRepo) GetByID(_ context.Context, id uint64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, errs.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, errs.ErrUserNotFound
}

func (r *UserRepo) GetByReferralCode(_ context.Context, code string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.ReferralCode == code {
			copied := *user
			return &copied, nil
		}
	}
	return nil, errs.ErrUserNotFound
}

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CreateConflicts > 0 {
		r.CreateConflicts--
		return errs.ErrConflict
	}
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return errs.ErrDuplicateEmail
		}
		if existing.ReferralCode == user.ReferralCode {
			return errs.ErrConflict
		}
	}
	r.nextID++
	user.ID = r.nextID
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *UserRepo) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return errs.ErrUserNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *UserRepo) CreditJoy(_ context.Context, userID uint64, joy int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if joy < 0 {
		return nil, errs.ErrNegativeAmount
	}
	user, ok := r.users[userID]
	if !ok {
		return nil, errs.ErrUserNotFound
	}
	user.TotalJoy += joy
	copied := *user
	return &copied, nil
}

func (r *UserRepo) ApplyPoints(_ context.Context, userID uint64, amount int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return nil, errs.ErrUserNotFound
	}
	if user.TotalPoints+amount < 0 {
		return nil, errs.NewInsufficientPointsError(userID, -amount, user.TotalPoints)
	}
	user.TotalPoints += amount
	copied := *user
	return &copied, nil
}

func (r *UserRepo) Search(_ context.Context, query, role string, limit int) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*entity.User
	for _, user := range r.users {
		if query != "" &&
			!strings.Contains(strings.ToLower(user.Email), strings.ToLower(query)) &&
			!strings.Contains(strings.ToLower(user.Username), strings.ToLower(query)) {
			continue
		}
		if role != "" && string(user.Role) != role {
			continue
		}
		copied := *user
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *UserRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

// DepositRepo is an in-memory persistence.DepositRepository
type DepositRepo struct {
	mu       sync.Mutex
	nextID   uint64
	deposits map[uint64]*entity.DepositRequest
}

func NewDepositRepo() *DepositRepo {
	return &DepositRepo{deposits: make(map[uint64]*entity.DepositRequest)}
}

// Seed stores a deposit directly, assigning an ID when missing
func (r *DepositRepo) Seed(deposit *entity.DepositRequest) *entity.DepositRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	if deposit.ID == 0 {
		r.nextID++
		deposit.ID = r.nextID
	} else if deposit.ID > r.nextID {
		r.nextID = deposit.ID
	}
	r.deposits[deposit.ID] = deposit
	return deposit
}

func (r *DepositRepo) Create(_ context.Context, deposit *entity.DepositRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	deposit.ID = r.nextID
	copied := *deposit
	r.deposits[deposit.ID] = &copied
	return nil
}

func (r *DepositRepo) GetByID(_ context.Context, id uint64) (*entity.DepositRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	deposit, ok := r.deposits[id]
	if !ok {
		return nil, errs.ErrDepositNotFound
	}
	copied := *deposit
	return &copied, nil
}

func (r *DepositRepo) ListByUser(_ context.Context, userID uint64) ([]*entity.DepositRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*entity.DepositRequest
	for _, deposit := range r.deposits {
		if deposit.UserID == userID {
			copied := *deposit
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	return matched, nil
}

func (r *DepositRepo) List(_ context.Context, filter persistence.DepositFilter) ([]*entity.DepositRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*entity.DepositRequest
	for _, deposit := range r.deposits {
		if filter.Status != "" && string(deposit.Status) != filter.Status {
			continue
		}
		copied := *deposit
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (r *DepositRepo) Decide(_ context.Context, deposit *entity.DepositRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.deposits[deposit.ID]
	if !ok {
		return errs.ErrDepositNotFound
	}
	if stored.Status != entity.DepositPending {
		return errs.NewDepositStateError(deposit.ID, string(stored.Status), string(deposit.Status))
	}
	copied := *deposit
	r.deposits[deposit.ID] = &copied
	return nil
}

func (r *DepositRepo) Stats(_ context.Context) (*persistence.DepositStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &persistence.DepositStats{}
	for _, deposit := range r.deposits {
		switch deposit.Status {
		case entity.DepositPending:
			stats.PendingCount++
		case entity.DepositApproved:
			stats.ApprovedCount++
			if deposit.ActualAmount != nil {
				stats.TotalApprovedUSDT += *deposit.ActualAmount
			} else {
				stats.TotalApprovedUSDT += deposit.ExpectedAmount
			}
		case entity.DepositRejected:
			stats.RejectedCount++
		}
	}
	return stats, nil
}

// PointRepo is an in-memory persistence.PointRepository
type PointRepo struct {
	mu      sync.Mutex
	nextID  uint64
	entries []*entity.Point
}

func NewPointRepo() *PointRepo {
	return &PointRepo{}
}

func (r *PointRepo) Append(_ context.Context, point *entity.Point) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	point.ID = r.nextID
	copied := *point
	r.entries = append(r.entries, &copied)
	return nil
}

func (r *PointRepo) ListByUser(_ context.Context, userID uint64) ([]*entity.Point, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*entity.Point
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].UserID == userID {
			copied := *r.entries[i]
			matched = append(matched, &copied)
		}
	}
	return matched, nil
}

func (r *PointRepo) SumByUser(_ context.Context, userID uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum int64
	for _, point := range r.entries {
		if point.UserID == userID {
			sum += point.Amount
		}
	}
	return sum, nil
}

// ReferralRepo is an in-memory persistence.ReferralRepository
type ReferralRepo struct {
	mu        sync.Mutex
	nextID    uint64
	referrals []*entity.Referral
}

func NewReferralRepo() *ReferralRepo {
	return &ReferralRepo{}
}

func (r *ReferralRepo) Create(_ context.Context, referral *entity.Referral) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.referrals {
		if existing.ReferredID == referral.ReferredID {
			return errs.ErrConflict
		}
	}
	r.nextID++
	referral.ID = r.nextID
	copied := *referral
	r.referrals = append(r.referrals, &copied)
	return nil
}

func (r *ReferralRepo) ListByReferrer(_ context.Context, referrerID uint64) ([]*entity.Referral, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*entity.Referral
	for i := len(r.referrals) - 1; i >= 0; i-- {
		if r.referrals[i].ReferrerID == referrerID {
			copied := *r.referrals[i]
			matched = append(matched, &copied)
		}
	}
	return matched, nil
}

// WithdrawalRepo is an in-memory persistence.WithdrawalRepository
type WithdrawalRepo struct {
	mu          sync.Mutex
	nextID      uint64
	withdrawals map[uint64]*entity.PointWithdrawal
}

func NewWithdrawalRepo() *WithdrawalRepo {
	return &WithdrawalRepo{withdrawals: make(map[uint64]*entity.PointWithdrawal)}
}

func (r *WithdrawalRepo) Create(_ context.Context, withdrawal *entity.PointWithdrawal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	withdrawal.ID = r.nextID
	copied := *withdrawal
	r.withdrawals[withdrawal.ID] = &copied
	return nil
}

func (r *WithdrawalRepo) GetByID(_ context.Context, id uint64) (*entity.PointWithdrawal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	withdrawal, ok := r.withdrawals[id]
	if !ok {
		return nil, errs.ErrWithdrawalNotFound
	}
	copied := *withdrawal
	return &copied, nil
}

func (r *WithdrawalRepo) ListByUser(_ context.Context, userID uint64) ([]*entity.PointWithdrawal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*entity.PointWithdrawal
	for _, withdrawal := range r.withdrawals {
		if withdrawal.UserID == userID {
			copied := *withdrawal
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	return matched, nil
}

func (r *WithdrawalRepo) ListByStatus(_ context.Context, status string, limit int) ([]*entity.PointWithdrawal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*entity.PointWithdrawal
	for _, withdrawal := range r.withdrawals {
		if status != "" && string(withdrawal.Status) != status {
			continue
		}
		copied := *withdrawal
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *WithdrawalRepo) Decide(_ context.Context, withdrawal *entity.PointWithdrawal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.withdrawals[withdrawal.ID]
	if !ok {
		return errs.ErrWithdrawalNotFound
	}
	if stored.Status != entity.WithdrawalPending {
		return errs.ErrInvalidState
	}
	copied := *withdrawal
	r.withdrawals[withdrawal.ID] = &copied
	return nil
}

// ProductRepo is an in-memory persistence.ProductRepository
type ProductRepo struct {
	mu       sync.Mutex
	nextID   uint64
	products map[uint64]*entity.Product
}

func NewProductRepo() *ProductRepo {
	return &ProductRepo{products: make(map[uint64]*entity.Product)}
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	product.ID = r.nextID
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[product.ID]; !ok {
		return errs.ErrProductNotFound
	}
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id uint64) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, errs.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (r *ProductRepo) ListActive(_ context.Context) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*entity.Product
	for _, product := range r.products {
		if product.IsActive {
			copied := *product
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].SortOrder != matched[j].SortOrder {
			return matched[i].SortOrder < matched[j].SortOrder
		}
		return matched[i].ID < matched[j].ID
	})
	return matched, nil
}

func (r *ProductRepo) ListAll(_ context.Context) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*entity.Product
	for _, product := range r.products {
		copied := *product
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

// RateRepo is an in-memory persistence.ExchangeRateRepository
type RateRepo struct {
	mu     sync.Mutex
	nextID uint64
	rates  []*entity.ExchangeRate
}

func NewRateRepo() *RateRepo {
	return &RateRepo{}
}

func (r *RateRepo) GetActive(_ context.Context) (*entity.ExchangeRate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.rates) - 1; i >= 0; i-- {
		if r.rates[i].IsActive {
			copied := *r.rates[i]
			return &copied, nil
		}
	}
	return nil, errs.ErrNotConfigured
}

func (r *RateRepo) Insert(_ context.Context, rate *entity.ExchangeRate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rates {
		existing.IsActive = false
	}
	r.nextID++
	rate.ID = r.nextID
	copied := *rate
	r.rates = append(r.rates, &copied)
	return nil
}

// UnitOfWork is a pass-through persistence.UnitOfWork over the fakes. It does
// not implement real rollback; tests assert on the Commits and Rollbacks
// counters instead.
type UnitOfWork struct {
	UserRepo       *UserRepo
	DepositRepo    *DepositRepo
	PointRepo      *PointRepo
	ReferralRepo   *ReferralRepo
	WithdrawalRepo *WithdrawalRepo

	BeginErr  error
	Begins    int
	Commits   int
	Rollbacks int
}

func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if u.BeginErr != nil {
		return nil, u.BeginErr
	}
	u.Begins++
	return ctx, nil
}

func (u *UnitOfWork) Commit(context.Context) error {
	u.Commits++
	return nil
}

func (u *UnitOfWork) Rollback(context.Context) error {
	u.Rollbacks++
	return nil
}

func (u *UnitOfWork) Users(context.Context) persistence.UserRepository {
	return u.UserRepo
}

func (u *UnitOfWork) Deposits(context.Context) persistence.DepositRepository {
	return u.DepositRepo
}

func (u *UnitOfWork) Points(context.Context) persistence.PointRepository {
	return u.PointRepo
}

func (u *UnitOfWork) Referrals(context.Context) persistence.ReferralRepository {
	return u.ReferralRepo
}

func (u *UnitOfWork) Withdrawals(context.Context) persistence.WithdrawalRepository {
	return u.WithdrawalRepo
}

// Notifier records operator alert events
type Notifier struct {
	mu        sync.Mutex
	requested []notify.DepositEvent
	approved  []notify.DepositEvent
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) NotifyDepositRequested(_ context.Context, event notify.DepositEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.requested = append(n.requested, event)
	return nil
}

func (n *Notifier) NotifyDepositApproved(_ context.Context, event notify.DepositEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.approved = append(n.approved, event)
	return nil
}

// Requested returns a snapshot of recorded request alerts
func (n *Notifier) Requested() []notify.DepositEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.DepositEvent(nil), n.requested...)
}

// Approved returns a snapshot of recorded approval alerts
func (n *Notifier) Approved() []notify.DepositEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.DepositEvent(nil), n.approved...)
}
