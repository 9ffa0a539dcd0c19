package persistence

import (
	"context"

	"github.com/joycoin-platform/joycoin-backend/internal/domain/entity"
)

// UserRepository defines methods to interact with user data
type UserRepository interface {
	// GetByID retrieves a user by ID
	//
	// Possible errors:
	// - ErrUserNotFound: if no user with the ID exists
	// - ErrDatabaseConnection: if the database is unreachable
	GetByID(ctx context.Context, id uint64) (*entity.User, error)

	// GetByEmail retrieves a user by email (emails are stored lowercased)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// GetByReferralCode resolves a referral code to its owner
	GetByReferralCode(ctx context.Context, code string) (*entity.User, error)

	// Create persists a new user
	//
	// Possible errors:
	// - ErrDuplicateEmail: if the email is already registered
	// - ErrConflict: if a generated referral/recovery code collides
	Create(ctx context.Context, user *entity.User) error

	// Update persists mutated user fields (role, ban flag, password hash, ...)
	Update(ctx context.Context, user *entity.User) error

	// CreditJoy atomically increments total_joy and returns the updated user.
	// The increment must never be applied twice for the same approval; callers
	// run it inside the same transaction that flips the deposit status.
	CreditJoy(ctx context.Context, userID uint64, joy int64) (*entity.User, error)

	// ApplyPoints atomically adjusts total_points by a signed amount and
	// returns the updated user. Fails with ErrInsufficientPoints when the
	// result would be negative.
	ApplyPoints(ctx context.Context, userID uint64, amount int64) (*entity.User, error)

	// Search returns users matching a substring on email/username and an
	// optional role filter, newest first, capped at limit
	Search(ctx context.Context, query string, role string, limit int) ([]*entity.User, error)

	// Count returns the total number of users
	Count(ctx context.Context) (int64, error)
}
