package entity

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	errs "github.com/joycoin-platform/joycoin-backend/internal/domain/error"
	coreport "github.com/joycoin-platform/joycoin-backend/internal/domain/port/core"
)

// Role represents a user's privilege level
type Role string

// Roles
const (
	RoleUser          Role = "user"
	RoleSectorManager Role = "sector_manager"
	RoleAdmin         Role = "admin"
)

// MinPasswordLength is the enforced minimum for signup and password changes
const MinPasswordLength = 8

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// User represents a platform account. total_joy only ever increases, and only
// through deposit approval; TotalPoints mirrors the sum of the point ledger.
type User struct {
	ID            uint64
	Email         string
	PasswordHash  string
	Username      string
	Role          Role
	WalletAddress string
	ReferralCode  string
	ReferredBy    *uint64
	RecoveryCode  string
	SectorID      *uint64
	TotalJoy      int64
	TotalPoints   int64
	IsBanned      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewUser creates a user with generated referral and recovery codes.
// The password must already be hashed by the caller.
func NewUser(email, passwordHash, username string, timeProvider coreport.TimeProvider) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errs.NewValidationError("email", "must be a valid email address")
	}
	if passwordHash == "" {
		return nil, errs.NewValidationError("password", "password hash is required")
	}
	if strings.TrimSpace(username) == "" {
		return nil, errs.NewValidationError("username", "username is required")
	}

	now := timeProvider.Now()
	return &User{
		Email:        email,
		PasswordHash: passwordHash,
		Username:     strings.TrimSpace(username),
		Role:         RoleUser,
		ReferralCode: GenerateReferralCode(),
		RecoveryCode: GenerateRecoveryCode(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// GenerateReferralCode produces a code of the form JOY + 5 uppercase
// alphanumerics, e.g. JOY7K2M9.
func GenerateReferralCode() string {
	return "JOY" + randomCode(5)
}

// GenerateRecoveryCode produces a code of the form RCV + 8 uppercase
// alphanumerics, used for account recovery.
func GenerateRecoveryCode() string {
	return "RCV" + randomCode(8)
}

func randomCode(n int) string {
	var sb strings.Builder
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken
			panic("random code generation failed: " + err.Error())
		}
		sb.WriteByte(codeAlphabet[idx.Int64()])
	}
	return sb.String()
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// SetReferrer links the user to the account that referred them.
// The link is set once at signup and never changes afterwards.
func (u *User) SetReferrer(referrerID uint64) error {
	if u.ReferredBy != nil {
		return errs.ErrConflict
	}
	if referrerID == u.ID && u.ID != 0 {
		return errs.NewValidationError("referral_code", "cannot refer yourself")
	}
	u.ReferredBy = &referrerID
	return nil
}

// CreditJoy adds an approved deposit's allocation to the running JOY balance
func (u *User) CreditJoy(joy int64, timeProvider coreport.TimeProvider) error {
	if joy < 0 {
		return errs.ErrNegativeAmount
	}
	u.TotalJoy += joy
	u.UpdatedAt = timeProvider.Now()
	return nil
}

// ApplyPoints adjusts the cached point balance by a signed ledger amount
func (u *User) ApplyPoints(amount int64, timeProvider coreport.TimeProvider) error {
	if u.TotalPoints+amount < 0 {
		return errs.NewInsufficientPointsError(u.ID, -amount, u.TotalPoints)
	}
	u.TotalPoints += amount
	u.UpdatedAt = timeProvider.Now()
	return nil
}

// Ban marks the account banned; banned users fail login and privileged calls
func (u *User) Ban(timeProvider coreport.TimeProvider) error {
	if u.Role == RoleAdmin {
		return errs.NewValidationError("role", "administrators cannot be banned")
	}
	u.IsBanned = true
	u.UpdatedAt = timeProvider.Now()
	return nil
}

// Unban lifts a ban
func (u *User) Unban(timeProvider coreport.TimeProvider) {
	u.IsBanned = false
	u.UpdatedAt = timeProvider.Now()
}
