package error

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeValidation         = 4001
	CodeInvalidAmount      = 4002
	CodeInvalidChain       = 4003
	CodeAuth               = 4010
	CodeForbidden          = 4030
	CodeBanned             = 4031
	CodeNotFound           = 4040
	CodeUserNotFound       = 4041
	CodeDepositNotFound    = 4042
	CodeInvalidState       = 4090
	CodeConflict           = 4091
	CodeDuplicateEmail     = 4092
	CodeInsufficientPoints = 4093
	CodeRateLimited        = 4290

	// 5xxx - Server errors
	CodeInternalServer = 5000
	CodeNotConfigured  = 5030
)

// Base error types
var (
	// ErrValidation is returned when request input is malformed or missing
	ErrValidation = errors.New("validation failed")

	// ErrInvalidAmount is returned when a monetary amount format is invalid
	ErrInvalidAmount = errors.New("invalid amount format")

	// ErrNegativeAmount is returned when a monetary amount is negative
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrAmountOverflow is returned when an amount is too large to represent
	ErrAmountOverflow = errors.New("amount is too large and would cause overflow")

	// ErrInvalidChain is returned when the blockchain network is not a supported value
	ErrInvalidChain = errors.New("unsupported blockchain network")

	// ErrAuth is returned on bad credentials or a missing/invalid session token.
	// The message is deliberately uniform so callers cannot probe which emails exist.
	ErrAuth = errors.New("invalid email or password")

	// ErrForbidden is returned when the caller's role is insufficient
	ErrForbidden = errors.New("insufficient privileges")

	// ErrBanned is returned when a banned account attempts a privileged call
	ErrBanned = errors.New("account is banned")

	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrUserNotFound is returned when the requested user doesn't exist
	ErrUserNotFound = errors.New("user not found")

	// ErrDepositNotFound is returned when the requested deposit request doesn't exist
	ErrDepositNotFound = errors.New("deposit request not found")

	// ErrProductNotFound is returned when the requested product doesn't exist
	ErrProductNotFound = errors.New("product not found")

	// ErrWithdrawalNotFound is returned when the requested withdrawal doesn't exist
	ErrWithdrawalNotFound = errors.New("withdrawal request not found")

	// ErrInvalidState is returned on an illegal state transition, such as
	// deciding a deposit request that is already approved or rejected
	ErrInvalidState = errors.New("illegal state transition")

	// ErrConflict is returned when a unique field collides
	ErrConflict = errors.New("conflicting resource")

	// ErrDuplicateEmail is returned when signing up with an email already in use
	ErrDuplicateEmail = errors.New("email already in use")

	// ErrInvalidReferralCode is returned when a signup referral code resolves to no user
	ErrInvalidReferralCode = errors.New("referral code does not exist")

	// ErrInsufficientPoints is returned when a withdrawal exceeds the available balance
	ErrInsufficientPoints = errors.New("insufficient point balance")

	// ErrRateLimited is returned when a caller exceeds the per-user request quota
	ErrRateLimited = errors.New("too many requests")

	// ErrNotConfigured is returned when an operator setting required for the
	// operation (exchange rate, receiving address) is missing
	ErrNotConfigured = errors.New("operator configuration missing")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")

	// ErrDatabaseConnection is returned when the data store is unreachable
	ErrDatabaseConnection = errors.New("database connection error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrNegativeAmount), errors.Is(err, ErrAmountOverflow):
		return CodeInvalidAmount
	case errors.Is(err, ErrInvalidChain):
		return CodeInvalidChain
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidReferralCode):
		return CodeValidation
	case errors.Is(err, ErrAuth):
		return CodeAuth
	case errors.Is(err, ErrBanned):
		return CodeBanned
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrUserNotFound):
		return CodeUserNotFound
	case errors.Is(err, ErrDepositNotFound):
		return CodeDepositNotFound
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrProductNotFound), errors.Is(err, ErrWithdrawalNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalidState):
		return CodeInvalidState
	case errors.Is(err, ErrDuplicateEmail):
		return CodeDuplicateEmail
	case errors.Is(err, ErrInsufficientPoints):
		return CodeInsufficientPoints
	case errors.Is(err, ErrConflict):
		return CodeConflict
	case errors.Is(err, ErrRateLimited):
		return CodeRateLimited
	case errors.Is(err, ErrNotConfigured):
		return CodeNotConfigured
	default:
		return CodeInternalServer
	}
}

// HTTPStatus maps domain errors to HTTP status codes
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrNegativeAmount),
		errors.Is(err, ErrAmountOverflow),
		errors.Is(err, ErrInvalidChain),
		errors.Is(err, ErrInvalidReferralCode),
		errors.Is(err, ErrInsufficientPoints):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrBanned):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrDepositNotFound),
		errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrWithdrawalNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// DepositStateError carries the context of a rejected state transition
type DepositStateError struct {
	DepositID uint64
	Status    string
	Attempted string
}

// Error implements the error interface for DepositStateError
func (e *DepositStateError) Error() string {
	return fmt.Sprintf("deposit request %d is %s and cannot be %s", e.DepositID, e.Status, e.Attempted)
}

// Is checks if the target error is an ErrInvalidState
func (e *DepositStateError) Is(target error) bool {
	return target == ErrInvalidState
}

// LogFields returns a map of fields for structured logging
func (e *DepositStateError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "deposit_state_error",
		"deposit_id": e.DepositID,
		"status":     e.Status,
		"attempted":  e.Attempted,
		"error_code": CodeInvalidState,
	}
}

// NewDepositStateError creates a detailed invalid-transition error
func NewDepositStateError(depositID uint64, status, attempted string) error {
	return &DepositStateError{DepositID: depositID, Status: status, Attempted: attempted}
}

// ValidationError carries a field-level detail for form errors
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface for ValidationError
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// Is checks if the target error is an ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a field-level validation error
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientPointsError provides detail for failed withdrawal reservations
type InsufficientPointsError struct {
	UserID    uint64
	Requested int64
	Available int64
}

// Error implements the error interface
func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("insufficient points for user %d: requested %d, available %d",
		e.UserID, e.Requested, e.Available)
}

// Is checks if the target error is an ErrInsufficientPoints
func (e *InsufficientPointsError) Is(target error) bool {
	return target == ErrInsufficientPoints
}

// NewInsufficientPointsError creates a new detailed insufficient points error
func NewInsufficientPointsError(userID uint64, requested, available int64) error {
	return &InsufficientPointsError{UserID: userID, Requested: requested, Available: available}
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrDepositNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrWithdrawalNotFound)
}

// IsInvalidStateError checks if the error is an illegal state transition
func IsInvalidStateError(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

// IsNotConfiguredError checks if the error is an operator misconfiguration
func IsNotConfiguredError(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}
