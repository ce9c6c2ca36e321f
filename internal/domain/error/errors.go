package error

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidRequest        = 4000
	CodeInsufficientFunds     = 4001
	CodeInsufficientAllotment = 4002
	CodeAlreadyClaimed        = 4003
	CodeNotOwned              = 4004
	CodeInvalidTarget         = 4005
	CodeLimitExceeded         = 4006
	CodeAccountNotFound       = 4040
	CodeRateLimited           = 4290
	CodeBlocked               = 4291

	// 5xxx - Server errors
	CodeInternalServer     = 5000
	CodeStorageUnavailable = 5030
)

// Base error types
var (
	// ErrInsufficientFunds is returned when the balance cannot cover a debit
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientAllotment is returned when an account has no free boosters left
	ErrInsufficientAllotment = errors.New("insufficient booster allotment")

	// ErrAlreadyClaimed is returned when a one-time reward has been claimed before
	ErrAlreadyClaimed = errors.New("reward already claimed")

	// ErrNotOwned is returned when an account does not hold enough copies of a card,
	// or does not own the listing it is acting on
	ErrNotOwned = errors.New("card or listing not owned")

	// ErrInvalidTarget is returned when the object of an operation is missing, inactive or unusable
	ErrInvalidTarget = errors.New("invalid target")

	// ErrLimitExceeded is returned when an operation would break a configured cap
	ErrLimitExceeded = errors.New("limit exceeded")

	// ErrAccountNotFound is returned when the requested account doesn't exist
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrRateLimited is returned by the abuse gate when a rate or delay limit is hit
	ErrRateLimited = errors.New("rate limited")

	// ErrBlocked is returned by the abuse gate while an account is temporarily blocked
	ErrBlocked = errors.New("account temporarily blocked")

	// ErrCatalogEmpty is returned when the card catalog has no active cards
	ErrCatalogEmpty = errors.New("card catalog has no active cards")

	// ErrTransactionConflict is returned when a serializable transaction lost a race and may be retried
	ErrTransactionConflict = errors.New("transaction conflict")

	// ErrStorageUnavailable is returned for storage failures the caller may retry later
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// Target-specific rejections. All of them match ErrInvalidTarget with errors.Is.
var (
	ErrCardNotFound          = fmt.Errorf("%w: card not found", ErrInvalidTarget)
	ErrBoosterNotFound       = fmt.Errorf("%w: booster not found", ErrInvalidTarget)
	ErrBoosterInactive       = fmt.Errorf("%w: booster is not available", ErrInvalidTarget)
	ErrListingNotFound       = fmt.Errorf("%w: listing not found", ErrInvalidTarget)
	ErrListingUnavailable    = fmt.Errorf("%w: listing is not active", ErrInvalidTarget)
	ErrSelfPurchase          = fmt.Errorf("%w: cannot buy own listing", ErrInvalidTarget)
	ErrInvalidPrice          = fmt.Errorf("%w: price out of range", ErrInvalidTarget)
	ErrInvalidQuantity       = fmt.Errorf("%w: quantity must be positive", ErrInvalidTarget)
	ErrAchievementNotFound   = fmt.Errorf("%w: achievement not found", ErrInvalidTarget)
	ErrAchievementIncomplete = fmt.Errorf("%w: achievement not completed", ErrInvalidTarget)
	ErrNotificationNotFound  = fmt.Errorf("%w: notification not found", ErrInvalidTarget)
	ErrNoReward              = fmt.Errorf("%w: nothing to claim", ErrInvalidTarget)
	ErrDailyCooldown         = fmt.Errorf("%w: daily reward on cooldown", ErrAlreadyClaimed)
	ErrAccountExists         = fmt.Errorf("%w: account already exists", ErrInvalidRequest)
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInsufficientFunds):
		return CodeInsufficientFunds
	case errors.Is(err, ErrInsufficientAllotment):
		return CodeInsufficientAllotment
	case errors.Is(err, ErrAlreadyClaimed):
		return CodeAlreadyClaimed
	case errors.Is(err, ErrNotOwned):
		return CodeNotOwned
	case errors.Is(err, ErrInvalidTarget):
		return CodeInvalidTarget
	case errors.Is(err, ErrLimitExceeded):
		return CodeLimitExceeded
	case errors.Is(err, ErrAccountNotFound):
		return CodeAccountNotFound
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	case errors.Is(err, ErrRateLimited):
		return CodeRateLimited
	case errors.Is(err, ErrBlocked):
		return CodeBlocked
	case errors.Is(err, ErrTransactionConflict), errors.Is(err, ErrStorageUnavailable):
		return CodeStorageUnavailable
	default:
		return CodeInternalServer
	}
}

// HTTPStatus maps an error onto the status code the HTTP adapter answers with
func HTTPStatus(err error) int {
	switch code := ErrorCode(err); {
	case code == CodeInsufficientFunds:
		return http.StatusPaymentRequired
	case code == CodeInsufficientAllotment, code == CodeAlreadyClaimed:
		return http.StatusConflict
	case code == CodeNotOwned:
		return http.StatusForbidden
	case code == CodeAccountNotFound, IsNotFoundError(err):
		return http.StatusNotFound
	case code == CodeInvalidTarget, code == CodeLimitExceeded:
		return http.StatusUnprocessableEntity
	case code == CodeInvalidRequest:
		return http.StatusBadRequest
	case code == CodeRateLimited, code == CodeBlocked:
		return http.StatusTooManyRequests
	case code == CodeStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// IsDomainRejection reports whether err is an expected business rejection
// (logged at warn, never at error)
func IsDomainRejection(err error) bool {
	code := ErrorCode(err)
	return code >= 4000 && code < 4290
}

// IsGateRejection reports whether err came from the abuse gate
func IsGateRejection(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrBlocked)
}

// IsRetryable reports whether the same request may succeed if sent again unchanged
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransactionConflict) || errors.Is(err, ErrStorageUnavailable)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrCardNotFound) ||
		errors.Is(err, ErrBoosterNotFound) ||
		errors.Is(err, ErrListingNotFound) ||
		errors.Is(err, ErrAchievementNotFound) ||
		errors.Is(err, ErrNotificationNotFound)
}

// EconomyError annotates a failed economy operation with the acting account
type EconomyError struct {
	Operation string
	AccountID uint64
	Err       error
}

// Error implements the error interface for EconomyError
func (e *EconomyError) Error() string {
	return fmt.Sprintf("%s failed for account %d: %v", e.Operation, e.AccountID, e.Err)
}

// Unwrap returns the underlying error
func (e *EconomyError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *EconomyError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "economy_error",
		"operation":  e.Operation,
		"account_id": e.AccountID,
		"error":      e.Err.Error(),
		"error_code": ErrorCode(e.Err),
	}
}

// NewEconomyError wraps err with the operation and account it failed for
func NewEconomyError(operation string, accountID uint64, err error) error {
	return &EconomyError{Operation: operation, AccountID: accountID, Err: err}
}

// InsufficientFundsError provides detailed error information for a rejected debit
type InsufficientFundsError struct {
	AccountID uint64
	Required  int64
	Available int64
}

// Error implements the error interface
func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for account %d: required %d, available %d",
		e.AccountID, e.Required, e.Available)
}

// Is checks if the target error is an ErrInsufficientFunds
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientFundsError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "insufficient_funds",
		"account_id": e.AccountID,
		"required":   e.Required,
		"available":  e.Available,
		"error_code": CodeInsufficientFunds,
	}
}

// NewInsufficientFundsError creates a new detailed insufficient funds error
func NewInsufficientFundsError(accountID uint64, required, available int64) error {
	return &InsufficientFundsError{AccountID: accountID, Required: required, Available: available}
}

// RateLimitedError is returned by the abuse gate. Err is ErrRateLimited or ErrBlocked.
type RateLimitedError struct {
	AccountID  uint64
	Action     string
	Reason     string
	Score      float64
	RetryAfter time.Duration
	Err        error
}

// Error implements the error interface
func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%v: account %d action %s (%s), retry after %s",
		e.Err, e.AccountID, e.Action, e.Reason, e.RetryAfter)
}

// Unwrap returns the underlying error
func (e *RateLimitedError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *RateLimitedError) LogFields() map[string]any {
	return map[string]any{
		"error_type":  "gate_rejection",
		"account_id":  e.AccountID,
		"action":      e.Action,
		"reason":      e.Reason,
		"score":       e.Score,
		"retry_after": e.RetryAfter.String(),
		"error_code":  ErrorCode(e.Err),
	}
}

// RetryAfterHint extracts the retry hint carried by a gate rejection
func RetryAfterHint(err error) (time.Duration, bool) {
	var rl *RateLimitedError
	if errors.As(err, &rl) {
		return rl.RetryAfter, true
	}
	return 0, false
}
