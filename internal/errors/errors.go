// Package errors provides custom error types for the Coinvault API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrAccountLocked      = &AppError{Code: "ACCOUNT_LOCKED", Message: "Account is temporarily locked", StatusCode: http.StatusLocked}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Tier and accrual errors.
var (
	ErrUnknownTier         = &AppError{Code: "UNKNOWN_TIER", Message: "Unknown investment tier", StatusCode: http.StatusBadRequest}
	ErrInvalidAccrualInput = &AppError{Code: "INVALID_ACCRUAL_INPUT", Message: "Principal, rate, and elapsed days must not be negative", StatusCode: http.StatusBadRequest}
)

// Balance errors.
var (
	ErrBalanceNotFound     = &AppError{Code: "BALANCE_NOT_FOUND", Message: "Balance not found", StatusCode: http.StatusNotFound}
	ErrInvalidAsset        = &AppError{Code: "INVALID_ASSET", Message: "Unsupported asset", StatusCode: http.StatusBadRequest}
	ErrInsufficientBalance = &AppError{Code: "INSUFFICIENT_BALANCE", Message: "Insufficient balance", StatusCode: http.StatusBadRequest}
)

// Investment errors.
var (
	ErrInvestmentNotFound     = &AppError{Code: "INVESTMENT_NOT_FOUND", Message: "Investment not found", StatusCode: http.StatusNotFound}
	ErrBelowMinimum           = &AppError{Code: "BELOW_MINIMUM", Message: "Amount is below the tier minimum", StatusCode: http.StatusBadRequest}
	ErrInvalidStateTransition = &AppError{Code: "INVALID_STATE_TRANSITION", Message: "Record is not in a state that allows this transition", StatusCode: http.StatusConflict}
)

// KYC errors.
var (
	ErrKYCRequestNotFound = &AppError{Code: "KYC_REQUEST_NOT_FOUND", Message: "KYC request not found", StatusCode: http.StatusNotFound}
	ErrKYCRequired        = &AppError{Code: "KYC_REQUIRED", Message: "A verified KYC record is required for this operation", StatusCode: http.StatusForbidden}
	ErrKYCPendingExists   = &AppError{Code: "KYC_PENDING_EXISTS", Message: "An open KYC request already exists for this user", StatusCode: http.StatusConflict}
)

// Deposit & withdrawal errors.
var (
	ErrDepositNotFound    = &AppError{Code: "DEPOSIT_NOT_FOUND", Message: "Deposit request not found", StatusCode: http.StatusNotFound}
	ErrWithdrawalNotFound = &AppError{Code: "WITHDRAWAL_NOT_FOUND", Message: "Withdrawal request not found", StatusCode: http.StatusNotFound}
)
