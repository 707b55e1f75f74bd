package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string         `json:"error_code"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	HTTPStatus int            `json:"-"`
	Err        error          `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail attaches a client-visible detail and returns the same error.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// Code returns the code of the first AppError in err's chain, or "".
func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code string) bool {
	return Code(err) == code
}

// Stable ledger codes.
const (
	CodeInvalidAmount          = "LED_001"
	CodeCurrencyMismatch       = "LED_002"
	CodeInsufficientFunds      = "LED_003"
	CodeUnauthorized           = "LED_004"
	CodePricingPolicyViolation = "LED_005"
	CodeLockTimeout            = "LED_006"
	CodeDuplicateReference     = "LED_007"
	CodeIntegrityViolation     = "LED_008"
	CodeLimitExceeded          = "LED_009"
	CodeAccountInactive        = "LED_010"
	CodeUnsupportedCurrency    = "LED_011"
	CodeNotFound               = "LED_012"
	CodeConflict               = "LED_013"
	CodeInvalidToken           = "AUTH_001"
	CodeRateLimited            = "RATE_001"
	CodeValidation             = "REQ_001"
	CodeInternal               = "SYS_001"
)

// ---- Ledger (LED) ----

func ErrInvalidAmount(message string) *AppError {
	return New(CodeInvalidAmount, message, http.StatusBadRequest)
}

func ErrCurrencyMismatch() *AppError {
	return New(CodeCurrencyMismatch, "Currency does not match wallet currency", http.StatusUnprocessableEntity)
}

func ErrInsufficientFunds(available, requested string) *AppError {
	return New(CodeInsufficientFunds, "Insufficient available balance", http.StatusPaymentRequired).
		WithDetail("available", available).
		WithDetail("requested", requested)
}

func ErrUnauthorized(message string) *AppError {
	return New(CodeUnauthorized, message, http.StatusForbidden)
}

func ErrPricingPolicyViolation(message string) *AppError {
	return New(CodePricingPolicyViolation, message, http.StatusUnprocessableEntity)
}

func ErrLockTimeout(err error) *AppError {
	return Wrap(CodeLockTimeout, "Lock acquisition timeout", http.StatusServiceUnavailable, err)
}

func ErrDuplicateReference(reference string) *AppError {
	return New(CodeDuplicateReference, "Reference already used for a different operation", http.StatusConflict).
		WithDetail("reference", reference)
}

func ErrIntegrityViolation(message string) *AppError {
	return New(CodeIntegrityViolation, message, http.StatusLocked)
}

func ErrLimitExceeded(message string) *AppError {
	return New(CodeLimitExceeded, message, http.StatusUnprocessableEntity)
}

func ErrAccountInactive() *AppError {
	return New(CodeAccountInactive, "Account is inactive", http.StatusForbidden)
}

func ErrUnsupportedCurrency(currency string) *AppError {
	return New(CodeUnsupportedCurrency, fmt.Sprintf("Currency %s is not supported", currency), http.StatusUnprocessableEntity)
}

func ErrNotFound(entity string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrConflict(message string) *AppError {
	return New(CodeConflict, message, http.StatusConflict)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New(CodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New(CodeRateLimited, "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap(CodeInternal, "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New(CodeValidation, message, http.StatusBadRequest)
}

// From returns err unchanged when it already is an AppError and otherwise
// wraps it as an internal error with the given operation prefix.
func From(err error, op string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	return InternalError(fmt.Errorf("%s: %w", op, err))
}
