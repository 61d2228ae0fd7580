package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped cause (not exposed to client)
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

// ---- Resources (RES) ----

func ErrNotFound(entity string) *AppError {
	return New("RES_001", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Wallets (WAL) ----

func ErrDuplicateName(err error) *AppError {
	return Wrap("WAL_001", "Wallet name already exists", http.StatusConflict, err)
}

// ---- Ledger business rules (LED) ----

func ErrInvalidTransaction(err error) *AppError {
	return Wrap("LED_001", "Invalid transaction", http.StatusBadRequest, err)
}

func ErrInsufficientBalance(err error) *AppError {
	return Wrap("LED_002", "Insufficient balance in wallet", http.StatusUnprocessableEntity, err)
}

func ErrIrreversibleTransaction(err error) *AppError {
	return Wrap("LED_003", "The transaction cannot be deleted", http.StatusUnprocessableEntity, err)
}

// ---- Requests (REQ) ----

// Validation returns a REQ_001 request validation error.
func Validation(message string) *AppError {
	return New("REQ_001", message, http.StatusBadRequest)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// ErrCommitFailed reports a store transaction that could not commit. Nothing
// was persisted, so the caller may retry the whole operation.
func ErrCommitFailed(err error) *AppError {
	return Wrap("SYS_002", "Ledger commit failed, retry the request", http.StatusServiceUnavailable, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
