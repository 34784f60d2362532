// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
//
// Domain errors carry a machine-readable Code plus optional structured Details
// so clients can resolve failures programmatically instead of parsing prose.
package apierror

import (
	"errors"
	"net/http"
)

// Machine-readable error codes. Clients dispatch on these, never on Detail text.
const (
	CodeProductsNotFound          = "PRODUCTS_NOT_FOUND"
	CodeSaleNotDraft              = "SALE_NOT_DRAFT"
	CodeInsufficientStock         = "INSUFFICIENT_STOCK"
	CodeRNCRequired               = "RNC_REQUIRED"
	CodePaidAmountTooLow          = "PAID_AMOUNT_TOO_LOW"
	CodeSaleNotRefundable         = "SALE_NOT_REFUNDABLE"
	CodeInvalidRefundItem         = "INVALID_REFUND_ITEM"
	CodeRefundQtyExceedsRemaining = "REFUND_QTY_EXCEEDS_REMAINING"
	CodeNCFSequenceUnavailable    = "NCF_SEQUENCE_UNAVAILABLE"
	CodePurchaseNotReceivable     = "PURCHASE_NOT_RECEIVABLE"
	CodeStockWouldGoNegative      = "STOCK_WOULD_GO_NEGATIVE"
	CodeNotFound                  = "NOT_FOUND"
	CodeUnauthorized              = "UNAUTHORIZED"
	CodeForbidden                 = "FORBIDDEN"
	CodeValidation                = "VALIDATION_ERROR"
	CodeInternal                  = "INTERNAL"
)

// Error is the canonical error envelope for all 4xx/5xx HTTP responses.
// It implements the error interface so services can return it directly.
type Error struct {
	Status  int         `json:"-"`
	Code    string      `json:"code"`
	Detail  string      `json:"detail"`
	Details interface{} `json:"details,omitempty"`
}

func (e *Error) Error() string { return e.Code + ": " + e.Detail }

// New builds an error with an explicit HTTP status.
func New(status int, code, detail string) *Error {
	return &Error{Status: status, Code: code, Detail: detail}
}

// WithDetails attaches structured payload data (e.g. the list of short
// products) and returns the same error for chaining.
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

func BadRequest(code, detail string) *Error {
	return New(http.StatusBadRequest, code, detail)
}

func Conflict(code, detail string) *Error {
	return New(http.StatusConflict, code, detail)
}

func NotFound(detail string) *Error {
	return New(http.StatusNotFound, CodeNotFound, detail)
}

func Unauthorized(detail string) *Error {
	return New(http.StatusUnauthorized, CodeUnauthorized, detail)
}

func Forbidden(detail string) *Error {
	return New(http.StatusForbidden, CodeForbidden, detail)
}

// Internal is the generic 500 envelope. The original error is logged by the
// middleware chain, never echoed to the caller.
func Internal() *Error {
	return New(http.StatusInternalServerError, CodeInternal, "Internal server error")
}

// From extracts an *Error from any error chain, falling back to Internal().
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal()
}

// ValidationError wraps multiple field errors from request binding.
type ValidationError struct {
	Code   string            `json:"code"`
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Code: CodeValidation, Detail: "Validation failed", Fields: fields}
}
