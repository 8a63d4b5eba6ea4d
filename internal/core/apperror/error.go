// Package apperror provides structured error handling for the movement ledger.
// All business errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes, grouped by failure taxonomy.
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"
	CodeDatabase = "DATABASE_ERROR"

	// Request validation errors (400) - detected before any write
	CodeValidation              = "VALIDATION_ERROR"
	CodeMissingLines            = "MISSING_LINES"
	CodeInvalidClass            = "INVALID_CLASS"
	CodeInvalidCategory         = "INVALID_CATEGORY"
	CodeClassCategoryMismatch   = "CLASS_CATEGORY_MISMATCH"
	CodeUnregisteredType        = "UNREGISTERED_MOVEMENT_TYPE"
	CodeLineHeaderMismatch      = "LINE_HEADER_MISMATCH"
	CodeMissingSubDocument      = "MISSING_SUB_DOCUMENT"
	CodeMissingSubDocumentLines = "MISSING_SUB_DOCUMENT_LINES"
	CodeLineCountMismatch       = "LINE_COUNT_MISMATCH"
	CodeSubLineHeaderMismatch   = "SUB_LINE_HEADER_MISMATCH"
	CodeCatalogLookup           = "CATALOG_LOOKUP_FAILED"

	// Sequence allocation errors - nothing persisted yet
	CodeUnknownWarehouse   = "UNKNOWN_WAREHOUSE"
	CodeUnknownSalesPoint  = "UNKNOWN_SALES_POINT"
	CodeSequenceAllocation = "SEQUENCE_ALLOCATION_FAILED"

	// Write errors - prior writes in the same request remain committed
	CodeHeaderWrite     = "HEADER_WRITE_FAILED"
	CodeLineWrite       = "LINE_WRITE_FAILED"
	CodeOrderWrite      = "ORDER_WRITE_FAILED"
	CodeCreditNoteWrite = "CREDIT_NOTE_WRITE_FAILED"

	// Conflict (409)
	CodeDuplicateMovement = "DUPLICATE_MOVEMENT"
	CodeDuplicate         = "DUPLICATE_ENTRY"

	// Authorization errors (401, 403)
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"
)

// AppError is the standard error type for the service.
// It implements the error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (offending field, article, table)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error.
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions ---

// NewValidation creates a generic validation error (400).
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewConsistency creates a validation error with a specific taxonomy code.
// Used by the consistency validator; nothing is persisted when these fire.
func NewConsistency(code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewUnregisteredType is returned when a (class, type) pair is absent from the
// movement-type catalog. Rejected before any write: an unclassifiable movement
// corrupts downstream accounting reconciliation.
func NewUnregisteredType(class, typeCode string) *AppError {
	return &AppError{
		Code:       CodeUnregisteredType,
		Message:    fmt.Sprintf("movement type %q is not registered for class %q", typeCode, class),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"class": class, "type": typeCode},
	}
}

// NewCatalogLookup wraps a failed movement-type catalog query.
// Treated as a validation failure: the request is rejected, nothing persisted.
func NewCatalogLookup(err error) *AppError {
	return &AppError{
		Code:       CodeCatalogLookup,
		Message:    "unable to confirm movement type validity",
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
	}
}

// NewUnknownWarehouse is returned when a counter row is absent for a warehouse.
func NewUnknownWarehouse(warehouse string) *AppError {
	return &AppError{
		Code:       CodeUnknownWarehouse,
		Message:    fmt.Sprintf("warehouse %q has no counter record", warehouse),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"warehouse": warehouse},
	}
}

// NewUnknownSalesPoint is returned when a counter row is absent for a sales point.
func NewUnknownSalesPoint(salesPoint int) *AppError {
	return &AppError{
		Code:       CodeUnknownSalesPoint,
		Message:    fmt.Sprintf("sales point %d has no counter record", salesPoint),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"sales_point": salesPoint},
	}
}

// NewSequenceAllocation wraps an allocation failure. Nothing has been persisted
// for the request when this fires; the request is safe to retry.
func NewSequenceAllocation(err error) *AppError {
	return &AppError{
		Code:       CodeSequenceAllocation,
		Message:    "sequence allocation failed",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewWriteFailure creates a write error naming the failed table. Prior writes
// in the same request remain committed; there is no enclosing transaction.
func NewWriteFailure(code, table string, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    fmt.Sprintf("failed to write %s", table),
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"table": table},
		Err:        err,
	}
}

// NewDuplicateMovement is returned when a voucher is already registered for
// (year, period, warehouse).
func NewDuplicateMovement(year, period int, warehouse string, voucher int) *AppError {
	return &AppError{
		Code:       CodeDuplicateMovement,
		Message:    "movement already registered",
		HTTPStatus: http.StatusConflict,
		Details: map[string]any{
			"year":      year,
			"period":    period,
			"warehouse": warehouse,
			"voucher":   voucher,
		},
	}
}

// NewNotFound creates a not found error (404).
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewDuplicate creates a duplicate entry error (409).
func NewDuplicate(entity, field, value string) *AppError {
	return &AppError{
		Code:       CodeDuplicate,
		Message:    fmt.Sprintf("%s with this %s already exists", entity, field),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "field": field, "value": value},
	}
}

// NewInternal creates an internal server error (hides details from client).
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewUnauthorized creates an authentication error (401).
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewForbidden creates an authorization error (403).
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error.
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsNotFound checks if error carries CodeNotFound.
func IsNotFound(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeNotFound
	}
	return false
}

// HasCode checks if error carries a specific code.
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}
