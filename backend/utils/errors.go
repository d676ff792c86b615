package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type ErrorKind string

const (
	KindValidation      ErrorKind = "validation_failed"
	KindNotFound        ErrorKind = "not_found"
	KindForbidden       ErrorKind = "forbidden"
	KindConflict        ErrorKind = "conflict"
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindRateLimited     ErrorKind = "rate_limited"
	KindUnavailable     ErrorKind = "unavailable"
	KindInternal        ErrorKind = "server_error"
)

// FieldError is one entry of the "errors" array of a validation response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type AppError struct {
	Kind    ErrorKind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewError(kind ErrorKind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func NewValidationError(fields ...FieldError) *AppError {
	return &AppError{Kind: KindValidation, Message: "Validation failed", Fields: fields}
}

func NotFoundError(message string) *AppError {
	return NewError(KindNotFound, message, nil)
}

func ForbiddenError(message string) *AppError {
	return NewError(KindForbidden, message, nil)
}

func ConflictError(message string) *AppError {
	return NewError(KindConflict, message, nil)
}

func UnauthenticatedError(message string) *AppError {
	return NewError(KindUnauthenticated, message, nil)
}

func RateLimitedError(message string) *AppError {
	return NewError(KindRateLimited, message, nil)
}

func UnavailableError(message string) *AppError {
	return NewError(KindUnavailable, message, nil)
}

func InternalError(message string, err error) *AppError {
	return NewError(KindInternal, message, err)
}

// IsKind reports whether err wraps an AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// IsUniqueViolation detects duplicate-key failures from postgres or a translating dialect.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// DBError maps a gorm error to an AppError. notFound is used for gorm.ErrRecordNotFound.
func DBError(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NewError(KindNotFound, notFound, err)
	case IsUniqueViolation(err):
		return NewError(KindConflict, "Resource already exists", err)
	default:
		var appErr *AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return InternalError("database operation failed", err)
	}
}
