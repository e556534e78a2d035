package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrAlreadyExists        = errors.New("already exists")
	ErrNotFound             = errors.New("not found")
	ErrDatabaseQuery        = errors.New("database query failed")
	ErrForeignKeyConstraint = errors.New("foreign key constraint violation")
	ErrDatabaseTimeout      = errors.New("database timeout")
)

func NewAlreadyExists(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		Kind:       KindConflict,
		err:        wrapSentinel(fmt.Sprintf("%s already exists", entity), ErrAlreadyExists),
	}
}

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		Kind:       KindNotFound,
		err:        wrapSentinel(fmt.Sprintf("%s not found", entity), ErrNotFound),
	}
}

// NewDatabaseError classifies a storage error into the API taxonomy. The
// driver message is kept as Cause for logging and never rendered.
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	if cause == nil {
		return nil
	}

	var apiErr *ApiErr
	if errors.As(cause, &apiErr) {
		return apiErr
	}

	errStr := cause.Error()
	switch {
	case errors.Is(cause, gorm.ErrRecordNotFound):
		return NewNotFound(capitalize(entity))
	case errors.Is(cause, gorm.ErrDuplicatedKey),
		strings.Contains(errStr, "duplicate key"),
		strings.Contains(errStr, "UNIQUE constraint failed"):
		conflict := NewAlreadyExists(fmt.Sprintf("A %s with this slug or key", entity))
		conflict.Cause = cause
		return conflict
	case errors.Is(cause, gorm.ErrForeignKeyViolated),
		strings.Contains(errStr, "foreign key constraint"),
		strings.Contains(errStr, "FOREIGN KEY constraint failed"):
		return &ApiErr{
			StatusCode: http.StatusBadRequest,
			Kind:       KindValidation,
			err:        wrapSentinel(fmt.Sprintf("invalid reference in %s", entity), ErrForeignKeyConstraint),
			Cause:      cause,
		}
	case errors.Is(cause, context.DeadlineExceeded):
		return &ApiErr{
			StatusCode: http.StatusInternalServerError,
			Kind:       KindInternal,
			err:        wrapSentinel("Internal server error", ErrDatabaseTimeout),
			Cause:      fmt.Errorf("%s %s: %w", operation, entity, cause),
		}
	}

	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		Kind:       KindInternal,
		err:        wrapSentinel("Internal server error", ErrDatabaseQuery),
		Cause:      fmt.Errorf("%s %s: %w", operation, entity, cause),
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
