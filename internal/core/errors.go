// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
)

// Sentinel errors form the domain error taxonomy. Repositories translate
// storage-level failures (no rows, unique violations) into these exactly
// once; handlers map them to HTTP status codes via the respond helpers.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrUploadFailed = errors.New("upload failed")
)

type AppError struct {
	Status  int
	Message string
	Fields  []string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func NotFoundError(resource string) *AppError {
	return &AppError{
		Status:  404,
		Message: resource + " not found",
		Err:     ErrNotFound,
	}
}

func InvalidInputError(message string, fields ...string) *AppError {
	return &AppError{
		Status:  400,
		Message: message,
		Fields:  fields,
		Err:     ErrInvalidInput,
	}
}

func UnauthorizedError(message string) *AppError {
	return &AppError{
		Status:  401,
		Message: message,
		Err:     ErrUnauthorized,
	}
}

func ForbiddenError(message string) *AppError {
	return &AppError{
		Status:  403,
		Message: message,
		Err:     ErrForbidden,
	}
}

func ConflictError(message string) *AppError {
	return &AppError{
		Status:  409,
		Message: message,
		Err:     ErrDuplicateKey,
	}
}

func UploadFailedError(err error) *AppError {
	return &AppError{
		Status:  502,
		Message: "file upload failed",
		Err:     fmt.Errorf("%w: %w", ErrUploadFailed, err),
	}
}
