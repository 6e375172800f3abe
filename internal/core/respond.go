// AngelaMos | 2026
// respond.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Envelope is the uniform response wrapper. Paginated list responses extend
// it with total/page/page_size.
type Envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

type PaginatedEnvelope struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Data     any    `json:"data"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // best-effort response write
	_ = json.NewEncoder(w).Encode(body)
}

func OK(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Created(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusCreated, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Paginated(
	w http.ResponseWriter,
	message string,
	data any,
	page, pageSize, total int,
) {
	writeJSON(w, http.StatusOK, PaginatedEnvelope{
		Success:  true,
		Message:  message,
		Data:     data,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func BadRequest(w http.ResponseWriter, message string, fields ...string) {
	writeJSON(w, http.StatusBadRequest, Envelope{
		Success: false,
		Message: message,
		Errors:  fields,
	})
}

func Unauthorized(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, Envelope{
		Success: false,
		Message: message,
	})
}

func Forbidden(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusForbidden, Envelope{
		Success: false,
		Message: message,
	})
}

func NotFound(w http.ResponseWriter, resource string) {
	writeJSON(w, http.StatusNotFound, Envelope{
		Success: false,
		Message: resource + " not found",
	})
}

func Conflict(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusConflict, Envelope{
		Success: false,
		Message: message,
	})
}

func InternalServerError(w http.ResponseWriter, err error) {
	slog.Error("internal server error", "error", err)

	message := "internal server error"
	if err != nil && !isProductionEnv() {
		message = err.Error()
	}

	writeJSON(w, http.StatusInternalServerError, Envelope{
		Success: false,
		Message: message,
	})
}

// JSONError maps an error to its envelope. AppErrors carry their own status;
// bare sentinels fall back to the taxonomy mapping; everything else is a 500.
func JSONError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		writeJSON(w, appErr.Status, Envelope{
			Success: false,
			Message: appErr.Message,
			Errors:  appErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, ErrInvalidInput):
		BadRequest(w, err.Error())
	case errors.Is(err, ErrUnauthorized):
		Unauthorized(w, "unauthorized")
	case errors.Is(err, ErrForbidden):
		Forbidden(w, "insufficient permissions")
	case errors.Is(err, ErrNotFound):
		NotFound(w, "record")
	case errors.Is(err, ErrDuplicateKey):
		Conflict(w, "duplicate value violates a unique constraint")
	case errors.Is(err, ErrUploadFailed):
		writeJSON(w, http.StatusBadGateway, Envelope{
			Success: false,
			Message: "file upload failed",
		})
	default:
		InternalServerError(w, err)
	}
}

// FormatValidationErrors flattens validator.ValidationErrors into one
// message per failing field so clients get every violation at once.
func FormatValidationErrors(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, formatFieldError(fe))
	}
	return messages
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "url", "uri":
		return fmt.Sprintf("%s must be a valid URL", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must match the format %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", fe.Field(), fe.Tag())
	}
}

var productionEnv func() bool

// SetProductionCheck wires the environment probe used to decide whether
// internal error detail may leak into responses.
func SetProductionCheck(fn func() bool) {
	productionEnv = fn
}

func isProductionEnv() bool {
	if productionEnv == nil {
		return true
	}
	return productionEnv()
}
