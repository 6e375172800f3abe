// AngelaMos | 2026
// respond_test.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestJSONErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "invalid input",
			err:        fmt.Errorf("parse: %w", ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unauthorized",
			err:        fmt.Errorf("verify: %w", ErrUnauthorized),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "forbidden",
			err:        fmt.Errorf("gate: %w", ErrForbidden),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "not found",
			err:        fmt.Errorf("get: %w", ErrNotFound),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "duplicate key",
			err:        fmt.Errorf("insert: %w", ErrDuplicateKey),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "upload failure maps to bad gateway",
			err:        fmt.Errorf("store: %w", ErrUploadFailed),
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "unknown errors are internal",
			err:        errors.New("disk on fire"),
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "app error carries its own status",
			err:        NotFoundError("agreement"),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "wrapped app error still wins",
			err:        fmt.Errorf("service: %w", ConflictError("email taken")),
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			JSONError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			env := decodeEnvelope(t, rec)
			if env.Success {
				t.Error("success = true on error response")
			}
			if env.Message == "" {
				t.Error("message is empty")
			}
		})
	}
}

func TestUploadFailedErrorUnwrapsToSentinel(t *testing.T) {
	err := UploadFailedError(errors.New("provider timeout"))

	if !errors.Is(err, ErrUploadFailed) {
		t.Error("UploadFailedError does not unwrap to ErrUploadFailed")
	}
	if err.Status != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", err.Status)
	}
}

func TestOKAndCreatedEnvelopes(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, "fetched", map[string]int{"id": 1})

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if !env.Success || env.Message != "fetched" || env.Data == nil {
		t.Errorf("envelope = %+v", env)
	}

	rec = httptest.NewRecorder()
	Created(rec, "made", nil)
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
}

func TestPaginatedEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Paginated(rec, "listed", []int{1, 2}, 2, 20, 57)

	var env PaginatedEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if env.Total != 57 || env.Page != 2 || env.PageSize != 20 {
		t.Errorf("pagination = total %d page %d size %d",
			env.Total, env.Page, env.PageSize)
	}
	if !env.Success {
		t.Error("success = false")
	}
}

func TestNotFoundAppendsResourceName(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFound(rec, "agreement")

	env := decodeEnvelope(t, rec)
	if env.Message != "agreement not found" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestInternalServerErrorHidesDetailInProduction(t *testing.T) {
	t.Cleanup(func() { SetProductionCheck(nil) })

	SetProductionCheck(func() bool { return true })
	rec := httptest.NewRecorder()
	InternalServerError(rec, errors.New("secret connection string"))

	env := decodeEnvelope(t, rec)
	if env.Message != "internal server error" {
		t.Errorf("production leaked detail: %q", env.Message)
	}

	SetProductionCheck(func() bool { return false })
	rec = httptest.NewRecorder()
	InternalServerError(rec, errors.New("helpful detail"))

	env = decodeEnvelope(t, rec)
	if env.Message != "helpful detail" {
		t.Errorf("development message = %q, want detail", env.Message)
	}
}
