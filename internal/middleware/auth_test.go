// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/partnerdesk/agreements-api/internal/core"
	"github.com/partnerdesk/agreements-api/internal/identity"
)

type fakeVerifier struct {
	claims *identity.Claims
	err    error
}

func (f *fakeVerifier) Verify(
	_ context.Context,
	_ string,
) (*identity.Claims, error) {
	return f.claims, f.err
}

type fakeResolver struct {
	principal *Principal
	err       error
}

func (f *fakeResolver) ResolvePrincipal(
	_ context.Context,
	_ string,
) (*Principal, error) {
	return f.principal, f.err
}

func okHandler(t *testing.T, wantPrincipal bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if wantPrincipal && GetPrincipal(r.Context()) == nil {
			t.Error("principal missing from context")
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	validClaims := &identity.Claims{Subject: "auth0|abc", Email: "a@b.co"}
	validPrincipal := &Principal{ID: 1, Email: "a@b.co", Role: "PARTNER_USER"}

	tests := []struct {
		name       string
		authHeader string
		verifier   *fakeVerifier
		resolver   *fakeResolver
		wantStatus int
	}{
		{
			name:       "missing token",
			authHeader: "",
			verifier:   &fakeVerifier{},
			resolver:   &fakeResolver{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			authHeader: "Bearer bad",
			verifier:   &fakeVerifier{err: core.ErrUnauthorized},
			resolver:   &fakeResolver{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "verified but not provisioned",
			authHeader: "Bearer good",
			verifier:   &fakeVerifier{claims: validClaims},
			resolver:   &fakeResolver{err: core.ErrNotFound},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "resolver failure",
			authHeader: "Bearer good",
			verifier:   &fakeVerifier{claims: validClaims},
			resolver:   &fakeResolver{err: errors.New("db down")},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "valid token and provisioned user",
			authHeader: "Bearer good",
			verifier:   &fakeVerifier{claims: validClaims},
			resolver:   &fakeResolver{principal: validPrincipal},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := Authenticate(tt.verifier, tt.resolver)
			handler := gate(okHandler(t, tt.wantStatus == http.StatusOK))

			req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			if tt.wantStatus != http.StatusOK {
				var envelope struct {
					Success bool `json:"success"`
				}
				if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
					t.Fatalf("decode envelope: %v", err)
				}
				if envelope.Success {
					t.Error("success = true on rejection")
				}
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		principal  *Principal
		required   []string
		wantStatus int
	}{
		{
			name:       "no principal",
			principal:  nil,
			required:   []string{"ADMIN"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong role",
			principal:  &Principal{ID: 1, Role: "PARTNER_USER"},
			required:   []string{"ADMIN"},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "matching role",
			principal:  &Principal{ID: 1, Role: "ADMIN"},
			required:   []string{"ADMIN"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "any of several roles",
			principal:  &Principal{ID: 1, Role: "BANK_USER"},
			required:   []string{"ADMIN", "BANK_USER"},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireRole(tt.required...)(okHandler(t, false))

			req := httptest.NewRequest(http.MethodGet, "/v1/admin/users", nil)
			if tt.principal != nil {
				ctx := context.WithValue(
					req.Context(),
					PrincipalKey,
					tt.principal,
				)
				req = req.WithContext(ctx)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty header", "", ""},
		{"bearer token", "Bearer abc123", "abc123"},
		{"case insensitive scheme", "bearer abc123", "abc123"},
		{"wrong scheme", "Basic abc123", ""},
		{"scheme only", "Bearer", ""},
		{"trims whitespace", "Bearer   abc123", "abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			if got := ExtractToken(req); got != tt.want {
				t.Errorf("ExtractToken() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetUserHelpers(t *testing.T) {
	ctx := context.WithValue(
		context.Background(),
		PrincipalKey,
		&Principal{ID: 7, Email: "x@y.co", Role: "ADMIN"},
	)

	if got := GetUserID(ctx); got != 7 {
		t.Errorf("GetUserID = %d, want 7", got)
	}
	if got := GetUserRole(ctx); got != "ADMIN" {
		t.Errorf("GetUserRole = %q, want ADMIN", got)
	}
	if !IsAdmin(ctx) {
		t.Error("IsAdmin = false, want true")
	}

	empty := context.Background()
	if got := GetUserID(empty); got != 0 {
		t.Errorf("GetUserID on empty context = %d, want 0", got)
	}
	if IsAdmin(empty) {
		t.Error("IsAdmin on empty context = true, want false")
	}
}
