// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/partnerdesk/agreements-api/internal/core"
	"github.com/partnerdesk/agreements-api/internal/identity"
)

const (
	PrincipalKey contextKey = "principal"
	ClaimsKey    contextKey = "identity_claims"
)

// Principal is the locally provisioned user behind a verified token.
type Principal struct {
	ID    int64
	Email string
	Role  string
}

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*identity.Claims, error)
}

// PrincipalResolver maps a verified provider subject to the local user
// record. The lookup is read-only; the gate never mutates user state.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, subject string) (*Principal, error)
}

// Authenticate is the full access-control gate: extract bearer token,
// verify it against the identity provider, resolve the local user, attach
// the principal to the request context. Role checks are a separate stage
// and always run after this one.
func Authenticate(
	verifier TokenVerifier,
	resolver PrincipalResolver,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				core.Unauthorized(w, "missing authorization token")
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				core.Unauthorized(w, "invalid or expired token")
				return
			}

			principal, err := resolver.ResolvePrincipal(
				r.Context(),
				claims.Subject,
			)
			if err != nil {
				if errors.Is(err, core.ErrNotFound) {
					core.JSONError(w, &core.AppError{
						Status:  http.StatusNotFound,
						Message: "user not provisioned",
						Err:     core.ErrNotFound,
					})
					return
				}
				core.InternalServerError(w, err)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, PrincipalKey, principal)
			ctx = context.WithValue(ctx, ClaimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// VerifyOnly verifies the bearer token without requiring a provisioned
// local user. Used by the login route, where the verified claims are what
// provisions the user in the first place.
func VerifyOnly(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				core.Unauthorized(w, "missing authorization token")
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				core.Unauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := GetPrincipal(r.Context())
			if principal == nil {
				core.Unauthorized(w, "authentication required")
				return
			}

			if _, ok := roleSet[principal.Role]; !ok {
				core.Forbidden(w, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole("ADMIN")(next)
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func GetPrincipal(ctx context.Context) *Principal {
	if p, ok := ctx.Value(PrincipalKey).(*Principal); ok {
		return p
	}
	return nil
}

func GetClaims(ctx context.Context) *identity.Claims {
	if c, ok := ctx.Value(ClaimsKey).(*identity.Claims); ok {
		return c
	}
	return nil
}

func GetUserID(ctx context.Context) int64 {
	if p := GetPrincipal(ctx); p != nil {
		return p.ID
	}
	return 0
}

func GetUserRole(ctx context.Context) string {
	if p := GetPrincipal(ctx); p != nil {
		return p.Role
	}
	return ""
}

func IsAdmin(ctx context.Context) bool {
	return GetUserRole(ctx) == "ADMIN"
}
