// AngelaMos | 2026
// verifier.go

package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/partnerdesk/agreements-api/internal/config"
	"github.com/partnerdesk/agreements-api/internal/core"
)

// Verifier validates bearer tokens against the provider's JWKS endpoint.
// Keys are fetched once and refreshed in the background by the jwk cache;
// verification itself never leaves the process.
type Verifier struct {
	cache   *jwk.Cache
	jwksURL string
	config  config.Auth0Config
}

func NewVerifier(
	ctx context.Context,
	cfg config.Auth0Config,
) (*Verifier, error) {
	cache, err := jwk.NewCache(ctx, httprc.NewClient())
	if err != nil {
		return nil, fmt.Errorf("create jwks cache: %w", err)
	}

	jwksURL := cfg.JWKSURL()
	if err := cache.Register(ctx, jwksURL); err != nil {
		return nil, fmt.Errorf("register jwks endpoint: %w", err)
	}

	return &Verifier{
		cache:   cache,
		jwksURL: jwksURL,
		config:  cfg,
	}, nil
}

func (v *Verifier) Verify(
	ctx context.Context,
	tokenString string,
) (*Claims, error) {
	keySet, err := v.cache.Lookup(ctx, v.jwksURL)
	if err != nil {
		return nil, fmt.Errorf("lookup jwks: %w", err)
	}

	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKeySet(keySet),
		jwt.WithValidate(true),
		jwt.WithIssuer(v.config.Issuer()),
		jwt.WithAudience(v.config.Audience),
	)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf(
				"verify token: expired: %w",
				core.ErrUnauthorized,
			)
		}
		return nil, fmt.Errorf(
			"verify token: invalid: %w",
			core.ErrUnauthorized,
		)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrUnauthorized,
		)
	}

	claims := &Claims{Subject: subject}

	// Profile claims are optional on access tokens; the userinfo endpoint
	// is authoritative when they are absent.
	//nolint:errcheck // absent claims leave the zero value
	_ = token.Get("email", &claims.Email)
	//nolint:errcheck
	_ = token.Get("name", &claims.Name)
	//nolint:errcheck
	_ = token.Get("picture", &claims.Picture)
	//nolint:errcheck
	_ = token.Get("email_verified", &claims.EmailVerified)

	return claims, nil
}

func isTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "exp") &&
		strings.Contains(errStr, "not satisfied")
}
