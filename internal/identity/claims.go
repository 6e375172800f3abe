// AngelaMos | 2026
// claims.go

package identity

// Claims are the identity attributes asserted by the provider, either
// embedded in a verified access token or returned by the userinfo endpoint.
type Claims struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	EmailVerified bool   `json:"email_verified"`
}
