package types

import "github.com/golang-jwt/jwt/v5"

// Claims carries a signed-in dashboard user session.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Team  string `json:"team"`
	jwt.RegisteredClaims
}

// PortalClaims carries a verified portal session. The email is the
// identity proven by the login code; it is re-checked against the
// customer record on every call.
type PortalClaims struct {
	PortalID string `json:"portal_id"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}
