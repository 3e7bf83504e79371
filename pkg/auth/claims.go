package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the only role the admin panel issues today.
const RoleAdmin = "admin"

var validRoles = map[string]struct{}{
	RoleAdmin: {},
}

// ValidRole reports whether role may be embedded in an access token.
func ValidRole(role string) bool {
	_, ok := validRoles[role]
	return ok
}

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	Subject string
	Role    string
	JTI     string
}

// AccessTokenClaims represents the typed JWT issued to admin clients.
type AccessTokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
