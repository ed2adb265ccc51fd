package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpired reports whether a stored bearer token is JWT-shaped and
// carries an exp claim that has already passed. The token is never verified
// here, it stays opaque to the client. An expired one would only bounce on
// the first backend call, so it is cheaper to drop it at bootstrap than to
// render an authenticated UI that immediately gets force-logged-out.
func TokenExpired(token string) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		// Not a JWT; trust the backend to judge it.
		return false
	}
	return claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now())
}
