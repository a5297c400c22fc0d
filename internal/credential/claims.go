package credential

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the display-only view of a token. Tokens are not verified
// client-side; these values must never gate anything.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Peek decodes token as a JWT without verifying its signature. ok is false
// when the token is not a JWT.
func Peek(token string) (Claims, bool) {
	if token == "" {
		return Claims{}, false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Claims{}, false
	}
	rc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, false
	}

	var out Claims
	if sub, err := rc.GetSubject(); err == nil {
		out.Subject = sub
	}
	if out.Subject == "" {
		for _, key := range []string{"username", "email", "name"} {
			if v, ok := rc[key].(string); ok && v != "" {
				out.Subject = v
				break
			}
		}
	}
	if exp, err := rc.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, true
}
