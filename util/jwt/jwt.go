// util/jwt/jwt.go
package jwt

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// The client never verifies tokens; the server does that on every call.
// Parsing here is only for showing who is logged in and warning about
// expiry before a doomed request is made.

func Claims(token string) (jwt.MapClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("missing token")
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, err
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return mc, nil
}

// Subject returns the user id baked into the token.
func Subject(token string) (string, error) {
	mc, err := Claims(token)
	if err != nil {
		return "", err
	}
	if s, ok := mc["sub"].(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("sub missing in claims")
}

// Expired reports whether the token carries an exp claim in the past.
// Tokens without exp are treated as live; the server has the last word.
func Expired(token string, now time.Time) bool {
	mc, err := Claims(token)
	if err != nil {
		return true
	}
	exp, ok := mc["exp"]
	if !ok {
		return false
	}
	f, ok := exp.(float64)
	if !ok {
		return false
	}
	return now.Unix() > int64(f)
}
