package authsdk

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrBadToken reports a session token that does not parse as a JWT.
var ErrBadToken = errors.New("authsdk: malformed session token")

// TokenExpiry extracts the exp claim from a backend session token without
// verifying its signature. The backend remains the authority on validity;
// this only lets the gateway skip calls for visibly dead tokens.
func TokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, ErrBadToken
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, ErrBadToken
	}
	return exp.Time, nil
}

// TokenSubject extracts the sub claim (the backend user id) without
// verification. Same caveat as TokenExpiry.
func TokenSubject(token string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", ErrBadToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrBadToken
	}
	return sub, nil
}
