package session

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	errs "github.com/jrsteele09/go-storefront-client/internal/errors"
)

// TokenClaims is the unverified claim set of a JWT access token. It exists
// for display and diagnostics only: the token is otherwise opaque to this
// client, and validity is discovered reactively via a 401 response, never by
// inspecting expiry here.
type TokenClaims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Raw       map[string]any
}

// ParseTokenClaims parses a JWT without verifying its signature.
func ParseTokenClaims(rawToken string) (*TokenClaims, error) {
	parsed, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return nil, errors.Wrap(err, "[ParseTokenClaims] parse token")
	}

	mapClaims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.New("[ParseTokenClaims] unexpected claims type")
	}

	claims := &TokenClaims{Raw: mapClaims}
	if sub, err := mapClaims.GetSubject(); err == nil {
		claims.Subject = sub
	}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	return claims, nil
}

// Claims parses the current access token's claims, or returns
// ErrNotAuthenticated when no session exists.
func (s *Store) Claims() (*TokenClaims, error) {
	token, ok := s.gw.Tokens().Token()
	if !ok {
		return nil, errs.ErrNotAuthenticated
	}
	return ParseTokenClaims(token.AccessToken)
}
