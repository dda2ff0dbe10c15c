package token

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/bloghub-admin/internal/errors"
)

// ExpiryOf reads the exp claim of a BlogHub access token.
// The signature is not checked: the content API verifies every token it receives,
// the console only needs to know when to refresh.
func ExpiryOf(accessToken string) (time.Time, error) {
	claims := jwtlib.MapClaims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}, fmt.Errorf("[token ExpiryOf] %w: %v", errors.ErrInvalidToken, err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("[token ExpiryOf] %w: %v", errors.ErrInvalidToken, err)
	}
	if exp == nil {
		return time.Time{}, fmt.Errorf("[token ExpiryOf] %w: missing exp claim", errors.ErrInvalidToken)
	}
	return exp.Time, nil
}

// Expired reports whether a token expiring at expiry should be treated as expired
// at now, refreshing leeway early. A zero expiry never expires.
func Expired(expiry, now time.Time, leeway time.Duration) bool {
	if expiry.IsZero() {
		return false
	}
	return !now.Add(leeway).Before(expiry)
}
