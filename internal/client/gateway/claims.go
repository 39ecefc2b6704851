package gateway

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/smartvoyage/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims is the subset of the access token the client relies on.
type tokenClaims struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// parseAccessToken reads claims without verifying the signature. The client
// never holds the signing secret; the auth server checks tokens itself.
func parseAccessToken(token string) (tokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return tokenClaims{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return tokenClaims{}, fmt.Errorf("%w: missing sub", common.ErrInvalidToken)
	}

	out := tokenClaims{UserID: sub}
	if email, ok := claims["email"].(string); ok {
		out.Email = email
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}
