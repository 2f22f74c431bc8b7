// Package auth signs and checks the session tokens a client keeps to resume
// a login across restarts.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophcart/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the standard claims plus the logged-in username.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

var ErrTokenExpired = fmt.Errorf("token expired: %w", common.ErrInvalidToken)

func GenerateToken(username string, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		Username: username,
	})

	signed, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// UsernameFromToken validates the signature and expiry of tokenString and
// returns the username it was issued for. Every failure matches
// common.ErrInvalidToken; an expired token is ErrTokenExpired.
func UsernameFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.Username == "" {
		return "", common.ErrInvalidToken
	}
	return claims.Username, nil
}
