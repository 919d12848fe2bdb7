// Package auth issues and validates the signed bearer credentials used to
// gate protected operations.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"classtrack-server/internal/common"
	"classtrack-server/internal/server/models"
)

// Claims carries the standard registered claims plus the identity of the
// authenticated user. The password hash is deliberately not part of the
// credential.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// GenerateToken signs an HS256 credential for the given user, valid for
// validityDuration from now.
func GenerateToken(user *models.User, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: user.ID,
		Email:  user.Email,
	})

	return token.SignedString(secretKey)
}

// ParseToken validates the credential's signature and expiry and returns its
// claims. Expired credentials yield common.ErrTokenExpired, anything else
// invalid yields common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
