package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carry the resolved identity inside the bearer token. No expiry
// claim is set: tokens stay valid until the signing secret rotates.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Identity is the decoded payload exposed to callers after verification.
type Identity struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
}

func GenerateToken(userID, email string, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		Email:  email,
	})
	return token.SignedString(secret)
}

// ParseToken verifies the signature and decodes the payload. Every failure
// mode (malformed, forged, wrong algorithm) collapses into ErrInvalidToken so
// callers reject uniformly.
func ParseToken(tokenString string, secret []byte) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return &Identity{UserID: claims.UserID, Email: claims.Email}, nil
}
