package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenClaims carries the operator identity inside the bearer token.
// Role and branch ride along so the middleware can build the request actor
// without a user lookup per request.
type AccessTokenClaims struct {
	Role     string `json:"role"`
	BranchID string `json:"branchID,omitempty"`
	jwt.RegisteredClaims
}

// GenerateJWT generates a new JWT token with the given parameters.
func GenerateJWT(userID, role, branchID string, secret string, expiryDuration time.Duration, issuer string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(expiryDuration)
	claims := AccessTokenClaims{
		Role:     role,
		BranchID: branchID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseAndValidateJWT parses a JWT token string, validates its signature and
// standard claims, and returns the access token claims.
func ParseAndValidateJWT(tokenString string, secretKey string) (*AccessTokenClaims, error) {
	claims := &AccessTokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return claims, nil
}
