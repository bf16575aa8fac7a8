// pkg/token/token.go
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "slashroll"

// Claims identifies the principal behind a session. Kind is "admin" or
// "member"; SubjectID is the row id in the matching table.
type Claims struct {
	Kind      string `json:"kind"`
	SubjectID uint   `json:"sub_id"`
	jwt.RegisteredClaims
}

// GenerateSession signs a session token and returns it with its claims.
// The claims' ID (jti) is what logout revokes.
func GenerateSession(kind string, subjectID uint, secretKey string, ttl time.Duration) (string, *Claims, error) {
	if secretKey == "" {
		return "", nil, errors.New("jwt secret key is empty")
	}
	now := time.Now()
	claims := &Claims{
		Kind:      kind,
		SubjectID: subjectID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secretKey))
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	return signed, claims, nil
}

// ValidateSession parses, validates, and returns claims from a session token.
func ValidateSession(tokenString string, secretKey string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("token string is empty")
	}
	if secretKey == "" {
		return nil, errors.New("jwt secret key is empty")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.New("token has expired")
		}
		if errors.Is(err, jwt.ErrSignatureInvalid) {
			return nil, errors.New("token signature is invalid")
		}
		return nil, fmt.Errorf("could not parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("token is invalid")
	}
	if claims.SubjectID == 0 || claims.Kind == "" {
		return nil, errors.New("session claims are incomplete")
	}
	if claims.ID == "" {
		return nil, errors.New("session id is missing")
	}
	return claims, nil
}
