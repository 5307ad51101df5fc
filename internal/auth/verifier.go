package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any credential that fails verification:
// bad signature, unexpected algorithm, missing claims, or expiry.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the authenticated user attached to a connection for its
// whole lifetime.
type Identity struct {
	UserID   int64
	Email    string
	FullName string
}

// DisplayName returns the human-readable name, falling back to the email
// when the account has no full name set.
func (i Identity) DisplayName() string {
	if i.FullName != "" {
		return i.FullName
	}
	return i.Email
}

// Claims mirrors the token layout issued by the auth service: subject is
// the email, user_id and fullName are custom claims.
type Claims struct {
	UserID   int64  `json:"user_id"`
	FullName string `json:"fullName"`
	jwt.RegisteredClaims
}

// Verifier validates bearer tokens. It holds no mutable state and is safe
// for concurrent use.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses and validates the token and extracts the caller's identity.
func (v *Verifier) Verify(tokenString string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	if claims.UserID == 0 || claims.Subject == "" {
		return Identity{}, fmt.Errorf("%w: missing required claims", ErrInvalidToken)
	}

	return Identity{
		UserID:   claims.UserID,
		Email:    claims.Subject,
		FullName: claims.FullName,
	}, nil
}
