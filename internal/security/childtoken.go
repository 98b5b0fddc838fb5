package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidChildToken is returned for tokens that are expired, malformed or
// signed with the wrong key.
var ErrInvalidChildToken = errors.New("invalid child token")

// ChildClaims carries the child identity inside a child session token.
// FamilyUserID is the owning family at the time of PIN verification.
type ChildClaims struct {
	ChildID      int64 `json:"child_id"`
	FamilyUserID int64 `json:"family_user_id"`
	jwt.RegisteredClaims
}

// ChildTokenIssuer signs and parses child-scoped session tokens (HS256).
// Child sessions are deliberately stateless: revocation happens by the parent
// removing or resetting the PIN, which the child routes re-check on use.
type ChildTokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewChildTokenIssuer creates a token issuer with the given signing secret and lifetime
func NewChildTokenIssuer(secret string, ttl time.Duration) *ChildTokenIssuer {
	return &ChildTokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token for a verified child
func (i *ChildTokenIssuer) Issue(childID, familyUserID int64) (string, error) {
	now := time.Now()
	claims := ChildClaims{
		ChildID:      childID,
		FamilyUserID: familyUserID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign child token: %w", err)
	}
	return signed, nil
}

// Parse validates a token and returns its claims
func (i *ChildTokenIssuer) Parse(tokenString string) (*ChildClaims, error) {
	claims := &ChildClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidChildToken
	}
	return claims, nil
}
