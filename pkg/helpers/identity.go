package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityVerifier validates tokens minted by the external identity
// provider and extracts the (recipient id, role) pair the core trusts
// as-is. The core never issues credentials; Generate exists for dev
// seeding and tests.
type IdentityVerifier struct {
	Secret []byte
}

func NewIdentityVerifier(secret string) *IdentityVerifier {
	return &IdentityVerifier{Secret: []byte(secret)}
}

// IdentityClaims carry the trusted principal.
type IdentityClaims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (m *IdentityVerifier) Parse(tokenStr string) (*IdentityClaims, error) {
	claims := &IdentityClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func (m *IdentityVerifier) Generate(userID, role string, ttl time.Duration) (string, error) {
	claims := &IdentityClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.Secret)
}
