package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired means the token was well-formed and correctly signed
	// but is past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers every other verification failure: malformed,
	// bad signature, wrong signing method.
	ErrTokenInvalid = errors.New("invalid token")
)

// JWTManager issues and verifies stateless HS256 session tokens. Tokens
// embed the user id and an expiry; nothing is persisted server-side.
type JWTManager struct {
	Secret []byte
	TTL    time.Duration
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{Secret: []byte(secret), TTL: ttl}
}

type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// Issue signs a token for the given user with the configured TTL.
func (m *JWTManager) Issue(userID string) (string, time.Time, error) {
	exp := time.Now().Add(m.TTL)
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

// Verify validates signature and expiry and returns the embedded user id.
// Any failure rejects the token outright; there is no degraded identity.
func (m *JWTManager) Verify(tokenStr string) (string, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if !tkn.Valid || claims.UserID == "" {
		return "", ErrTokenInvalid
	}
	return claims.UserID, nil
}
