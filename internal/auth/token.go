package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"mannequins/backend/internal/apperr"
)

// Token type tags embedded in the claims.
const (
	TokenTypeBearer        = "bearer"
	TokenTypePasswordReset = "password_reset"
)

// ResetTokenTTL is the fixed validity window for password reset tokens.
const ResetTokenTTL = time.Hour

// Claims are the self-contained contents of an issued token.
type Claims struct {
	UserID    string `json:"id"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 tokens.
type TokenIssuer struct {
	secret     []byte
	defaultTTL time.Duration
}

func NewTokenIssuer(secret string, defaultTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), defaultTTL: defaultTTL}
}

// Issue creates a signed token carrying the subject email, user id and
// type tag, returning the claims alongside so callers can record the
// token id. A zero ttl falls back to the issuer's default.
func (ti *TokenIssuer) Issue(email, userID, tokenType string, ttl time.Duration) (string, *Claims, error) {
	if ttl == 0 {
		ttl = ti.defaultTTL
	}
	now := time.Now()
	claims := &Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ti.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Verify parses and validates a token. Expired tokens fail with the
// Expired kind so callers can message expiry distinctly from a bad
// signature, which fails with Unauthorized.
func (ti *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return ti.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Expired("Token expired")
		}
		return nil, apperr.Unauthorized("Could not validate credentials")
	}
	if claims.Subject == "" || claims.UserID == "" {
		return nil, apperr.Unauthorized("Could not validate credentials")
	}
	return claims, nil
}
