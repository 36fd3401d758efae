package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind separates access tokens from refresh tokens. A token minted for
// one use site must never be accepted at the other.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken wraps ErrInvalidToken so callers that only care about
	// "usable or not" can match the broader sentinel.
	ErrExpiredToken = fmt.Errorf("%w: expired", ErrInvalidToken)
)

// Claims is the verified payload of a token.
type Claims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// Codec issues and verifies stateless HS256 tokens. Verification is a pure
// function of (token, secret, clock); there is no server-side token table.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewCodec(secret string, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the codec clock. Tests only.
func (c *Codec) WithClock(now func() time.Time) {
	if now != nil {
		c.now = now
	}
}

func (c *Codec) TTL(kind TokenKind) time.Duration {
	if kind == TokenKindRefresh {
		return c.refreshTTL
	}
	return c.accessTTL
}

// Issue signs a token carrying the subject id, issue time, and an expiry of
// issue time plus the kind's TTL.
func (c *Codec) Issue(subject string, kind TokenKind) (string, error) {
	now := c.now()
	claims := Claims{
		TokenType: string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.TTL(kind))),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	encoded, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}

	return encoded, nil
}

// Verify checks signature integrity, then expiry, then that the token was
// minted for the expected kind. Signature failures and kind mismatches both
// surface as ErrInvalidToken so callers cannot tell which check tripped.
func (c *Codec) Verify(raw string, kind TokenKind) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpiredToken
		}
		return Claims{}, ErrInvalidToken
	}
	if !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	if claims.ExpiresAt == nil || !c.now().Before(claims.ExpiresAt.Time) {
		// The expiry instant itself counts as expired.
		return Claims{}, ErrExpiredToken
	}
	if claims.TokenType != string(kind) {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
