package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultTokenTTL = 7 * 24 * time.Hour
	tokenIssuer     = "imghost"
)

// ErrMissingSecret is returned when a token must be signed without a configured secret.
// It is a server configuration problem, never an authentication failure.
var ErrMissingSecret = errors.New("jwt secret is not configured")

type SignedDetails struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies stateless HS256 session tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Tokens{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock returns a copy of t reading time from now.
func (t *Tokens) WithClock(now func() time.Time) *Tokens {
	c := *t
	c.now = now
	return &c
}

func (t *Tokens) Configured() bool {
	return len(t.secret) > 0
}

func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

func (t *Tokens) Issue(username string) (string, error) {
	if !t.Configured() {
		return "", ErrMissingSecret
	}

	now := t.now()
	claims := &SignedDetails{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify returns the claims only when the signature is valid and the token has not
// expired. Any malformed input, foreign signature or expiry yields ok == false.
func (t *Tokens) Verify(tokenString string) (*SignedDetails, bool) {
	tokenString = strings.TrimSpace(tokenString)
	if !t.Configured() || tokenString == "" {
		return nil, false
	}

	claims := &SignedDetails{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid || claims.Username == "" {
		return nil, false
	}

	return claims, true
}
