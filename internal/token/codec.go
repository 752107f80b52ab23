// Package token issues and validates the internally signed session tokens
// that carry user identity claims between requests.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the session validity window when none is configured.
const DefaultTTL = 7 * 24 * time.Hour

// DefaultIssuer is the issuer string embedded in and required of every token.
const DefaultIssuer = "finance-tracker-v2"

var (
	// ErrExpired marks a structurally valid token past its validity window.
	ErrExpired = errors.New("token has expired")
	// ErrInvalid marks every other verification failure, including a
	// tampered signature or a foreign issuer.
	ErrInvalid = errors.New("invalid token")
	// ErrNoSecret is returned by New when no signing secret is configured.
	// It is fatal at process start, not a per-request condition.
	ErrNoSecret = errors.New("signing secret is not configured")
)

// Claims is the identity payload embedded in a session token.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	SubjectID string `json:"subjectId"`
}

// Codec signs and verifies session tokens with a server-held secret.
// Sessions are stateless: there is no server-side revocation.
type Codec struct {
	secret []byte
	issuer string
	ttl    time.Duration

	// now is injectable so expiry can be simulated in tests.
	now func() time.Time
}

// Config holds the Codec construction parameters.
type Config struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// New constructs a Codec. An empty secret is a configuration error.
func New(cfg Config) (*Codec, error) {
	if cfg.Secret == "" {
		return nil, ErrNoSecret
	}

	issuer := cfg.Issuer
	if issuer == "" {
		issuer = DefaultIssuer
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Codec{
		secret: []byte(cfg.Secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs a token carrying the given identity, valid for the configured TTL.
func (c *Codec) Issue(userID, email, subjectID string) (string, error) {
	now := c.now()
	tk, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		UserID:    userID,
		Email:     email,
		SubjectID: subjectID,
	}).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tk, nil
}

// Verify validates the signature and issuer and returns the embedded claims.
// An elapsed validity window fails with ErrExpired; every other failure,
// ErrInvalid.
func (c *Codec) Verify(raw string) (Claims, error) {
	var claims Claims
	_, err := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithTimeFunc(c.now),
	).ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrInvalid
	}

	return claims, nil
}
