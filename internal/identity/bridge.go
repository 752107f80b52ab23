// Package identity validates externally issued identity tokens and extracts
// the verified claims the rest of the system keys users on.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
)

var (
	// ErrMissingCredential marks an absent external token.
	ErrMissingCredential = errors.New("identity token is required")
	// ErrExpired marks a token past its validity.
	ErrExpired = errors.New("identity token has expired")
	// ErrRevoked marks a token the provider reports as revoked. Offline
	// signature verification cannot detect revocation itself, so this fires
	// only when the provider's error text reports it.
	ErrRevoked = errors.New("identity token has been revoked")
	// ErrMalformed marks a token that is not structurally a valid credential.
	ErrMalformed = errors.New("identity token is malformed")
	// ErrUnknown marks every unclassified provider failure.
	ErrUnknown = errors.New("identity verification failed")
)

// Identity holds the verified claims extracted from an external token.
type Identity struct {
	SubjectID     string
	Email         string
	Name          string
	EmailVerified bool
	Provider      string
}

// idClaims is the provider token payload. The nested firebase block carries
// the upstream sign-in provider for federated logins.
type idClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	Firebase      struct {
		SignInProvider string `json:"sign_in_provider"`
	} `json:"firebase"`
}

// Bridge verifies external identity tokens against a configured OIDC issuer.
// It is constructed once at process start and shared across requests.
type Bridge struct {
	verifier *oidc.IDTokenVerifier
}

// Config holds the Bridge construction parameters.
type Config struct {
	// IssuerURL is the OIDC discovery root of the identity provider.
	IssuerURL string
	// Audience is the expected token audience (the provider project id).
	Audience string
}

// New discovers the issuer's verification keys and returns a Bridge.
func New(ctx context.Context, cfg Config) (*Bridge, error) {
	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("new oidc provider: %w", err)
	}

	return &Bridge{
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.Audience}),
	}, nil
}

// Verify checks the raw external token and returns its verified claims.
// Failures are classified as ErrMissingCredential, ErrExpired, ErrRevoked,
// ErrMalformed, or ErrUnknown.
func (b *Bridge) Verify(ctx context.Context, raw string) (Identity, error) {
	if raw == "" {
		return Identity{}, ErrMissingCredential
	}

	tk, err := b.verifier.Verify(ctx, raw)
	if err != nil {
		return Identity{}, classify(err)
	}

	var claims idClaims
	if err := tk.Claims(&claims); err != nil {
		return Identity{}, fmt.Errorf("read claims: %w", err)
	}

	provider := claims.Firebase.SignInProvider
	if provider == "" {
		provider = tk.Issuer
	}

	return Identity{
		SubjectID:     tk.Subject,
		Email:         claims.Email,
		Name:          claims.Name,
		EmailVerified: claims.EmailVerified,
		Provider:      provider,
	}, nil
}

// classify maps a provider verification failure to the bridge taxonomy.
func classify(err error) error {
	var expired *oidc.TokenExpiredError
	if errors.As(err, &expired) {
		return ErrExpired
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "revoked"):
		return ErrRevoked
	case strings.Contains(msg, "malformed"):
		return ErrMalformed
	default:
		return fmt.Errorf("%w: %v", ErrUnknown, err)
	}
}
