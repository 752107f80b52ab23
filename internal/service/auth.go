package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/debojyoti/finance-tracker-v2-backend/internal/identity"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/models"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/repository"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/serr"
	"github.com/google/uuid"
)

// UserRepository defines the user-directory persistence operations required
// by the authentication service.
type UserRepository interface {
	// FindBySubject looks a user up by external subject id.
	FindBySubject(ctx context.Context, subjectID string) (*models.User, error)
	// FindByID looks a user up by internal id.
	FindByID(ctx context.Context, id string) (*models.User, error)
	// Create inserts a new user record.
	Create(ctx context.Context, u *models.User) error
	// Touch bumps the user's updated_at timestamp on a repeat login.
	Touch(ctx context.Context, id string) (*models.User, error)
}

// IdentityVerifier validates externally issued identity tokens.
type IdentityVerifier interface {
	Verify(ctx context.Context, raw string) (identity.Identity, error)
}

// SessionIssuer mints the internally signed session tokens.
type SessionIssuer interface {
	Issue(userID, email, subjectID string) (string, error)
}

// AuthService turns external identity tokens into internal sessions and
// resolves session claims back to users.
type AuthService struct {
	users    UserRepository
	bridge   IdentityVerifier
	sessions SessionIssuer
}

// NewAuthService constructs an AuthService from its collaborators.
func NewAuthService(users UserRepository, bridge IdentityVerifier, sessions SessionIssuer) *AuthService {
	return &AuthService{users: users, bridge: bridge, sessions: sessions}
}

// Profile is the caller-supplied account info accompanying a login.
type Profile struct {
	Name  string
	Email string
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	Token string
	User  *models.User
}

// Login verifies the external token, finds or creates the user keyed by the
// external subject id, and issues a session token. Repeated logins with the
// same identity converge on the same user, touching only its timestamp.
func (s *AuthService) Login(ctx context.Context, externalToken string, p Profile) (*LoginResult, error) {
	if externalToken == "" {
		return nil, serr.Validation("Identity token is required")
	}
	if p.Email == "" {
		return nil, serr.Validation("User email is required")
	}
	if p.Name == "" {
		return nil, serr.Validation("User name is required")
	}

	id, err := s.bridge.Verify(ctx, externalToken)
	if err != nil {
		return nil, bridgeError(err)
	}

	user, err := s.findOrCreate(ctx, id, p)
	if err != nil {
		return nil, err
	}

	token, err := s.sessions.Issue(user.ID, user.Email, user.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	return &LoginResult{Token: token, User: user}, nil
}

// findOrCreate resolves the external identity to an internal user, creating
// one on first sight. The email unique index is the only guard against two
// concurrent first-logins racing on the same address; the loser surfaces as
// a duplicate-email failure the caller resolves by logging in again.
func (s *AuthService) findOrCreate(ctx context.Context, id identity.Identity, p Profile) (*models.User, error) {
	user, err := s.users.FindBySubject(ctx, id.SubjectID)
	if err == nil {
		touched, err := s.users.Touch(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("touch user: %w", err)
		}
		return touched, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	name := p.Name
	if name == "" {
		name = id.Name
	}
	email := p.Email
	if email == "" {
		email = id.Email
	}

	user = &models.User{
		ID:          uuid.NewString(),
		SubjectID:   id.SubjectID,
		Name:        strings.TrimSpace(name),
		Email:       strings.ToLower(strings.TrimSpace(email)),
		LoginMedium: models.MediumForProvider(id.Provider),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, serr.New(err, http.StatusBadRequest, "Email already exists with a different account")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Me returns the current user's summary.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, serr.NotFound("User not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// ResolveUser re-resolves a session's user id on every protected request so
// deleted users cannot act on stale tokens.
func (s *AuthService) ResolveUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, serr.Unauthorized(err, "User not found. Invalid token.")
		}
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	return user, nil
}

// bridgeError maps the identity bridge failure taxonomy to caller-visible
// responses.
func bridgeError(err error) error {
	switch {
	case errors.Is(err, identity.ErrMissingCredential):
		return serr.Validation("Identity token is required")
	case errors.Is(err, identity.ErrExpired):
		return serr.Unauthorized(err, "Identity token has expired. Please login again.")
	case errors.Is(err, identity.ErrRevoked):
		return serr.Unauthorized(err, "Identity token has been revoked. Please login again.")
	case errors.Is(err, identity.ErrMalformed):
		return serr.Validation("Invalid identity token format")
	default:
		return serr.Unauthorized(err, "Identity verification failed")
	}
}
