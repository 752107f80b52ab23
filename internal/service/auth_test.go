package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/debojyoti/finance-tracker-v2-backend/internal/identity"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/models"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/repository"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/serr"
)

type mockUserRepo struct {
	FindBySubjectFunc func(ctx context.Context, subjectID string) (*models.User, error)
	FindByIDFunc      func(ctx context.Context, id string) (*models.User, error)
	CreateFunc        func(ctx context.Context, u *models.User) error
	TouchFunc         func(ctx context.Context, id string) (*models.User, error)
}

func (m *mockUserRepo) FindBySubject(ctx context.Context, subjectID string) (*models.User, error) {
	return m.FindBySubjectFunc(ctx, subjectID)
}
func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	return m.FindByIDFunc(ctx, id)
}
func (m *mockUserRepo) Create(ctx context.Context, u *models.User) error {
	return m.CreateFunc(ctx, u)
}
func (m *mockUserRepo) Touch(ctx context.Context, id string) (*models.User, error) {
	return m.TouchFunc(ctx, id)
}

type mockBridge struct {
	VerifyFunc func(ctx context.Context, raw string) (identity.Identity, error)
}

func (m *mockBridge) Verify(ctx context.Context, raw string) (identity.Identity, error) {
	return m.VerifyFunc(ctx, raw)
}

type mockIssuer struct {
	IssueFunc func(userID, email, subjectID string) (string, error)
}

func (m *mockIssuer) Issue(userID, email, subjectID string) (string, error) {
	return m.IssueFunc(userID, email, subjectID)
}

func staticIssuer(token string) *mockIssuer {
	return &mockIssuer{IssueFunc: func(string, string, string) (string, error) {
		return token, nil
	}}
}

func TestLogin_RequiresTokenAndProfile(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, &mockBridge{}, &mockIssuer{})

	tests := []struct {
		name    string
		token   string
		profile Profile
		wantMsg string
	}{
		{"missing token", "", Profile{Name: "Bob", Email: "bob@example.com"}, "Identity token is required"},
		{"missing email", "ext-token", Profile{Name: "Bob"}, "User email is required"},
		{"missing name", "ext-token", Profile{Email: "bob@example.com"}, "User name is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.token, tt.profile)
			se := serr.From(err)
			if se == nil {
				t.Fatalf("Login error = %v; want ServiceError", err)
			}
			if se.StatusCode != http.StatusBadRequest {
				t.Errorf("StatusCode = %d; want 400", se.StatusCode)
			}
			if se.Msg != tt.wantMsg {
				t.Errorf("Msg = %q; want %q", se.Msg, tt.wantMsg)
			}
		})
	}
}

func TestLogin_FirstLoginCreatesUser(t *testing.T) {
	var created *models.User
	users := &mockUserRepo{
		FindBySubjectFunc: func(ctx context.Context, subjectID string) (*models.User, error) {
			return nil, repository.ErrNotFound
		},
		CreateFunc: func(ctx context.Context, u *models.User) error {
			created = u
			return nil
		},
	}
	bridge := &mockBridge{
		VerifyFunc: func(ctx context.Context, raw string) (identity.Identity, error) {
			return identity.Identity{SubjectID: "sub-1", Provider: "google.com"}, nil
		},
	}
	svc := NewAuthService(users, bridge, staticIssuer("session-token"))

	result, err := svc.Login(context.Background(), "ext-token", Profile{
		Name:  "  Bob  ",
		Email: "Bob@Example.COM",
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if result.Token != "session-token" {
		t.Errorf("Token = %q; want %q", result.Token, "session-token")
	}
	if created == nil {
		t.Fatal("expected Create to be called")
	}
	if created.SubjectID != "sub-1" {
		t.Errorf("SubjectID = %q; want %q", created.SubjectID, "sub-1")
	}
	if created.Name != "Bob" {
		t.Errorf("Name = %q; want trimmed %q", created.Name, "Bob")
	}
	if created.Email != "bob@example.com" {
		t.Errorf("Email = %q; want lowercased %q", created.Email, "bob@example.com")
	}
	if created.LoginMedium != models.LoginMediumGoogle {
		t.Errorf("LoginMedium = %q; want %q", created.LoginMedium, models.LoginMediumGoogle)
	}
	if created.ID == "" {
		t.Error("expected a generated user id")
	}
}

func TestLogin_RepeatLoginTouchesExistingUser(t *testing.T) {
	existing := &models.User{ID: "u1", SubjectID: "sub-1", Email: "bob@example.com"}
	touched := false
	users := &mockUserRepo{
		FindBySubjectFunc: func(ctx context.Context, subjectID string) (*models.User, error) {
			return existing, nil
		},
		TouchFunc: func(ctx context.Context, id string) (*models.User, error) {
			if id != "u1" {
				t.Errorf("Touch id = %q; want %q", id, "u1")
			}
			touched = true
			return existing, nil
		},
		CreateFunc: func(ctx context.Context, u *models.User) error {
			t.Error("Create must not be called on repeat login")
			return nil
		},
	}
	bridge := &mockBridge{
		VerifyFunc: func(ctx context.Context, raw string) (identity.Identity, error) {
			return identity.Identity{SubjectID: "sub-1"}, nil
		},
	}
	svc := NewAuthService(users, bridge, staticIssuer("t"))

	result, err := svc.Login(context.Background(), "ext-token", Profile{Name: "Bob", Email: "bob@example.com"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if !touched {
		t.Error("expected Touch to be called")
	}
	if result.User != existing {
		t.Error("expected the existing user back")
	}
}

func TestLogin_DuplicateEmail(t *testing.T) {
	users := &mockUserRepo{
		FindBySubjectFunc: func(ctx context.Context, subjectID string) (*models.User, error) {
			return nil, repository.ErrNotFound
		},
		CreateFunc: func(ctx context.Context, u *models.User) error {
			return repository.ErrDuplicate
		},
	}
	bridge := &mockBridge{
		VerifyFunc: func(ctx context.Context, raw string) (identity.Identity, error) {
			return identity.Identity{SubjectID: "sub-2"}, nil
		},
	}
	svc := NewAuthService(users, bridge, staticIssuer("t"))

	_, err := svc.Login(context.Background(), "ext-token", Profile{Name: "Eve", Email: "bob@example.com"})
	se := serr.From(err)
	if se == nil {
		t.Fatalf("Login error = %v; want ServiceError", err)
	}
	if se.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d; want 400", se.StatusCode)
	}
	if se.Msg != "Email already exists with a different account" {
		t.Errorf("Msg = %q", se.Msg)
	}
}

func TestLogin_BridgeErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		bridgeErr  error
		wantStatus int
		wantMsg    string
	}{
		{"expired", identity.ErrExpired, http.StatusUnauthorized, "Identity token has expired. Please login again."},
		{"revoked", identity.ErrRevoked, http.StatusUnauthorized, "Identity token has been revoked. Please login again."},
		{"malformed", identity.ErrMalformed, http.StatusBadRequest, "Invalid identity token format"},
		{"unknown", errors.New("provider unreachable"), http.StatusUnauthorized, "Identity verification failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bridge := &mockBridge{
				VerifyFunc: func(ctx context.Context, raw string) (identity.Identity, error) {
					return identity.Identity{}, tt.bridgeErr
				},
			}
			svc := NewAuthService(&mockUserRepo{}, bridge, staticIssuer("t"))

			_, err := svc.Login(context.Background(), "bad-token", Profile{Name: "Bob", Email: "bob@example.com"})
			se := serr.From(err)
			if se == nil {
				t.Fatalf("Login error = %v; want ServiceError", err)
			}
			if se.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d; want %d", se.StatusCode, tt.wantStatus)
			}
			if se.Msg != tt.wantMsg {
				t.Errorf("Msg = %q; want %q", se.Msg, tt.wantMsg)
			}
		})
	}
}

func TestMe_NotFound(t *testing.T) {
	users := &mockUserRepo{
		FindByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return nil, repository.ErrNotFound
		},
	}
	svc := NewAuthService(users, &mockBridge{}, &mockIssuer{})

	_, err := svc.Me(context.Background(), "missing")
	se := serr.From(err)
	if se == nil || se.StatusCode != http.StatusNotFound {
		t.Fatalf("Me error = %v; want 404 ServiceError", err)
	}
	if se.Msg != "User not found" {
		t.Errorf("Msg = %q", se.Msg)
	}
}

func TestResolveUser_DeletedUser(t *testing.T) {
	users := &mockUserRepo{
		FindByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return nil, repository.ErrNotFound
		},
	}
	svc := NewAuthService(users, &mockBridge{}, &mockIssuer{})

	_, err := svc.ResolveUser(context.Background(), "gone")
	se := serr.From(err)
	if se == nil || se.StatusCode != http.StatusUnauthorized {
		t.Fatalf("ResolveUser error = %v; want 401 ServiceError", err)
	}
	if se.Msg != "User not found. Invalid token." {
		t.Errorf("Msg = %q", se.Msg)
	}
}
