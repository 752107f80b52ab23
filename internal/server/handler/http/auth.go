package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/debojyoti/finance-tracker-v2-backend/internal/middleware"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/models"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/service"
)

// AuthService defines the authentication operations required by the HTTP
// handlers.
type AuthService interface {
	// Login exchanges an external identity token for an internal session.
	Login(ctx context.Context, externalToken string, p service.Profile) (*service.LoginResult, error)
	// Me returns the current user's summary.
	Me(ctx context.Context, userID string) (*models.User, error)
}

// AuthHandler handles login, current-user, and logout requests.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// Responder writes the JSON envelopes.
	Responder *Responder
}

// LoginRequest is the JSON payload for POST /api/auth.
type LoginRequest struct {
	// ExternalToken is the identity provider's token presented at login.
	ExternalToken string `json:"externalToken"`
	// User carries the caller-supplied profile info.
	User struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
}

// Login handles POST /api/auth. It verifies the external identity token,
// finds or creates the user, and returns a session token with the user
// summary.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Responder.BadRequest(w, "Invalid request body")
		return
	}

	result, err := h.AuthService.Login(r.Context(), req.ExternalToken, service.Profile{
		Name:  req.User.Name,
		Email: req.User.Email,
	})
	if err != nil {
		h.Responder.Fail(w, err, "Authentication failed")
		return
	}

	h.Responder.OK(w, http.StatusOK, "Login successful", map[string]any{
		"token": result.Token,
		"user":  result.User,
	})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	// Fetch the fresh record rather than echoing the context copy.
	current, err := h.AuthService.Me(r.Context(), user.ID)
	if err != nil {
		h.Responder.Fail(w, err, "Failed to fetch user information")
		return
	}

	h.Responder.OK(w, http.StatusOK, "", map[string]any{"user": current})
}

// Logout handles POST /api/auth/logout. Sessions are stateless, so logout is
// a client-side token removal; the endpoint only acknowledges.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Responder.OK(w, http.StatusOK, "Logout successful", nil)
}
