package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/isdelr/articlehub-be/internal/apperrors"
	"github.com/isdelr/articlehub-be/internal/auth"
	"github.com/isdelr/articlehub-be/internal/models"
	"github.com/isdelr/articlehub-be/internal/services"
)

// AuthHandler handles login and the current-user endpoint.
type AuthHandler struct {
	auth          services.AuthServiceProvider
	users         services.UserServiceProvider
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler. secureCookies marks the token
// cookie Secure and should be set in production.
func NewAuthHandler(authService services.AuthServiceProvider, users services.UserServiceProvider, secureCookies bool) *AuthHandler {
	return &AuthHandler{auth: authService, users: users, secureCookies: secureCookies}
}

type loginUser struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Email       string        `json:"email"`
	Permissions []models.Role `json:"permissions"`
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"`
	User        loginUser `json:"user"`
}

// Login handles user authentication and JWT generation.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    res.AccessToken,
		Expires:  res.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})

	respondJSON(w, http.StatusOK, loginResponse{
		AccessToken: res.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(res.ExpiresIn.Seconds()),
		User: loginUser{
			ID:          res.User.ID,
			Name:        res.User.Name,
			Email:       res.User.Email,
			Permissions: res.User.Roles(),
		},
	})
}

// GetMe retrieves the currently authenticated user from the token.
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user claims from context")
		WriteError(w, r, apperrors.ErrUnauthenticated)
		return
	}

	user, err := h.users.GetUserByID(r.Context(), claims.UserID())
	if err != nil {
		log.Warn().Err(err).Str("user_id", claims.UserID()).Msg("User from token not found in DB")
		WriteError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// actorID returns the id of the authenticated caller, or "" on public routes.
func actorID(r *http.Request) string {
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		return claims.UserID()
	}
	return ""
}
