package handlers

import (
	"errors"
	"net/http"

	"github.com/isdelr/taskboard-be/internal/api/response"
	"github.com/isdelr/taskboard-be/internal/apperror"
	"github.com/isdelr/taskboard-be/internal/auth"
	"github.com/rs/zerolog/log"
)

// AuthHandler serves the login, identity and token verification endpoints.
type AuthHandler struct {
	login *auth.LoginService
	codec *auth.TokenCodec
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(login *auth.LoginService, codec *auth.TokenCodec) *AuthHandler {
	return &AuthHandler{login: login, codec: codec}
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// VerifyPayload defines the structure for token verification requests.
type VerifyPayload struct {
	Token string `json:"token"`
}

// MeResult is the data of the identity response.
type MeResult struct {
	User auth.Identity `json:"user"`
}

// VerifyResult is the data of a verification response.
type VerifyResult struct {
	Valid bool           `json:"valid"`
	User  *auth.Identity `json:"user,omitempty"`
}

// Login exchanges credentials for a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := decodeJSON(r, &payload); err != nil {
		response.Error(w, r, err)
		return
	}

	result, err := h.login.Login(payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, auth.ErrBadCredentials) {
			log.Warn().Str("username", payload.Username).Msg("Failed authentication attempt")
			response.Error(w, r, apperror.Unauthenticated("bad credentials"))
			return
		}
		response.Error(w, r, apperror.Internal(err))
		return
	}

	log.Info().Int64("user_id", result.User.ID).Msg("User logged in")
	response.Success(w, "login successful", result)
}

// Me returns the identity attached by the authentication stage.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, r, apperror.Unauthenticated(auth.MsgUnauthenticated))
		return
	}
	response.Success(w, "ok", MeResult{User: id})
}

// Logout acknowledges a logout. Tokens are stateless, so the client simply
// discards its token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	response.Success(w, "logout successful", nil)
}

// Verify reports whether a token passes verification.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var payload VerifyPayload
	if err := decodeJSON(r, &payload); err != nil {
		response.Error(w, r, err)
		return
	}
	if payload.Token == "" {
		response.Error(w, r, apperror.BadRequest("token must not be empty", nil))
		return
	}

	claims, err := h.codec.Verify(payload.Token)
	if err != nil {
		response.Write(w, http.StatusUnauthorized, auth.MsgInvalidToken, VerifyResult{Valid: false})
		return
	}

	id := claims.Identity()
	response.Success(w, "token is valid", VerifyResult{Valid: true, User: &id})
}
