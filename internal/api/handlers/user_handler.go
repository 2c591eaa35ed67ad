package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/isdelr/taskboard-be/internal/api/response"
	"github.com/isdelr/taskboard-be/internal/apperror"
	"github.com/isdelr/taskboard-be/internal/models"
	"github.com/isdelr/taskboard-be/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// List returns every user without password hashes.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	response.Success(w, "ok", h.service.ListAll())
}

// Create registers a new user.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload models.NewUser
	if err := decodeJSON(r, &payload); err != nil {
		response.Error(w, r, err)
		return
	}

	user, err := h.service.CreateUser(payload)
	switch {
	case errors.Is(err, services.ErrDuplicateUsername):
		response.Error(w, r, apperror.Conflict("username already exists"))
		return
	case errors.Is(err, services.ErrPasswordTooLong):
		response.Error(w, r, apperror.BadRequest(fmt.Sprintf("password must be at most %d bytes", services.MaxPasswordBytes), nil))
		return
	case errors.Is(err, services.ErrInvalidRole):
		response.Error(w, r, apperror.BadRequest("role must be one of [admin, user]", nil))
		return
	case err != nil:
		response.Error(w, r, apperror.Internal(err))
		return
	}

	log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("User created")
	response.Created(w, "user created", user)
}
