package handlers

import (
	"net/http"

	"github.com/isdelr/taskboard-be/internal/api/response"
	"github.com/isdelr/taskboard-be/internal/auth"
	"github.com/isdelr/taskboard-be/internal/services"
	"github.com/rs/zerolog/log"
)

// StarHandler serves the bookmark list.
type StarHandler struct {
	service services.StarServiceProvider
}

// NewStarHandler creates a new StarHandler.
func NewStarHandler(service services.StarServiceProvider) *StarHandler {
	return &StarHandler{service: service}
}

// List returns every star. Anonymous callers are allowed.
func (h *StarHandler) List(w http.ResponseWriter, r *http.Request) {
	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		log.Debug().Int64("user_id", id.ID).Msg("Listing stars")
	}
	response.Success(w, "ok", h.service.ListStars())
}
