package handlers

import (
	"errors"
	"net/http"

	"github.com/isdelr/taskboard-be/internal/api/response"
	"github.com/isdelr/taskboard-be/internal/apperror"
	"github.com/isdelr/taskboard-be/internal/models"
	"github.com/isdelr/taskboard-be/internal/services"
	ws "github.com/isdelr/taskboard-be/internal/websocket"
)

// MilestoneHandler handles HTTP requests related to milestones.
type MilestoneHandler struct {
	service services.MilestoneServiceProvider
	events  EventPublisher
}

// NewMilestoneHandler creates a new MilestoneHandler.
func NewMilestoneHandler(service services.MilestoneServiceProvider, events EventPublisher) *MilestoneHandler {
	return &MilestoneHandler{service: service, events: publisherOrNop(events)}
}

func (h *MilestoneHandler) List(w http.ResponseWriter, r *http.Request) {
	response.Success(w, "ok", h.service.ListMilestones())
}

func (h *MilestoneHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	m, err := h.service.GetMilestone(id)
	if err != nil {
		response.Error(w, r, milestoneError(err))
		return
	}
	response.Success(w, "ok", m)
}

func (h *MilestoneHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.MilestoneInput
	if err := decodeJSON(r, &input); err != nil {
		response.Error(w, r, err)
		return
	}

	m, err := h.service.CreateMilestone(input)
	if err != nil {
		response.Error(w, r, milestoneError(err))
		return
	}
	h.events.Publish(ws.TopicMilestones, "milestone.created", m)
	response.Created(w, "milestone created", m)
}

func (h *MilestoneHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	var input models.MilestoneInput
	if err := decodeJSON(r, &input); err != nil {
		response.Error(w, r, err)
		return
	}

	m, err := h.service.UpdateMilestone(id, input)
	if err != nil {
		response.Error(w, r, milestoneError(err))
		return
	}
	h.events.Publish(ws.TopicMilestones, "milestone.updated", m)
	response.Success(w, "milestone updated", m)
}

func (h *MilestoneHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	if err := h.service.DeleteMilestone(id); err != nil {
		response.Error(w, r, milestoneError(err))
		return
	}
	h.events.Publish(ws.TopicMilestones, "milestone.deleted", map[string]int64{"id": id})
	response.Success(w, "milestone deleted", nil)
}

func milestoneError(err error) error {
	if errors.Is(err, services.ErrMilestoneNotFound) {
		return apperror.NotFound("milestone not found")
	}
	return apperror.Internal(err)
}
