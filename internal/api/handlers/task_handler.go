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

// TaskHandler handles HTTP requests related to tasks.
type TaskHandler struct {
	service services.TaskServiceProvider
	events  EventPublisher
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service services.TaskServiceProvider, events EventPublisher) *TaskHandler {
	return &TaskHandler{service: service, events: publisherOrNop(events)}
}

// List returns one page of tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListTasks(intQuery(r, "page", 1), intQuery(r, "limit", 10))
	if err != nil {
		response.Error(w, r, taskError(err))
		return
	}
	response.Success(w, "ok", page)
}

// Get returns a single task.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	task, err := h.service.GetTask(id)
	if err != nil {
		response.Error(w, r, taskError(err))
		return
	}
	response.Success(w, "ok", task)
}

// Create adds a task to the board.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.TaskInput
	if err := decodeJSON(r, &input); err != nil {
		response.Error(w, r, err)
		return
	}

	task, err := h.service.CreateTask(input)
	if err != nil {
		response.Error(w, r, taskError(err))
		return
	}
	h.events.Publish(ws.TopicTasks, "task.created", task)
	response.Created(w, "task created", task)
}

// Update applies a partial update to a task.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	var input models.TaskInput
	if err := decodeJSON(r, &input); err != nil {
		response.Error(w, r, err)
		return
	}

	task, err := h.service.UpdateTask(id, input)
	if err != nil {
		response.Error(w, r, taskError(err))
		return
	}
	h.events.Publish(ws.TopicTasks, "task.updated", task)
	response.Success(w, "task updated", task)
}

// Delete removes a task.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	if err := h.service.DeleteTask(id); err != nil {
		response.Error(w, r, taskError(err))
		return
	}
	h.events.Publish(ws.TopicTasks, "task.deleted", map[string]int64{"id": id})
	response.Success(w, "task deleted", nil)
}

func taskError(err error) error {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		return apperror.NotFound("task not found")
	case errors.Is(err, services.ErrPageNotFound):
		return apperror.NotFound("page not found")
	}
	return apperror.Internal(err)
}
