package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/isdelr/taskboard-be/internal/api/response"
	"github.com/isdelr/taskboard-be/internal/apperror"
	"github.com/isdelr/taskboard-be/internal/auth"
	ws "github.com/isdelr/taskboard-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// EventPublisher receives board change events.
type EventPublisher interface {
	Publish(topic, action string, payload any)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, string, any) {}

func publisherOrNop(p EventPublisher) EventPublisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

// EventHandler upgrades authenticated requests to the board event feed.
type EventHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

// NewEventHandler creates a new EventHandler. Origins must be in
// allowedOrigins; "*" allows any origin.
func NewEventHandler(hub *ws.Hub, allowedOrigins []string) *EventHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return &EventHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// Serve handles the WebSocket connection request. The optional topics query
// parameter is a comma separated subset of tasks and milestones.
func (h *EventHandler) Serve(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, r, apperror.Unauthenticated(auth.MsgUnauthenticated))
		return
	}

	topics, err := parseTopics(r.URL.Query().Get("topics"))
	if err != nil {
		response.Error(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	client := ws.NewClient(h.hub, conn, id.ID, topics)
	if !h.hub.Add(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

func parseTopics(raw string) ([]string, error) {
	if raw == "" {
		return []string{ws.TopicTasks, ws.TopicMilestones}, nil
	}

	var topics []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		switch t {
		case ws.TopicTasks, ws.TopicMilestones:
			topics = append(topics, t)
		default:
			return nil, apperror.BadRequest("unknown topic "+t, nil)
		}
	}
	return topics, nil
}
