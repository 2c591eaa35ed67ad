package websocket

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// Topics a client can subscribe to.
const (
	TopicTasks      = "tasks"
	TopicMilestones = "milestones"
)

// Message defines the structure for websocket messages.
type Message struct {
	Action  string `json:"action"`
	Payload any    `json:"payload"`
}

func encode(msg Message) []byte {
	b, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("action", msg.Action).Msg("Failed to encode websocket message")
		return nil
	}
	return b
}
