package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case data, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
	return Message{}
}

func TestHub_PublishReachesSubscribersOnly(t *testing.T) {
	hub := startHub(t)

	tasks := NewClient(hub, nil, 1, []string{TopicTasks})
	milestones := NewClient(hub, nil, 2, []string{TopicMilestones})
	require.True(t, hub.Add(tasks))
	require.True(t, hub.Add(milestones))

	assert.Equal(t, "subscribed", receive(t, tasks).Action)
	assert.Equal(t, "subscribed", receive(t, milestones).Action)

	hub.Publish(TopicTasks, "task.created", map[string]int{"id": 7})

	msg := receive(t, tasks)
	assert.Equal(t, "task.created", msg.Action)
	assert.Equal(t, map[string]any{"id": 7.0}, msg.Payload)

	select {
	case <-milestones.Send:
		t.Fatal("milestone subscriber must not receive task events")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := startHub(t)

	c := NewClient(hub, nil, 1, []string{TopicTasks})
	require.True(t, hub.Add(c))
	receive(t, c)

	hub.Unregister <- c

	select {
	case _, ok := <-c.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
}

func TestHub_AddAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	assert.False(t, hub.Add(NewClient(hub, nil, 1, nil)))
}
