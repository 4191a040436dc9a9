package offline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientHubLifecycle(t *testing.T) {
	hub := NewClientHub()
	assert.Equal(t, 0, hub.Clients())

	id, ch := hub.Register()
	assert.Equal(t, 1, hub.Clients())

	hub.Broadcast(Message{Type: MsgSyncCompleted, Tag: "discounts"})

	select {
	case msg := <-ch:
		assert.Equal(t, MsgSyncCompleted, msg.Type)
		assert.Equal(t, "discounts", msg.Tag)
	default:
		t.Fatal("expected a delivered message")
	}

	hub.Unregister(id)
	assert.Equal(t, 0, hub.Clients())

	_, open := <-ch
	assert.False(t, open, "channel must be closed on unregister")
}

func TestClientHubSkipsSlowClients(t *testing.T) {
	hub := NewClientHub()
	_, ch := hub.Register()

	// overflow the buffer; extra messages are dropped, not blocked on
	for i := 0; i < 20; i++ {
		hub.Broadcast(Message{Type: MsgSyncCompleted})
	}

	require.Equal(t, 8, len(ch))
}
