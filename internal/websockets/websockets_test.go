package websockets

import (
	"attendtrack/config"
	"attendtrack/internal/database"
	"attendtrack/internal/events"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) (*Manager, *events.EventBus) {
	t.Helper()

	bus := events.New(nil, config.Default())
	t.Cleanup(func() { _ = bus.Close() })

	manager, err := New(database.DB{}, bus, config.Default())
	require.NoError(t, err)
	return manager, bus
}

func TestNew_RequiresEventBus(t *testing.T) {
	_, err := New(database.DB{}, nil, config.Default())
	assert.Error(t, err)
}

func TestManager_ForwardsImportEvents(t *testing.T) {
	manager, bus := newManager(t)

	client := &Client{ID: "c1", send: make(chan []byte, 1)}
	manager.register(client)
	assert.Equal(t, 1, manager.ClientCount())

	require.NoError(t, bus.Publish(events.ImportCompleted, events.Event{
		ID:   "e1",
		Type: "import",
		Data: map[string]any{"filename": "day.csv"},
	}))

	var received events.Event
	require.NoError(t, json.Unmarshal(<-client.send, &received))
	assert.Equal(t, "e1", received.ID)
	assert.Equal(t, events.ImportCompleted, received.Channel)
	assert.Equal(t, "day.csv", received.Data["filename"])

	manager.unregister(client)
	assert.Zero(t, manager.ClientCount())
	manager.unregister(client)
}

func TestManager_DropsSlowClients(t *testing.T) {
	manager, _ := newManager(t)

	slow := &Client{ID: "slow", send: make(chan []byte)}
	manager.register(slow)

	require.NoError(t, manager.Broadcast(events.Event{ID: "e1"}))
	assert.Zero(t, manager.ClientCount())

	_, open := <-slow.send
	assert.False(t, open)
}
