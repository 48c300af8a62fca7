package socket

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/drakos74/free-mind/internal/concurrent"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub()
	server := httptest.NewServer(hub.Handler())
	defer server.Close()

	first := dial(t, server)
	defer first.Close()
	second := dial(t, server)
	defer second.Close()

	assert.Eventually(t, func() bool {
		return hub.Clients() == 2
	}, time.Second, 10*time.Millisecond)

	// both clients receive the broadcast on their own read loop
	assertion := concurrent.NewAssertion(2)
	for _, conn := range []*websocket.Conn{first, second} {
		go func(conn *websocket.Conn) {
			_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
			_, payload, err := conn.ReadMessage()
			if err != nil {
				assertion.Expect(err)
				return
			}
			assertion.Expect(payload)
		}(conn)
	}

	hub.Emit(EventTrainingUpdate, TrainingUpdate{
		JobID:       "j1",
		NetworkID:   "n1",
		Epoch:       1,
		TotalEpochs: 5,
		Progress:    20,
		ElapsedTime: 1.5,
	})

	assertion.Assert(t)
	for _, v := range assertion.Values() {
		payload, ok := v.([]byte)
		require.True(t, ok, "read failed: %v", v)

		var message struct {
			Event string         `json:"event"`
			Data  TrainingUpdate `json:"data"`
		}
		require.NoError(t, json.Unmarshal(payload, &message))
		assert.Equal(t, EventTrainingUpdate, message.Event)
		assert.Equal(t, "j1", message.Data.JobID)
		assert.Equal(t, "n1", message.Data.NetworkID)
		assert.Equal(t, 1, message.Data.Epoch)
		assert.Equal(t, 5, message.Data.TotalEpochs)
		assert.Equal(t, 20.0, message.Data.Progress)
		assert.Equal(t, 1.5, message.Data.ElapsedTime)
	}
}

func TestHub_Disconnect(t *testing.T) {
	hub := NewHub()
	server := httptest.NewServer(hub.Handler())
	defer server.Close()

	conn := dial(t, server)
	assert.Eventually(t, func() bool {
		return hub.Clients() == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool {
		return hub.Clients() == 0
	}, time.Second, 10*time.Millisecond)

	// broadcasting into an empty hub is a no-op
	hub.Emit(EventTrainingComplete, TrainingComplete{JobID: "j1"})
}

func TestHub_CompleteEventSchema(t *testing.T) {
	hub := NewHub()
	server := httptest.NewServer(hub.Handler())
	defer server.Close()

	conn := dial(t, server)
	defer conn.Close()
	assert.Eventually(t, func() bool {
		return hub.Clients() == 1
	}, time.Second, 10*time.Millisecond)

	hub.Emit(EventTrainingComplete, TrainingComplete{
		JobID:     "j1",
		NetworkID: "n1",
		Status:    "completed",
		Accuracy:  0.95,
		Progress:  100,
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var message map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &message))
	assert.Equal(t, "training_complete", message["event"])

	data := message["data"].(map[string]interface{})
	assert.Equal(t, "completed", data["status"])
	assert.Equal(t, 0.95, data["accuracy"])
	assert.Equal(t, 100.0, data["progress"])
}
