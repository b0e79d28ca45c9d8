package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func registerClient(t *testing.T, hub *Hub) *Client {
	client := NewClient(hub, nil)
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.ClientCount() > 0 }, time.Second, 5*time.Millisecond)
	return client
}

func TestHub_PublishFansOut(t *testing.T) {
	hub := startHub(t)

	first := NewClient(hub, nil)
	second := NewClient(hub, nil)
	hub.Register(first)
	hub.Register(second)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	require.NoError(t, hub.Publish(map[string]string{"type": "clear"}))

	for _, client := range []*Client{first, second} {
		select {
		case msg := <-client.Send:
			assert.JSONEq(t, `{"type":"clear"}`, string(msg))
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}
}

func TestHub_Unregister(t *testing.T) {
	hub := startHub(t)
	client := registerClient(t, hub)

	hub.Unregister(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)

	_, ok := <-client.Send
	assert.False(t, ok, "send channel should be closed")
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := startHub(t)
	client := registerClient(t, hub)

	// Nobody reads client.Send.
	for i := 0; i < sendBufferSize+1; i++ {
		require.NoError(t, hub.Publish(map[string]int{"n": i}))
	}

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHub_StopClosesClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	client := registerClient(t, hub)

	hub.Stop()
	hub.Stop()

	select {
	case _, ok := <-client.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
}

func TestHub_HandleClientMessage(t *testing.T) {
	hub := NewHub()

	var mu sync.Mutex
	var received []ClientMessage
	hub.OnMessage = func(_ *Client, msg ClientMessage) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, msg)
	}

	client := NewClient(hub, nil)
	hub.HandleClientMessage(client, []byte(`{"type":"clear"}`))
	hub.HandleClientMessage(client, []byte(`not json`))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	assert.Equal(t, "clear", received[0].Type)
}

func TestHub_HandleClientMessage_RateLimited(t *testing.T) {
	hub := NewHub()
	calls := 0
	hub.OnMessage = func(*Client, ClientMessage) { calls++ }

	client := NewClient(hub, nil)
	for i := 0; i < maxMessagesPerSecond+5; i++ {
		hub.HandleClientMessage(client, []byte(`{"type":"clear"}`))
	}

	assert.Equal(t, maxMessagesPerSecond, calls)
}

func TestPumps_DeliverOverWebSocket(t *testing.T) {
	hub := startHub(t)
	upgrader := websocket.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(hub, &Conn{Conn: conn})
		hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, hub.Publish(map[string]string{"type": "notification"}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var event map[string]string
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, "notification", event["type"])
}
