package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T, opts ...HubOption) (*Hub, string) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(zerolog.Nop(), opts...)
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := hub.Serve(w, r); errors.Is(err, ErrHubFull) {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
		}
	}))
	t.Cleanup(srv.Close)

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHub_WelcomeAndBroadcast(t *testing.T) {
	pub := NewPublisher(func(ctx context.Context) (interface{}, error) {
		return map[string]int{"total_active_suppliers": 12}, nil
	})
	hub, url := startHub(t, WithWelcome(pub.Welcome))

	conn := dial(t, url)

	welcome := readMessage(t, conn)
	assert.Equal(t, string(MessageWelcome), welcome["type"])
	assert.Equal(t, float64(12), welcome["data"].(map[string]interface{})["total_active_suppliers"])

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	pushed, err := pub.Push(context.Background(), hub)
	require.NoError(t, err)
	assert.True(t, pushed)

	metrics := readMessage(t, conn)
	assert.Equal(t, string(MessageMetrics), metrics["type"])
	assert.NotEmpty(t, metrics["timestamp"])
}

func TestHub_Unregister(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_MaxClients(t *testing.T) {
	hub, url := startHub(t, WithMaxClients(1))
	dial(t, url)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestPublisher_NoClients(t *testing.T) {
	called := false
	pub := NewPublisher(func(ctx context.Context) (interface{}, error) {
		called = true
		return nil, nil
	})
	hub := NewHub(zerolog.Nop())

	pushed, err := pub.Push(context.Background(), hub)
	require.NoError(t, err)
	assert.False(t, pushed)
	assert.False(t, called)
}

func TestPublisher_SourceError(t *testing.T) {
	pub := NewPublisher(func(ctx context.Context) (interface{}, error) {
		return nil, errors.New("db down")
	})
	_, err := pub.Welcome(context.Background())
	assert.EqualError(t, err, "db down")
}

func TestMessage_Encode(t *testing.T) {
	frame, err := NewMessage(MessageActivity, []string{"x"}).encode()
	require.NoError(t, err)
	assert.Contains(t, string(frame), `"type":"activity"`)
	assert.Contains(t, string(frame), `"data":["x"]`)
}
