package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func waitForClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return h.Clients() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_GreetsNewClients(t *testing.T) {
	h := NewHub(nil)
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer srv.Close()

	conn := dial(t, srv)
	ev := readEvent(t, conn)
	assert.Equal(t, EventConnected, ev.Type)
	assert.Equal(t, "You are connected!", ev.Message)
	assert.NotEmpty(t, ev.SocketID)
}

func TestHub_ChatReachesEveryoneIncludingSender(t *testing.T) {
	h := NewHub(nil)
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer srv.Close()

	alice := dial(t, srv)
	bob := dial(t, srv)
	readEvent(t, alice)
	readEvent(t, bob)
	waitForClients(t, h, 2)

	require.NoError(t, alice.WriteJSON(map[string]string{"message": "  two burgers please "}))

	for _, conn := range []*websocket.Conn{alice, bob} {
		ev := readEvent(t, conn)
		assert.Equal(t, EventChatMessage, ev.Type)
		assert.Equal(t, "two burgers please", ev.Message)
	}
}

func TestHub_IgnoresBlankAndForeignFrames(t *testing.T) {
	h := NewHub(nil)
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer srv.Close()

	conn := dial(t, srv)
	readEvent(t, conn)
	waitForClients(t, h, 1)

	require.NoError(t, conn.WriteJSON(map[string]string{"message": "   "}))
	require.NoError(t, conn.WriteJSON(map[string]string{"type": "typing", "message": "x"}))
	require.NoError(t, conn.WriteJSON(map[string]string{"type": EventChatMessage, "message": "hello"}))

	ev := readEvent(t, conn)
	assert.Equal(t, "hello", ev.Message)
}

func TestHub_BroadcastAndClose(t *testing.T) {
	h := NewHub(nil)
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer srv.Close()

	conn := dial(t, srv)
	readEvent(t, conn)
	waitForClients(t, h, 1)

	h.Broadcast(EventProductAdded, map[string]string{"name": "Burger"})
	ev := readEvent(t, conn)
	assert.Equal(t, EventProductAdded, ev.Type)
	assert.Equal(t, map[string]interface{}{"name": "Burger"}, ev.Data)

	msg := h.Chat("from REST", "api")
	assert.Equal(t, "from REST", msg.Text)
	assert.Equal(t, "from REST", readEvent(t, conn).Message)

	h.Close()
	assert.Equal(t, 0, h.Clients())
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
