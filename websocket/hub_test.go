package websocket

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// setupHubServer starts a hub and an HTTP server upgrading /ws connections.
func setupHubServer(t *testing.T) (*Hub, Registry, *httptest.Server) {
	t.Helper()

	registry := NewRegistry()
	hub := NewHub(registry)
	go hub.Run()

	e := echo.New()
	e.GET("/ws", func(c echo.Context) error {
		return HandleWebSocket(c, hub, c.QueryParam("userId"))
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return hub, registry, srv
}

func dialWS(t *testing.T, srv *httptest.Server, userID string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?userId=" + userID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForBinding(t *testing.T, registry Registry, userID string) string {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if handle, ok := registry.Resolve(userID); ok {
			return handle
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("user %s never got a registry binding", userID)
	return ""
}

func TestHubWelcomeMessage(t *testing.T) {
	_, _, srv := setupHubServer(t)
	conn := dialWS(t, srv, "user-1")

	var msg PushMessage
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("reading welcome message failed: %v", err)
	}
	if msg.Action != ActionConnected {
		t.Errorf("expected %q action, got %q", ActionConnected, msg.Action)
	}
	if msg.UserID != "user-1" {
		t.Errorf("expected userId user-1, got %q", msg.UserID)
	}
}

func TestHubPushReachesClient(t *testing.T) {
	hub, registry, srv := setupHubServer(t)
	conn := dialWS(t, srv, "user-1")
	handle := waitForBinding(t, registry, "user-1")

	// Drain the welcome message
	var welcome PushMessage
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatal(err)
	}

	if err := hub.Push(handle, PushMessage{
		Action:  ActionSendNotification,
		UserID:  "user-1",
		Message: "Room is ready",
		ID:      "n1",
	}); err != nil {
		t.Fatalf("Push failed: %v", err)
	}

	var msg PushMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("client never received the push: %v", err)
	}
	if msg.Action != ActionSendNotification || msg.Message != "Room is ready" {
		t.Errorf("unexpected push %+v", msg)
	}
}

// A push can land the moment the registry binding appears, racing the
// connection's own setup. The welcome frame must already be on the wire by
// then; both frames have to arrive intact and in order.
func TestHubWelcomePrecedesFirstPush(t *testing.T) {
	hub, registry, srv := setupHubServer(t)

	for i := 0; i < 10; i++ {
		userID := fmt.Sprintf("user-%d", i)
		conn := dialWS(t, srv, userID)
		handle := waitForBinding(t, registry, userID)

		// Push immediately, as a catch-up delivery to a freshly connected
		// user would.
		if err := hub.Push(handle, PushMessage{
			Action:  ActionSendNotification,
			UserID:  userID,
			Message: "pending while you were away",
			ID:      "n1",
		}); err != nil {
			t.Fatalf("push right after binding failed: %v", err)
		}

		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var first, second PushMessage
		if err := conn.ReadJSON(&first); err != nil {
			t.Fatalf("reading first frame failed: %v", err)
		}
		if err := conn.ReadJSON(&second); err != nil {
			t.Fatalf("reading second frame failed: %v", err)
		}
		if first.Action != ActionConnected {
			t.Fatalf("expected the welcome frame first, got %q", first.Action)
		}
		if second.Action != ActionSendNotification || second.Message != "pending while you were away" {
			t.Fatalf("push frame corrupted or out of order: %+v", second)
		}
		conn.Close()
	}
}

func TestHubPushUnknownHandle(t *testing.T) {
	registry := NewRegistry()
	hub := NewHub(registry)

	if err := hub.Push("no-such-handle", PushMessage{}); err != ErrStaleHandle {
		t.Errorf("expected ErrStaleHandle, got %v", err)
	}
}

func TestHubLastConnectWins(t *testing.T) {
	hub, registry, srv := setupHubServer(t)

	first := dialWS(t, srv, "user-1")
	firstHandle := waitForBinding(t, registry, "user-1")

	second := dialWS(t, srv, "user-1")
	deadline := time.Now().Add(2 * time.Second)
	var secondHandle string
	for time.Now().Before(deadline) {
		if handle, ok := registry.Resolve("user-1"); ok && handle != firstHandle {
			secondHandle = handle
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if secondHandle == "" {
		t.Fatal("second connection never replaced the binding")
	}

	// Closing the superseded connection must not unbind the newer one.
	first.Close()
	time.Sleep(50 * time.Millisecond)
	if handle, ok := registry.Resolve("user-1"); !ok || handle != secondHandle {
		t.Errorf("newest binding should survive the old connection's close, got %q ok=%v", handle, ok)
	}

	// The new connection is still reachable.
	var welcome PushMessage
	second.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := second.ReadJSON(&welcome); err != nil {
		t.Fatal(err)
	}
	if err := hub.Push(secondHandle, PushMessage{Action: ActionSendNotification, Message: "still here"}); err != nil {
		t.Errorf("push to the live connection failed: %v", err)
	}
}

func TestHubUnbindsOnDisconnect(t *testing.T) {
	_, registry, srv := setupHubServer(t)

	conn := dialWS(t, srv, "user-1")
	waitForBinding(t, registry, "user-1")

	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := registry.Resolve("user-1"); !ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("binding should be removed after the connection closes")
}
