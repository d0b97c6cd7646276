package websocket

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket upgrades the request, assigns a connection handle and
// registers the client. The read loop exists only to observe the close; all
// pushes flow through Hub.Push.
func HandleWebSocket(c echo.Context, hub *Hub, userID string) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &Client{
		UserID: userID,
		Handle: uuid.NewString(),
		Conn:   conn,
	}

	// Welcome frame goes out before the hub knows the connection. Once
	// Register runs the conn is pushable and every write must go through
	// Hub.Push, which serializes on the client's write mutex.
	conn.WriteJSON(PushMessage{
		Action:    ActionConnected,
		UserID:    userID,
		Message:   "WebSocket connection established",
		Timestamp: time.Now().UnixMilli(),
		CreatedAt: time.Now(),
	})

	hub.Register(client)

	go func() {
		defer hub.Unregister(client)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()

	return nil
}
