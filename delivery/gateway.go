package delivery

import (
	"context"
	"log"

	ws "github.com/thanhtike404/hotel-booking/websocket"
)

// Result reports how many users a push reached. Delivery is advisory: the
// durable store write is the correctness boundary, so Deliver never returns an
// error and a failed push is observable only through these counts and logs.
type Result struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

// Strategy is one delivery mechanism in the fallback ladder.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, userID string, msg ws.PushMessage) bool
}

// Gateway pushes notification messages to live connections, trying each
// strategy in order until one succeeds for a given user.
type Gateway struct {
	strategies []Strategy
}

// NewGateway creates a gateway with the given ordered strategies.
func NewGateway(strategies ...Strategy) *Gateway {
	return &Gateway{strategies: strategies}
}

// Deliver attempts a best-effort push to each user. It is invoked strictly
// after the store write has committed, never instead of it.
func (g *Gateway) Deliver(ctx context.Context, userIDs []string, msg ws.PushMessage) Result {
	var result Result
	for _, userID := range userIDs {
		if g.deliverOne(ctx, userID, msg) {
			result.Success++
		} else {
			result.Failed++
		}
	}
	return result
}

func (g *Gateway) deliverOne(ctx context.Context, userID string, msg ws.PushMessage) bool {
	msg.UserID = userID
	for _, s := range g.strategies {
		if s.Attempt(ctx, userID, msg) {
			return true
		}
	}
	log.Printf("All delivery strategies failed for user %s; notification remains available via pull", userID)
	return false
}
