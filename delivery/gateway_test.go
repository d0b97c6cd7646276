package delivery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	ws "github.com/thanhtike404/hotel-booking/websocket"
)

// stubStrategy records attempts and answers with a fixed outcome, optionally
// for a subset of users only.
type stubStrategy struct {
	name     string
	accepts  map[string]bool
	attempts []string
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Attempt(ctx context.Context, userID string, msg ws.PushMessage) bool {
	s.attempts = append(s.attempts, userID)
	return s.accepts[userID]
}

func TestGatewayDeliverCounts(t *testing.T) {
	t.Parallel()

	strategy := &stubStrategy{name: "stub", accepts: map[string]bool{"alice": true}}
	g := NewGateway(strategy)

	result := g.Deliver(context.Background(), []string{"alice", "bob"}, ws.PushMessage{Message: "hello"})

	if result.Success != 1 {
		t.Errorf("expected 1 success, got %d", result.Success)
	}
	if result.Failed != 1 {
		t.Errorf("expected 1 failure, got %d", result.Failed)
	}
}

func TestGatewayNoStrategies(t *testing.T) {
	t.Parallel()

	g := NewGateway()
	result := g.Deliver(context.Background(), []string{"alice"}, ws.PushMessage{})

	if result.Success != 0 || result.Failed != 1 {
		t.Errorf("expected all failed with no strategies, got %+v", result)
	}
}

func TestGatewayFallbackOrder(t *testing.T) {
	t.Parallel()

	first := &stubStrategy{name: "first", accepts: map[string]bool{}}
	second := &stubStrategy{name: "second", accepts: map[string]bool{"alice": true}}
	third := &stubStrategy{name: "third", accepts: map[string]bool{"alice": true}}
	g := NewGateway(first, second, third)

	result := g.Deliver(context.Background(), []string{"alice"}, ws.PushMessage{})

	if result.Success != 1 {
		t.Fatalf("expected success via fallback, got %+v", result)
	}
	if len(first.attempts) != 1 {
		t.Error("first strategy should have been attempted")
	}
	if len(second.attempts) != 1 {
		t.Error("second strategy should have been attempted after first declined")
	}
	if len(third.attempts) != 0 {
		t.Error("third strategy should not run once an earlier rung succeeded")
	}
}

func TestGatewayStampsUserID(t *testing.T) {
	t.Parallel()

	var got ws.PushMessage
	g := NewGateway(strategyFunc(func(ctx context.Context, userID string, msg ws.PushMessage) bool {
		got = msg
		return true
	}))

	g.Deliver(context.Background(), []string{"alice"}, ws.PushMessage{Message: "hi"})

	if got.UserID != "alice" {
		t.Errorf("expected message stamped with target user, got %q", got.UserID)
	}
}

type strategyFunc func(ctx context.Context, userID string, msg ws.PushMessage) bool

func (f strategyFunc) Name() string { return "func" }

func (f strategyFunc) Attempt(ctx context.Context, userID string, msg ws.PushMessage) bool {
	return f(ctx, userID, msg)
}

func TestLogStrategy(t *testing.T) {
	t.Parallel()

	if NewLogStrategy(false).Attempt(context.Background(), "alice", ws.PushMessage{}) {
		t.Error("disabled log strategy should decline")
	}
	if !NewLogStrategy(true).Attempt(context.Background(), "alice", ws.PushMessage{Message: "m"}) {
		t.Error("enabled log strategy should count as delivered")
	}
}

func TestHubStrategyNoBinding(t *testing.T) {
	t.Parallel()

	registry := ws.NewRegistry()
	hub := ws.NewHub(registry)
	s := NewHubStrategy(hub, registry)

	if s.Attempt(context.Background(), "alice", ws.PushMessage{}) {
		t.Error("hub strategy should decline when no connection is bound")
	}
}

func TestHubStrategyEvictsStaleBinding(t *testing.T) {
	t.Parallel()

	registry := ws.NewRegistry()
	hub := ws.NewHub(registry)
	s := NewHubStrategy(hub, registry)

	// Binding points at a handle the hub no longer tracks
	registry.Bind("alice", "dead-handle")

	if s.Attempt(context.Background(), "alice", ws.PushMessage{}) {
		t.Fatal("push to a dead handle should fail")
	}
	if _, ok := registry.Resolve("alice"); ok {
		t.Error("stale binding should be evicted after a failed push")
	}
}

func TestRelayStrategy(t *testing.T) {
	t.Parallel()

	t.Run("no url configured", func(t *testing.T) {
		s := NewRelayStrategy("")
		if s.Attempt(context.Background(), "alice", ws.PushMessage{}) {
			t.Error("relay with no URL should decline")
		}
	})

	t.Run("relay accepts", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected JSON content type, got %s", ct)
			}
			w.WriteHeader(http.StatusOK)
		}))
		t.Cleanup(srv.Close)

		s := NewRelayStrategy(srv.URL)
		if !s.Attempt(context.Background(), "alice", ws.PushMessage{Message: "m"}) {
			t.Error("relay should succeed on 2xx")
		}
	})

	t.Run("relay rejects", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		t.Cleanup(srv.Close)

		s := NewRelayStrategy(srv.URL)
		if s.Attempt(context.Background(), "alice", ws.PushMessage{}) {
			t.Error("relay should fail on non-2xx")
		}
	})

	t.Run("relay unreachable", func(t *testing.T) {
		s := NewRelayStrategy("http://127.0.0.1:1")
		if s.Attempt(context.Background(), "alice", ws.PushMessage{}) {
			t.Error("relay should fail when the endpoint is unreachable")
		}
	})
}
