package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/thanhtike404/hotel-booking/models"
	ws "github.com/thanhtike404/hotel-booking/websocket"
)

// Agent connection states.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Reconnect budget: after MaxReconnectAttempts consecutive failed reconnects
// the agent parks in StateFailed until Connect is called again.
const (
	MaxReconnectAttempts = 5
	ReconnectDelay       = 3 * time.Second
)

// Config configures a reconciliation agent.
type Config struct {
	// WebSocketURL is the ws:// endpoint, without the userId query parameter.
	WebSocketURL string
	// APIBaseURL is the HTTP base, e.g. "http://localhost:8080".
	APIBaseURL string
	UserID     string
	// Token is the bearer token used for API calls.
	Token string

	// MaxReconnectAttempts defaults to MaxReconnectAttempts when zero.
	MaxReconnectAttempts int
	// ReconnectDelay defaults to ReconnectDelay when zero.
	ReconnectDelay time.Duration
	// PollInterval enables periodic pull reconciliation when positive.
	PollInterval time.Duration
	// FetchTimeout bounds each pull request. Defaults to 10s.
	FetchTimeout time.Duration

	// OnStateChange, when set, observes every state transition.
	OnStateChange func(State)
}

// Agent maintains the persistent channel to the server, merges pushed events
// into its cache and reconciles with the store by pulling. Push is a latency
// optimization; the pull path is what guarantees nothing is lost.
type Agent struct {
	cfg    Config
	cache  *Cache
	dialer *websocket.Dialer
	http   *http.Client

	mu       sync.Mutex
	state    State
	attempts int
	conn     *websocket.Conn
	closed   bool

	pollOnce sync.Once
	done     chan struct{}
}

// New creates an agent. Call Connect to open the channel.
func New(cfg Config) *Agent {
	if cfg.MaxReconnectAttempts <= 0 {
		cfg.MaxReconnectAttempts = MaxReconnectAttempts
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = ReconnectDelay
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 10 * time.Second
	}
	return &Agent{
		cfg:    cfg,
		cache:  NewCache(),
		dialer: websocket.DefaultDialer,
		http:   &http.Client{},
		state:  StateDisconnected,
		done:   make(chan struct{}),
	}
}

// Cache returns the agent's notification cache.
func (a *Agent) Cache() *Cache {
	return a.cache
}

// State returns the current connection state.
func (a *Agent) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Agent) setState(s State) {
	a.state = s
	if a.cfg.OnStateChange != nil {
		a.cfg.OnStateChange(s)
	}
}

// Connect opens the channel. It is the manual trigger that leaves StateFailed:
// the retry counter is reset and a fresh attempt is made. The initial pull
// reconciliation runs regardless of whether the dial succeeds.
func (a *Agent) Connect(ctx context.Context) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return fmt.Errorf("agent is closed")
	}
	a.attempts = 0
	a.setState(StateConnecting)
	a.mu.Unlock()

	a.startPolling()

	if err := a.Refresh(ctx); err != nil {
		log.Printf("Initial notification fetch failed: %v", err)
	}

	if err := a.dial(ctx); err != nil {
		a.mu.Lock()
		a.setState(StateDisconnected)
		a.scheduleReconnectLocked()
		a.mu.Unlock()
		return err
	}
	return nil
}

func (a *Agent) dial(ctx context.Context) error {
	wsURL, err := url.Parse(a.cfg.WebSocketURL)
	if err != nil {
		return err
	}
	q := wsURL.Query()
	q.Set("userId", a.cfg.UserID)
	wsURL.RawQuery = q.Encode()

	conn, _, err := a.dialer.DialContext(ctx, wsURL.String(), nil)
	if err != nil {
		return err
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		conn.Close()
		return fmt.Errorf("agent is closed")
	}
	a.conn = conn
	a.attempts = 0
	a.setState(StateConnected)
	a.mu.Unlock()

	go a.readLoop(conn)
	return nil
}

// readLoop consumes pushed messages until the connection drops. A clean close
// parks the agent in StateDisconnected; an unclean close schedules a
// reconnect within the retry budget.
func (a *Agent) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			conn.Close()

			a.mu.Lock()
			if a.conn == conn {
				a.conn = nil
			}
			if a.closed || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				a.setState(StateDisconnected)
				a.mu.Unlock()
				return
			}
			a.setState(StateDisconnected)
			a.scheduleReconnectLocked()
			a.mu.Unlock()
			return
		}
		a.handleMessage(data)
	}
}

// handleMessage merges a pushed event into the cache. Messages that are not
// notification pushes are ignored.
func (a *Agent) handleMessage(data []byte) {
	var msg ws.PushMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("Ignoring malformed push message: %v", err)
		return
	}
	if msg.Action != ws.ActionSendNotification {
		return
	}

	createdAt := msg.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.UnixMilli(msg.Timestamp)
	}
	a.cache.Prepend(Notification{
		ID:        msg.ID,
		UserID:    msg.UserID,
		Message:   msg.Message,
		IsRead:    msg.IsRead,
		CreatedAt: createdAt,
	})
}

// scheduleReconnectLocked schedules the next reconnect attempt. Caller holds
// a.mu. Exceeding the budget transitions to the terminal StateFailed.
func (a *Agent) scheduleReconnectLocked() {
	if a.closed {
		return
	}
	if a.attempts >= a.cfg.MaxReconnectAttempts {
		a.setState(StateFailed)
		return
	}
	a.attempts++

	time.AfterFunc(a.cfg.ReconnectDelay, a.reconnect)
}

func (a *Agent) reconnect() {
	a.mu.Lock()
	if a.closed || a.state == StateConnected {
		a.mu.Unlock()
		return
	}
	a.setState(StateConnecting)
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.FetchTimeout)
	defer cancel()

	if err := a.dial(ctx); err != nil {
		log.Printf("Reconnect attempt failed: %v", err)
		a.mu.Lock()
		a.setState(StateDisconnected)
		a.scheduleReconnectLocked()
		a.mu.Unlock()
		return
	}

	// Cover the gap while the channel was down.
	refreshCtx, refreshCancel := context.WithTimeout(context.Background(), a.cfg.FetchTimeout)
	defer refreshCancel()
	if err := a.Refresh(refreshCtx); err != nil {
		log.Printf("Reconnect reconciliation fetch failed: %v", err)
	}
}

func (a *Agent) startPolling() {
	if a.cfg.PollInterval <= 0 {
		return
	}
	a.pollOnce.Do(func() {
		go func() {
			ticker := time.NewTicker(a.cfg.PollInterval)
			defer ticker.Stop()
			for {
				select {
				case <-a.done:
					return
				case <-ticker.C:
					ctx, cancel := context.WithTimeout(context.Background(), a.cfg.FetchTimeout)
					if err := a.Refresh(ctx); err != nil {
						log.Printf("Polling fetch failed: %v", err)
					}
					cancel()
				}
			}
		}()
	})
}

// Refresh pulls the full notification list from the store and merges it into
// the cache. This is the authoritative catch-up path.
func (a *Agent) Refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.FetchTimeout)
	defer cancel()

	endpoint := a.cfg.APIBaseURL + "/api/v1/notifications?userId=" + url.QueryEscape(a.cfg.UserID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	a.authorize(req)

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("notification fetch returned status %d", resp.StatusCode)
	}

	var notifications []models.Notification
	if err := json.NewDecoder(resp.Body).Decode(&notifications); err != nil {
		return err
	}

	a.cache.Merge(notifications)
	return nil
}

// Send writes a notification through the durable create path and waits for it
// to commit, then requests a best-effort push. A push failure is logged, never
// returned: the record is already in the store.
func (a *Agent) Send(ctx context.Context, userID, message string) error {
	body, err := json.Marshal(models.CreateNotificationRequest{
		UserID:  userID,
		Message: message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.cfg.APIBaseURL+"/api/v1/notifications", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	a.authorize(req)

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("notification create returned status %d", resp.StatusCode)
	}

	// Durable write committed; the push below is advisory only.
	notifyBody, err := json.Marshal(models.NotifyRequest{
		UserIDs: []string{userID},
		Message: message,
	})
	if err != nil {
		return nil
	}

	notifyReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.cfg.APIBaseURL+"/api/v1/websocket/notify", bytes.NewReader(notifyBody))
	if err != nil {
		return nil
	}
	notifyReq.Header.Set("Content-Type", "application/json")
	a.authorize(notifyReq)

	notifyResp, err := a.http.Do(notifyReq)
	if err != nil {
		log.Printf("Best-effort push request failed: %v", err)
		return nil
	}
	notifyResp.Body.Close()
	return nil
}

func (a *Agent) authorize(req *http.Request) {
	if a.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+a.cfg.Token)
	}
}

// Close shuts the agent down cleanly. No reconnect is attempted afterwards.
func (a *Agent) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.closed = true
	close(a.done)

	if a.conn != nil {
		a.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		a.conn.Close()
		a.conn = nil
	}
	a.setState(StateDisconnected)
	return nil
}
