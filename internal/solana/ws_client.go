package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// LogNotification is one logsSubscribe message.
type LogNotification struct {
	Signature string
	Slot      int64
	Logs      []string
	Err       interface{}
}

// LogStreamConfig configures the log stream client.
type LogStreamConfig struct {
	// ReconnectDelay is the initial delay before a reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay caps the reconnect backoff.
	MaxReconnectDelay time.Duration
	// ReadTimeout bounds a single read; the server's pings keep a healthy
	// connection under it.
	ReadTimeout time.Duration
	// WriteTimeout bounds subscribe/close writes.
	WriteTimeout time.Duration
	// Buffer is the notification channel capacity. When the consumer lags
	// past it, notifications are dropped: discovery is best-effort.
	Buffer int
}

// DefaultLogStreamConfig returns the default stream configuration.
func DefaultLogStreamConfig() LogStreamConfig {
	return LogStreamConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		Buffer:            1024,
	}
}

// LogStream maintains one logsSubscribe subscription over a WebSocket
// connection, reconnecting and resubscribing on failure.
type LogStream struct {
	endpoint string
	mentions []string
	config   LogStreamConfig

	conn   *websocket.Conn
	connMu sync.Mutex

	notifications chan LogNotification
	dropped       atomic.Uint64

	closed atomic.Bool
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewLogStream connects and subscribes to logs mentioning the given
// program ids. Notifications arrive on Notifications until Close.
func NewLogStream(ctx context.Context, endpoint string, mentions []string, config *LogStreamConfig) (*LogStream, error) {
	cfg := DefaultLogStreamConfig()
	if config != nil {
		cfg = *config
	}

	s := &LogStream{
		endpoint:      endpoint,
		mentions:      mentions,
		config:        cfg,
		notifications: make(chan LogNotification, cfg.Buffer),
		done:          make(chan struct{}),
	}

	if err := s.connect(ctx); err != nil {
		return nil, err
	}

	s.wg.Add(1)
	go s.readLoop()

	return s, nil
}

// Notifications returns the stream of log notifications.
func (s *LogStream) Notifications() <-chan LogNotification {
	return s.notifications
}

// Dropped returns the number of notifications discarded because the
// consumer lagged.
func (s *LogStream) Dropped() uint64 {
	return s.dropped.Load()
}

// Close terminates the stream and closes the notification channel.
func (s *LogStream) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	close(s.done)

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.conn.Close()
	}
	s.connMu.Unlock()

	s.wg.Wait()
	close(s.notifications)
	return nil
}

// connect dials the endpoint and sends the logsSubscribe request.
func (s *LogStream) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}

	conn, _, err := dialer.DialContext(ctx, s.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	filter := map[string]interface{}{"mentions": s.mentions}
	req := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "logsSubscribe",
		"params": []interface{}{
			filter,
			map[string]string{"commitment": "confirmed"},
		},
	}

	conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := conn.WriteJSON(req); err != nil {
		conn.Close()
		return fmt.Errorf("write subscribe: %w", err)
	}

	s.connMu.Lock()
	s.conn = conn
	s.connMu.Unlock()
	return nil
}

// readLoop reads messages, dispatching notifications and reconnecting on
// failure with capped exponential backoff.
func (s *LogStream) readLoop() {
	defer s.wg.Done()

	delay := s.config.ReconnectDelay

	for !s.closed.Load() {
		s.connMu.Lock()
		conn := s.conn
		s.connMu.Unlock()

		if conn == nil {
			if !s.reconnect(delay) {
				return
			}
			delay *= 2
			if delay > s.config.MaxReconnectDelay {
				delay = s.config.MaxReconnectDelay
			}
			continue
		}

		conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		_, message, err := conn.ReadMessage()
		if err != nil {
			if s.closed.Load() {
				return
			}
			s.connMu.Lock()
			s.conn.Close()
			s.conn = nil
			s.connMu.Unlock()
			continue
		}

		delay = s.config.ReconnectDelay
		s.handleMessage(message)
	}
}

// reconnect waits delay then re-establishes connection and subscription.
// Returns false when the stream is shutting down.
func (s *LogStream) reconnect(delay time.Duration) bool {
	select {
	case <-s.done:
		return false
	case <-time.After(delay):
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.connect(ctx) // failure leaves conn nil; the loop retries
	return true
}

// wsNotification is the logsNotification message envelope.
type wsNotification struct {
	Method string `json:"method"`
	Params struct {
		Result struct {
			Context struct {
				Slot int64 `json:"slot"`
			} `json:"context"`
			Value struct {
				Signature string      `json:"signature"`
				Logs      []string    `json:"logs"`
				Err       interface{} `json:"err"`
			} `json:"value"`
		} `json:"result"`
	} `json:"params"`
}

func (s *LogStream) handleMessage(message []byte) {
	var notif wsNotification
	if err := json.Unmarshal(message, &notif); err != nil || notif.Method != "logsNotification" {
		return // subscription confirmations and pongs land here
	}

	n := LogNotification{
		Signature: notif.Params.Result.Value.Signature,
		Slot:      notif.Params.Result.Context.Slot,
		Logs:      notif.Params.Result.Value.Logs,
		Err:       notif.Params.Result.Value.Err,
	}

	select {
	case s.notifications <- n:
	default:
		s.dropped.Add(1)
	}
}
