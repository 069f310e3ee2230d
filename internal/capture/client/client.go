// Package client implements the capture agent: it wraps an hpack.Encoder,
// frames each encoded header block as a capture envelope, and ships it to
// a relay server over WebSocket, with a periodic heartbeat so the server
// knows the session is still alive.
package client

import (
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"loom/internal/capture"
	"loom/internal/shared/compression/hpack"
	"loom/internal/shared/constants"
	"loom/internal/shared/fixture"
)

// Client drives one capture session against a relay server.
type Client struct {
	conn      *websocket.Conn
	sessionID string
	encoder   *hpack.Encoder
	logger    *zap.Logger

	stopHeartbeat chan struct{}
}

// Dial connects to the relay server's agent endpoint and starts the
// heartbeat loop.
func Dial(url, sessionID string, tableSize uint32, historyEnabled bool, logger *zap.Logger) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}

	c := &Client{
		conn:          conn,
		sessionID:     sessionID,
		encoder:       hpack.NewEncoder(tableSize, historyEnabled),
		logger:        logger,
		stopHeartbeat: make(chan struct{}),
	}
	go c.heartbeatLoop()
	return c, nil
}

// DialWithRetry calls Dial, retrying with exponential backoff (starting at
// constants.ReconnectBaseDelay and capped at constants.ReconnectMaxDelay)
// until it succeeds or constants.MaxReconnectAttempts is exhausted.
// MaxReconnectAttempts of 0 means retry forever.
func DialWithRetry(url, sessionID string, tableSize uint32, historyEnabled bool, logger *zap.Logger) (*Client, error) {
	delay := constants.ReconnectBaseDelay
	var lastErr error
	for attempt := 1; constants.MaxReconnectAttempts == 0 || attempt <= constants.MaxReconnectAttempts; attempt++ {
		c, err := Dial(url, sessionID, tableSize, historyEnabled, logger)
		if err == nil {
			return c, nil
		}
		lastErr = err
		logger.Warn("capture dial failed, retrying",
			zap.Int("attempt", attempt), zap.Duration("delay", delay), zap.Error(err))

		time.Sleep(delay)
		delay *= 2
		if delay > constants.ReconnectMaxDelay {
			delay = constants.ReconnectMaxDelay
		}
	}
	return nil, lastErr
}

// Close stops the heartbeat loop and closes the underlying connection.
func (c *Client) Close() error {
	close(c.stopHeartbeat)
	return c.conn.Close()
}

func (c *Client) heartbeatLoop() {
	ticker := time.NewTicker(capture.HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			env := capture.Envelope{Kind: capture.KindHeartbeat, SessionID: c.sessionID}
			if err := c.conn.WriteMessage(websocket.BinaryMessage, env.Marshal()); err != nil {
				c.logger.Warn("capture heartbeat failed", zap.Error(err))
				return
			}
		case <-c.stopHeartbeat:
			return
		}
	}
}

// SendHeaderSet encodes every header in hs through this client's encoder,
// using each entry's hint, and ships the result as one data envelope.
func (c *Client) SendHeaderSet(hs *fixture.HeaderSet) error {
	buf := make([]byte, 0, 4096)
	for _, entry := range hs.Headers {
		var err error
		buf, err = c.encoder.Encode(entry.Field(), entry.Hint.StaticIndex, entry.Hint.Policy, buf)
		if err != nil {
			return err
		}
	}

	env := capture.Envelope{Kind: capture.KindData, SessionID: c.sessionID, Payload: buf}
	return c.conn.WriteMessage(websocket.BinaryMessage, env.Marshal())
}
