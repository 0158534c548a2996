package push

import (
	"context"

	"github.com/gorilla/websocket"
)

// WebSocketTransport dials the backend's websocket endpoint.
type WebSocketTransport struct {
	dialer *websocket.Dialer
}

// NewWebSocketTransport returns a transport using the default dialer.
func NewWebSocketTransport() *WebSocketTransport {
	return &WebSocketTransport{dialer: websocket.DefaultDialer}
}

// Dial opens the connection. The server pushes the event topic on the
// connection itself; no subscribe frame is required.
func (t *WebSocketTransport) Dial(ctx context.Context, url string) (Conn, error) {
	conn, resp, err := t.dialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return &wsConn{conn: conn}, nil
}

type wsConn struct {
	conn *websocket.Conn
}

func (c *wsConn) ReadMessage() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	return data, err
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}
