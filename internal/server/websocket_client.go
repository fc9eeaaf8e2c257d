package server

import (
	"strings"

	"github.com/gorilla/websocket"
)

// WebSocketClient wraps a WebSocket connection for browser-based play. Each
// text message carries one JSON request.
type WebSocketClient struct {
	conn *websocket.Conn
}

// NewWebSocketClient creates a new WebSocketClient from a WebSocket connection.
// A positive maxMessageSize bounds incoming messages.
func NewWebSocketClient(conn *websocket.Conn, maxMessageSize int64) *WebSocketClient {
	if maxMessageSize > 0 {
		conn.SetReadLimit(maxMessageSize)
	}
	return &WebSocketClient{conn: conn}
}

// ReadRequest reads the next non-empty message and decodes it (blocking).
func (c *WebSocketClient) ReadRequest() (Request, error) {
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return Request{}, err
		}
		if strings.TrimSpace(string(message)) == "" {
			continue
		}
		return decodeRequest(message)
	}
}

// WriteResponse sends a response as a JSON text message.
func (c *WebSocketClient) WriteResponse(resp Response) error {
	return c.conn.WriteJSON(resp)
}

// Close closes the WebSocket connection.
func (c *WebSocketClient) Close() error {
	return c.conn.Close()
}

// RemoteAddr returns the remote address as a string.
func (c *WebSocketClient) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
