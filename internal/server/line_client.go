package server

import (
	"bufio"
	"encoding/json"
	"net"
	"strings"
	"sync"
)

// LineClient speaks newline-delimited JSON over a raw TCP connection.
type LineClient struct {
	conn    net.Conn
	scanner *bufio.Scanner
	writer  *bufio.Writer
	mu      sync.Mutex // Protects writer
}

// NewLineClient creates a new LineClient from a TCP connection. A positive
// maxLineSize bounds a single request line.
func NewLineClient(conn net.Conn, maxLineSize int) *LineClient {
	scanner := bufio.NewScanner(conn)
	if maxLineSize > 0 {
		scanner.Buffer(make([]byte, 0, min(maxLineSize, 4096)), maxLineSize)
	}
	return &LineClient{
		conn:    conn,
		scanner: scanner,
		writer:  bufio.NewWriter(conn),
	}
}

// ReadRequest reads the next non-blank line and decodes it (blocking).
func (c *LineClient) ReadRequest() (Request, error) {
	for c.scanner.Scan() {
		line := strings.TrimSpace(c.scanner.Text())
		if line == "" {
			continue
		}
		return decodeRequest([]byte(line))
	}
	if err := c.scanner.Err(); err != nil {
		return Request{}, err
	}
	// Scanner finished without error means EOF/connection closed
	return Request{}, net.ErrClosed
}

// WriteResponse writes a response as one JSON line.
func (c *LineClient) WriteResponse(resp Response) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := json.NewEncoder(c.writer).Encode(resp); err != nil {
		return err
	}
	return c.writer.Flush()
}

// Close closes the underlying connection.
func (c *LineClient) Close() error {
	return c.conn.Close()
}

// RemoteAddr returns the remote address as a string.
func (c *LineClient) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
