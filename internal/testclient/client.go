package testclient

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/lawnchairsociety/draftforge/internal/server"
)

// DefaultTimeout bounds how long Do waits for a reply.
const DefaultTimeout = 2 * time.Second

// TestClient is a line protocol connection to a draft server
type TestClient struct {
	Name string
	Seed int64

	conn   net.Conn
	writer *bufio.Writer

	mu        sync.Mutex
	responses []server.Response
	notify    chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// newClientConnection dials the server and starts the background reader.
func newClientConnection(address string) (*TestClient, error) {
	conn, err := net.Dial("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	client := &TestClient{
		conn:   conn,
		writer: bufio.NewWriter(conn),
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	go client.readResponses(bufio.NewScanner(conn))

	return client, nil
}

// NewTestClient connects and waits for the welcome message, which carries
// the session seed.
func NewTestClient(name string, address string) (*TestClient, error) {
	client, err := newClientConnection(address)
	if err != nil {
		return nil, err
	}
	client.Name = name

	welcome, ok := client.WaitForType(server.TypeWelcome, DefaultTimeout)
	if !ok {
		client.Close()
		return nil, fmt.Errorf("no welcome from %s, got %v", address, client.GetResponses())
	}
	client.Seed = welcome.Seed
	client.ClearResponses()

	return client, nil
}

// NewTestClientRaw connects without waiting for the welcome.
func NewTestClientRaw(address string) (*TestClient, error) {
	client, err := newClientConnection(address)
	if err != nil {
		return nil, err
	}
	client.Name = "RawClient"
	return client, nil
}

// readResponses continuously decodes server lines. Undecodable lines are
// dropped.
func (c *TestClient) readResponses(scanner *bufio.Scanner) {
	for scanner.Scan() {
		var resp server.Response
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			continue
		}
		c.mu.Lock()
		c.responses = append(c.responses, resp)
		c.mu.Unlock()

		select {
		case c.notify <- struct{}{}:
		default:
		}
	}
}

// Send writes one request.
func (c *TestClient) Send(req server.Request) error {
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}
	return c.SendRaw(string(data))
}

// SendRaw writes one line as is.
func (c *TestClient) SendRaw(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.writer.WriteString(line + "\n"); err != nil {
		return err
	}
	return c.writer.Flush()
}

// Do sends a request and waits for the next response.
func (c *TestClient) Do(req server.Request) (server.Response, error) {
	c.mu.Lock()
	seen := len(c.responses)
	c.mu.Unlock()

	if err := c.Send(req); err != nil {
		return server.Response{}, err
	}
	resp, ok := c.waitFor(DefaultTimeout, func(i int, _ server.Response) bool { return i >= seen })
	if !ok {
		return server.Response{}, fmt.Errorf("no response to %q within %v", req.Action, DefaultTimeout)
	}
	return resp, nil
}

// GetResponses returns all responses received so far
func (c *TestClient) GetResponses() []server.Response {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]server.Response, len(c.responses))
	copy(result, c.responses)
	return result
}

// GetLastResponse returns the most recent response
func (c *TestClient) GetLastResponse() (server.Response, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.responses) == 0 {
		return server.Response{}, false
	}
	return c.responses[len(c.responses)-1], true
}

// ClearResponses clears the response buffer
func (c *TestClient) ClearResponses() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses = nil
}

// WaitForType waits for a response of the given type (with timeout)
func (c *TestClient) WaitForType(typ string, timeout time.Duration) (server.Response, bool) {
	return c.waitFor(timeout, func(_ int, r server.Response) bool { return r.Type == typ })
}

// WaitForError waits for an error response whose message contains text.
func (c *TestClient) WaitForError(text string, timeout time.Duration) (server.Response, bool) {
	return c.waitFor(timeout, func(_ int, r server.Response) bool {
		return r.Type == server.TypeError && strings.Contains(r.Error, text)
	})
}

func (c *TestClient) waitFor(timeout time.Duration, match func(int, server.Response) bool) (server.Response, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		c.mu.Lock()
		for i, r := range c.responses {
			if match(i, r) {
				c.mu.Unlock()
				return r, true
			}
		}
		c.mu.Unlock()

		select {
		case <-c.notify:
		case <-timer.C:
			return server.Response{}, false
		case <-c.done:
			return server.Response{}, false
		}
	}
}

// Close closes the client connection
func (c *TestClient) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

// PrintResponses prints all responses (for debugging)
func (c *TestClient) PrintResponses() {
	fmt.Printf("\n=== Responses for %s ===\n", c.Name)
	for i, r := range c.GetResponses() {
		data, _ := json.Marshal(r)
		fmt.Printf("[%d] %s\n", i, data)
	}
	fmt.Println("======================")
}
