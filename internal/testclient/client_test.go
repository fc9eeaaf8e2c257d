package testclient

import (
	"bufio"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/lawnchairsociety/draftforge/internal/server"
)

// fakeServer greets every connection with seed 5 and answers each request
// with a level response echoing the requested level. An action of "bad"
// gets an error.
func fakeServer(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				enc := json.NewEncoder(conn)
				enc.Encode(server.Response{Type: server.TypeWelcome, Seed: 5})

				scanner := bufio.NewScanner(conn)
				for scanner.Scan() {
					var req server.Request
					if err := json.Unmarshal(scanner.Bytes(), &req); err != nil || req.Action == "bad" {
						enc.Encode(server.Response{Type: server.TypeError, Error: "bad request"})
						continue
					}
					enc.Encode(server.Response{Type: server.TypeLevel, Level: req.Level})
				}
			}(conn)
		}
	}()
	return ln.Addr().String()
}

func TestNewTestClientReadsWelcome(t *testing.T) {
	client, err := NewTestClient("welcome", fakeServer(t))
	if err != nil {
		t.Fatalf("NewTestClient: %v", err)
	}
	defer client.Close()

	if client.Seed != 5 {
		t.Errorf("Seed = %d, want 5", client.Seed)
	}
	if got := client.GetResponses(); len(got) != 0 {
		t.Errorf("welcome should be cleared, got %v", got)
	}
}

func TestDoReturnsNextResponse(t *testing.T) {
	client, err := NewTestClient("do", fakeServer(t))
	if err != nil {
		t.Fatalf("NewTestClient: %v", err)
	}
	defer client.Close()

	for _, level := range []int{3, 7} {
		resp, err := client.Do(server.Request{Action: server.ActionLevel, Level: level})
		if err != nil {
			t.Fatalf("Do: %v", err)
		}
		if resp.Type != server.TypeLevel || resp.Level != level {
			t.Errorf("got %+v, want level %d", resp, level)
		}
	}

	last, ok := client.GetLastResponse()
	if !ok || last.Level != 7 {
		t.Errorf("last response = %+v, %v", last, ok)
	}
}

func TestWaitForError(t *testing.T) {
	client, err := NewTestClient("errors", fakeServer(t))
	if err != nil {
		t.Fatalf("NewTestClient: %v", err)
	}
	defer client.Close()

	if err := client.SendRaw("not json"); err != nil {
		t.Fatalf("SendRaw: %v", err)
	}
	if _, ok := client.WaitForError("bad request", time.Second); !ok {
		t.Error("expected an error response")
	}
	if _, ok := client.WaitForError("something else", 100*time.Millisecond); ok {
		t.Error("should not match a different error")
	}
}

func TestWaitForTypeTimesOut(t *testing.T) {
	client, err := NewTestClientRaw(fakeServer(t))
	if err != nil {
		t.Fatalf("NewTestClientRaw: %v", err)
	}
	defer client.Close()

	if _, ok := client.WaitForType(server.TypeWelcome, time.Second); !ok {
		t.Error("raw client should still see the welcome")
	}
	start := time.Now()
	if _, ok := client.WaitForType(server.TypeState, 100*time.Millisecond); ok {
		t.Error("no state response was sent")
	}
	if time.Since(start) < 100*time.Millisecond {
		t.Error("WaitForType returned before its timeout")
	}
}

func TestCloseTwice(t *testing.T) {
	client, err := NewTestClientRaw(fakeServer(t))
	if err != nil {
		t.Fatalf("NewTestClientRaw: %v", err)
	}
	client.Close()
	client.Close()
	if _, ok := client.WaitForType(server.TypeState, time.Second); ok {
		t.Error("closed client should not wait")
	}
}

func TestNewTestClientNoServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	if _, err := NewTestClient("nobody", addr); err == nil {
		t.Error("expected a dial error")
	}
}
