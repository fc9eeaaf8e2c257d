package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lawnchairsociety/draftforge/internal/catalog"
	"github.com/lawnchairsociety/draftforge/internal/config"
	"github.com/lawnchairsociety/draftforge/internal/draft"
)

func newTestServer(t *testing.T, mutate func(*config.ServerConfig)) (*Server, *httptest.Server) {
	t.Helper()
	registry, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default: %v", err)
	}
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}

	srv := NewServer(cfg, registry)
	srv.SetSeedSource(func() int64 { return 1 })
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Shutdown(context.Background())
	})
	return srv, ts
}

type wsPeer struct {
	t    *testing.T
	conn *websocket.Conn
}

func dial(t *testing.T, ts *httptest.Server, query string) (*wsPeer, *http.Response, error) {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws" + query
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return nil, resp, err
	}
	t.Cleanup(func() { conn.Close() })
	return &wsPeer{t: t, conn: conn}, resp, nil
}

func mustDial(t *testing.T, ts *httptest.Server, query string) *wsPeer {
	t.Helper()
	p, _, err := dial(t, ts, query)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if welcome := p.read(); welcome.Type != TypeWelcome {
		t.Fatalf("first message = %+v, want welcome", welcome)
	}
	return p
}

func (p *wsPeer) send(raw string) {
	p.t.Helper()
	if err := p.conn.WriteMessage(websocket.TextMessage, []byte(raw)); err != nil {
		p.t.Fatalf("send: %v", err)
	}
}

func (p *wsPeer) read() Response {
	p.t.Helper()
	p.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var resp Response
	if err := p.conn.ReadJSON(&resp); err != nil {
		p.t.Fatalf("read: %v", err)
	}
	return resp
}

func (p *wsPeer) do(raw string) Response {
	p.t.Helper()
	p.send(raw)
	return p.read()
}

func TestWebSocketSessionFlow(t *testing.T) {
	_, ts := newTestServer(t, nil)
	p := mustDial(t, ts, "?seed=7")

	offer := p.do(`{"action":"jobs"}`)
	if offer.Type != TypeOffer || len(offer.Cards) != 3 {
		t.Fatalf("job offer = %+v, want 3 cards", offer)
	}
	for _, c := range offer.Cards {
		if c.Category != draft.CategoryJobSelection {
			t.Errorf("job offer contains %s", c)
		}
	}

	picked := p.do(`{"action":"pick","index":0}`)
	if picked.Type != TypePicked || !picked.Applied || picked.Card.Job != offer.Cards[0].Job {
		t.Fatalf("pick = %+v", picked)
	}

	if again := p.do(`{"action":"pick","index":0}`); again.Type != TypeError {
		t.Errorf("second pick from the same offer should fail, got %+v", again)
	}

	if lvl := p.do(`{"action":"level","level":12}`); lvl.Level != 12 {
		t.Errorf("level = %+v, want 12", lvl)
	}

	cards := p.do(`{"action":"offer","count":4,"source":"chest"}`)
	if cards.Type != TypeOffer || len(cards.Cards) != 4 {
		t.Fatalf("offer = %+v, want 4 cards", cards)
	}

	adv := p.do(`{"action":"double_down"}`)
	if adv.Type != TypeAdvanced || len(adv.Advanced) != 1 || adv.Advanced[0] != offer.Cards[0].Job {
		t.Errorf("double_down = %+v", adv)
	}

	state := p.do(`{"action":"state"}`)
	if state.State == nil {
		t.Fatal("state response has no snapshot")
	}
	if state.State.Player.Level != 12 || len(state.State.Jobs) != 1 {
		t.Errorf("snapshot = %+v", state.State)
	}
	if tier := state.State.PassiveTiers[offer.Cards[0].Job]; tier != 1 {
		t.Errorf("passive tier = %d, want 1", tier)
	}
}

func TestRequestValidation(t *testing.T) {
	_, ts := newTestServer(t, nil)
	p := mustDial(t, ts, "")

	tests := []struct {
		request string
		want    string
	}{
		{`{"action":"offer","count":99}`, "count must be"},
		{`{"action":"offer","source":"boss"}`, "unknown offer source"},
		{`{"action":"pick","index":3}`, "no offered card"},
		{`{"action":"level","level":0}`, "level must be"},
		{`{"action":"dance"}`, "unknown action"},
		{`not json`, "malformed request"},
	}
	for _, tt := range tests {
		resp := p.do(tt.request)
		if resp.Type != TypeError || !strings.Contains(resp.Error, tt.want) {
			t.Errorf("%s: got %+v, want error containing %q", tt.request, resp, tt.want)
		}
	}
}

func TestSeedReplaysOffers(t *testing.T) {
	_, ts := newTestServer(t, nil)

	titles := func() []string {
		p := mustDial(t, ts, "?seed=42")
		p.do(`{"action":"jobs"}`)
		p.do(`{"action":"pick","index":1}`)
		p.do(`{"action":"level","level":8}`)
		var out []string
		for _, c := range p.do(`{"action":"offer","count":5}`).Cards {
			out = append(out, c.Title)
		}
		return out
	}

	a, b := titles(), titles()
	if strings.Join(a, "|") != strings.Join(b, "|") {
		t.Errorf("same seed gave different offers:\n%v\n%v", a, b)
	}
}

func TestInvalidSeedRejected(t *testing.T) {
	_, ts := newTestServer(t, nil)
	_, resp, err := dial(t, ts, "?seed=abc")
	if err == nil {
		t.Fatal("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %v, want 400", resp)
	}
}

func TestConnectionLimitRejectsUpgrade(t *testing.T) {
	srv, ts := newTestServer(t, func(cfg *config.ServerConfig) {
		cfg.Connections.MaxPerIP = 1
	})
	mustDial(t, ts, "")

	_, resp, err := dial(t, ts, "")
	if err == nil {
		t.Fatal("second connection from the same IP should be rejected")
	}
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %v, want 429", resp)
	}
	if got := srv.SessionCount(); got != 1 {
		t.Errorf("SessionCount = %d, want 1", got)
	}
}

func TestOriginRejected(t *testing.T) {
	_, ts := newTestServer(t, func(cfg *config.ServerConfig) {
		cfg.WebSocket.AllowedOrigins = []string{"https://play.example.com"}
	})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	header := http.Header{"Origin": []string{"https://evil.example.com"}}
	if _, _, err := websocket.DefaultDialer.Dial(wsURL, header); err == nil {
		t.Error("foreign origin should be rejected")
	}

	header.Set("Origin", "https://play.example.com")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("allowed origin rejected: %v", err)
	}
	conn.Close()
}

func TestRepeatedRejectsLockOut(t *testing.T) {
	_, ts := newTestServer(t, func(cfg *config.ServerConfig) {
		cfg.RateLimit.MaxAttempts = 2
	})
	p := mustDial(t, ts, "")

	if resp := p.do(`garbage`); resp.Type != TypeError {
		t.Fatalf("got %+v, want error", resp)
	}
	p.do(`{"action":"nope"}`)
	if lockout := p.read(); !strings.Contains(lockout.Error, "locked out") {
		t.Errorf("got %+v, want lockout notice", lockout)
	}

	p.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := p.conn.ReadMessage(); err == nil {
		t.Error("connection should be closed after lockout")
	}

	_, resp, err := dial(t, ts, "")
	if err == nil || resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("locked IP should be refused, got (%v, %v)", resp, err)
	}
}

func TestLineProtocol(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	served := make(chan error, 1)
	go func() { served <- srv.Serve(listener) }()

	conn, err := net.Dial("tcp", listener.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(2 * time.Second))

	dec := json.NewDecoder(bufio.NewReader(conn))
	var welcome, offer Response
	if err := dec.Decode(&welcome); err != nil || welcome.Type != TypeWelcome || welcome.Seed != 1 {
		t.Fatalf("welcome = %+v, %v", welcome, err)
	}

	conn.Write([]byte("{\"action\":\"offer\",\"count\":2}\n"))
	if err := dec.Decode(&offer); err != nil || len(offer.Cards) != 2 {
		t.Fatalf("offer = %+v, %v", offer, err)
	}

	srv.Shutdown(context.Background())
	select {
	case err := <-served:
		if err != nil {
			t.Errorf("Serve returned %v after shutdown", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("Serve did not return after shutdown")
	}
}
