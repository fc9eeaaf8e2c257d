package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lawnchairsociety/draftforge/internal/catalog"
	"github.com/lawnchairsociety/draftforge/internal/config"
	"github.com/lawnchairsociety/draftforge/internal/journal"
	"github.com/lawnchairsociety/draftforge/internal/logger"
	"github.com/lawnchairsociety/draftforge/internal/session"
)

// Server hosts one draft session per connection over WebSocket and
// newline-delimited TCP.
type Server struct {
	cfg          *config.ServerConfig
	registry     *catalog.Registry
	journal      *journal.Journal
	connLimiter  *ConnLimiter
	rejects      *RejectLimiter
	seeds        func() int64
	listener     net.Listener
	httpServer   *http.Server
	clients      map[Client]struct{}
	mu           sync.Mutex
	shutdown     chan struct{}
	shutdownOnce sync.Once
	StartTime    time.Time
}

// NewServer creates a server for the given configuration and definitions.
func NewServer(cfg *config.ServerConfig, registry *catalog.Registry) *Server {
	return &Server{
		cfg:         cfg,
		registry:    registry,
		connLimiter: NewConnLimiter(cfg.Connections),
		rejects:     NewRejectLimiter(cfg.RateLimit),
		seeds:       func() int64 { return time.Now().UnixNano() },
		clients:     make(map[Client]struct{}),
		shutdown:    make(chan struct{}),
		StartTime:   time.Now(),
	}
}

// SetJournal records every session's run, offers and picks in j.
func (s *Server) SetJournal(j *journal.Journal) {
	s.journal = j
}

// SetSeedSource replaces the seed source used for sessions that do not ask
// for a seed.
func (s *Server) SetSeedSource(seeds func() int64) {
	s.seeds = seeds
}

// SessionCount returns the number of connected sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Handler returns the HTTP handler serving the WebSocket endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocketUpgrade)
	return mux
}

// Start listens for line clients on address until Shutdown.
func (s *Server) Start(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	logger.Info("Server listening", "address", listener.Addr().String())
	return s.Serve(listener)
}

// Serve accepts line clients on listener until Shutdown.
func (s *Server) Serve(listener net.Listener) error {
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			logger.Error("Error accepting connection", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	remoteAddr := conn.RemoteAddr().String()
	ip := extractIP(remoteAddr)

	client := NewLineClient(conn, int(s.cfg.WebSocket.MaxMessageSize))
	release, ok := s.admit(ip)
	if !ok {
		logger.Warning("Connection rejected", "remote_addr", remoteAddr, "ip", ip)
		client.WriteResponse(errorResponse("too many connections, try again later"))
		conn.Close()
		return
	}

	defer func() {
		release()
		conn.Close()
	}()

	s.handleClient(client, ip, s.seeds())
}

// admit checks the lockout and connection limits for ip.
func (s *Server) admit(ip string) (func(), bool) {
	if locked, _ := s.rejects.IsLocked(ip); locked {
		return nil, false
	}
	return s.connLimiter.Acquire(ip)
}

// StartWebSocket serves the WebSocket endpoint on address until Shutdown.
func (s *Server) StartWebSocket(address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	logger.Info("WebSocket server listening", "address", address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleWebSocketUpgrade upgrades an HTTP connection to WebSocket.
// An optional seed query parameter replays a previous run.
func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	clientIP := getRealIP(r)

	seed := s.seeds()
	if raw := r.URL.Query().Get("seed"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid seed", http.StatusBadRequest)
			return
		}
		seed = v
	}

	release, ok := s.admit(clientIP)
	if !ok {
		logger.Warning("WebSocket connection rejected",
			"remote_addr", r.RemoteAddr,
			"client_ip", clientIP)
		http.Error(w, "Too many connections. Please try again later.", http.StatusTooManyRequests)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.cfg.WebSocket.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("WebSocket connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", "error", err)
		release()
		return
	}

	go func() {
		defer func() {
			release()
			wsConn.Close()
		}()
		s.handleClient(NewWebSocketClient(wsConn, s.cfg.WebSocket.MaxMessageSize), clientIP, seed)
	}()
}

// handleClient drives one session until the client disconnects or is
// locked out.
func (s *Server) handleClient(client Client, ip string, seed int64) {
	sess := session.New(s.registry, nil, s.cfg.Engine, seed)
	if s.journal != nil {
		if err := sess.AttachJournal(s.journal); err != nil {
			logger.Warning("journal start run failed", "remote_addr", client.RemoteAddr(), "error", err)
		}
	}

	s.mu.Lock()
	s.clients[client] = struct{}{}
	s.mu.Unlock()

	defer func() {
		sess.Close()
		s.mu.Lock()
		delete(s.clients, client)
		s.mu.Unlock()
		logger.Info("Client disconnected", "remote_addr", client.RemoteAddr())
	}()

	logger.Info("Client connected", "remote_addr", client.RemoteAddr(), "seed", seed)
	if err := client.WriteResponse(Response{Type: TypeWelcome, Seed: seed}); err != nil {
		return
	}

	h := newHandler(sess)
	for {
		req, err := client.ReadRequest()
		var resp Response
		switch {
		case errors.Is(err, ErrMalformed):
			resp = errorResponse("%v", err)
		case err != nil:
			return
		default:
			resp = h.handle(req)
		}

		if err := client.WriteResponse(resp); err != nil {
			return
		}
		if resp.Type == TypeError && s.reject(client, ip) {
			return
		}
	}
}

// reject counts a rejected request and reports whether the client is now
// locked out.
func (s *Server) reject(client Client, ip string) bool {
	locked, lockout := s.rejects.RecordReject(ip)
	if !locked {
		return false
	}
	logger.Warning("Client locked out", "remote_addr", client.RemoteAddr(), "ip", ip, "lockout", lockout)
	client.WriteResponse(errorResponse("too many rejected requests, locked out for %s", lockout.Round(time.Second)))
	return true
}

// getRealIP extracts the real client IP from an HTTP request.
// It checks X-Forwarded-For header first (for reverse proxy setups),
// then falls back to the direct remote address.
func getRealIP(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs: "client, proxy1, proxy2"
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if clientIP := strings.TrimSpace(strings.Split(xff, ",")[0]); clientIP != "" {
			return clientIP
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	return extractIP(r.RemoteAddr)
}

// Shutdown stops accepting connections and closes every session.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		close(s.shutdown)

		s.mu.Lock()
		listener, httpServer := s.listener, s.httpServer
		clients := make([]Client, 0, len(s.clients))
		for c := range s.clients {
			clients = append(clients, c)
		}
		s.mu.Unlock()

		if listener != nil {
			listener.Close()
		}
		if httpServer != nil {
			err = httpServer.Shutdown(ctx)
		}
		for _, c := range clients {
			c.Close()
		}
		s.rejects.Stop()

		logger.Info("Server shutdown complete", "sessions_closed", len(clients))
	})
	return err
}
