package server

import (
	"net/http"
	"testing"

	"github.com/lawnchairsociety/draftforge/internal/config"
)

func mustAcquire(t *testing.T, limiter *ConnLimiter, ip string) func() {
	t.Helper()
	release, ok := limiter.Acquire(ip)
	if !ok {
		t.Fatalf("connection from %s should be allowed", ip)
	}
	return release
}

func TestConnLimiter_PerIPLimit(t *testing.T) {
	limiter := NewConnLimiter(config.ConnectionsConfig{
		MaxPerIP: 2,
		MaxTotal: 100,
	})

	release := mustAcquire(t, limiter, "192.168.1.1")
	mustAcquire(t, limiter, "192.168.1.1")

	if _, ok := limiter.Acquire("192.168.1.1"); ok {
		t.Error("third connection from same IP should be rejected")
	}

	mustAcquire(t, limiter, "192.168.1.2")

	release()
	mustAcquire(t, limiter, "192.168.1.1")
}

func TestConnLimiter_TotalLimit(t *testing.T) {
	limiter := NewConnLimiter(config.ConnectionsConfig{
		MaxPerIP: 10,
		MaxTotal: 3,
	})

	release := mustAcquire(t, limiter, "192.168.1.1")
	mustAcquire(t, limiter, "192.168.1.2")
	mustAcquire(t, limiter, "192.168.1.3")

	if _, ok := limiter.Acquire("192.168.1.4"); ok {
		t.Error("fourth connection should be rejected due to total limit")
	}

	release()
	mustAcquire(t, limiter, "192.168.1.4")
}

func TestConnLimiter_ReleaseIsIdempotent(t *testing.T) {
	limiter := NewConnLimiter(config.ConnectionsConfig{MaxPerIP: 10, MaxTotal: 10})

	release := mustAcquire(t, limiter, "192.168.1.1")
	mustAcquire(t, limiter, "192.168.1.1")
	release()
	release()

	if got := limiter.IPCount("192.168.1.1"); got != 1 {
		t.Errorf("IPCount = %d, want 1", got)
	}
}

func TestConnLimiter_Unlimited(t *testing.T) {
	limiter := NewConnLimiter(config.ConnectionsConfig{
		MaxPerIP: 0,
		MaxTotal: 0,
	})

	for i := 0; i < 100; i++ {
		if _, ok := limiter.Acquire("192.168.1.1"); !ok {
			t.Errorf("connection %d should be allowed when unlimited", i)
		}
	}
}

func TestConnLimiter_Stats(t *testing.T) {
	limiter := NewConnLimiter(config.ConnectionsConfig{
		MaxPerIP: 10,
		MaxTotal: 100,
	})

	mustAcquire(t, limiter, "192.168.1.1")
	release := mustAcquire(t, limiter, "192.168.1.1")
	mustAcquire(t, limiter, "192.168.1.2")

	if got := limiter.Stats(); got != (ConnStats{Total: 3, IPs: 2}) {
		t.Errorf("Stats() = %+v, want {Total:3 IPs:2}", got)
	}

	release()
	if got := limiter.IPCount("192.168.1.1"); got != 1 {
		t.Errorf("IPCount = %d, want 1", got)
	}
	if got := limiter.IPCount("192.168.1.3"); got != 0 {
		t.Errorf("expected count 0 for unknown IP, got %d", got)
	}
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"192.168.1.1:12345", "192.168.1.1"},
		{"[::1]:12345", "::1"},
		{"localhost:4000", "localhost"},
		{"192.168.1.1", "192.168.1.1"}, // No port
	}

	for _, tt := range tests {
		result := extractIP(tt.input)
		if result != tt.expected {
			t.Errorf("extractIP(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestGetRealIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		expected   string
	}{
		{
			name:       "X-Forwarded-For single IP",
			xff:        "203.0.113.50",
			remoteAddr: "10.0.0.1:12345",
			expected:   "203.0.113.50",
		},
		{
			name:       "X-Forwarded-For multiple IPs",
			xff:        "203.0.113.50, 70.41.3.18, 150.172.238.178",
			remoteAddr: "10.0.0.1:12345",
			expected:   "203.0.113.50", // First IP is the client
		},
		{
			name:       "X-Real-IP",
			xri:        "203.0.113.50",
			remoteAddr: "10.0.0.1:12345",
			expected:   "203.0.113.50",
		},
		{
			name:       "X-Forwarded-For takes precedence over X-Real-IP",
			xff:        "203.0.113.50",
			xri:        "198.51.100.25",
			remoteAddr: "10.0.0.1:12345",
			expected:   "203.0.113.50",
		},
		{
			name:       "No headers - use RemoteAddr",
			remoteAddr: "192.168.1.100:54321",
			expected:   "192.168.1.100",
		},
		{
			name:       "Empty X-Forwarded-For falls back to RemoteAddr",
			xff:        "",
			remoteAddr: "192.168.1.100:54321",
			expected:   "192.168.1.100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &http.Request{
				RemoteAddr: tt.remoteAddr,
				Header:     make(http.Header),
			}
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}

			result := getRealIP(req)
			if result != tt.expected {
				t.Errorf("getRealIP() = %q, want %q", result, tt.expected)
			}
		})
	}
}
