package api

import (
	"net/http"
	"testing"
	"time"
)

// TestIPRateLimiterBurst tests that requests are allowed up to the burst
// and rejected beyond it
func TestIPRateLimiterBurst(t *testing.T) {
	rl := NewIPRateLimiter(RateLimitConfig{
		RequestsPerSecond: 1,
		Burst:             3,
		CleanupInterval:   time.Minute,
	})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d within burst should be allowed", i)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("request beyond burst should be rejected")
	}

	// A different IP has its own bucket
	if !rl.Allow("10.0.0.2") {
		t.Error("separate IP should not share the exhausted bucket")
	}

	stats := rl.Stats()
	if stats["rejected"] != 1 {
		t.Errorf("rejected = %d, want 1", stats["rejected"])
	}
}

// TestGetClientIP tests header precedence when extracting the client IP
func TestGetClientIP(t *testing.T) {
	r, _ := http.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.168.1.5:4567"

	if ip := GetClientIP(r); ip != "192.168.1.5" {
		t.Errorf("remote addr IP = %q, want 192.168.1.5", ip)
	}

	r.Header.Set("X-Real-IP", "203.0.113.9")
	if ip := GetClientIP(r); ip != "203.0.113.9" {
		t.Errorf("X-Real-IP should win over RemoteAddr, got %q", ip)
	}

	r.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")
	if ip := GetClientIP(r); ip != "198.51.100.1" {
		t.Errorf("first X-Forwarded-For hop should win, got %q", ip)
	}
}

// TestWebSocketLimiterPerIPCap tests the concurrent connection cap and
// release accounting
func TestWebSocketLimiterPerIPCap(t *testing.T) {
	wrl := NewWebSocketRateLimiter(2)

	if !wrl.Allow("10.0.0.1") || !wrl.Allow("10.0.0.1") {
		t.Fatal("connections up to the cap should be allowed")
	}
	if wrl.Allow("10.0.0.1") {
		t.Error("connection beyond the per-IP cap should be rejected")
	}
	if wrl.ConnectionCount("10.0.0.1") != 2 {
		t.Errorf("connection count = %d, want 2", wrl.ConnectionCount("10.0.0.1"))
	}

	wrl.Release("10.0.0.1")
	if !wrl.Allow("10.0.0.1") {
		t.Error("released slot should be reusable")
	}
}

// TestIsAllowedOrigin tests the WebSocket origin policy
func TestIsAllowedOrigin(t *testing.T) {
	if IsAllowedOrigin("", nil) {
		t.Error("empty origin should be rejected")
	}
	if !IsAllowedOrigin("http://localhost:3000", nil) {
		t.Error("localhost should be allowed")
	}
	if !IsAllowedOrigin("http://127.0.0.1:8080", nil) {
		t.Error("loopback should be allowed")
	}
	if IsAllowedOrigin("https://evil.example.com", nil) {
		t.Error("unknown origin should be rejected")
	}
	if !IsAllowedOrigin("https://game.example.com", []string{"https://game.example.com"}) {
		t.Error("configured extra origin should be allowed")
	}
}
